package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/domain/providers"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
)

// ClinicsAPI defines the read operations used by the directory service.
type ClinicsAPI interface {
	ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error)
	GetClinic(ctx context.Context, id int) (*entities.Clinic, error)
}

// DirectoryService is the data layer behind the listing and detail views.
// It wraps the clinics API with an optional record cache; a record is
// dropped from the cache whenever a mutation touches it, so the next read
// goes back to the backend.
type DirectoryService struct {
	api        ClinicsAPI
	cache      providers.CacheProvider
	listingTTL int
	detailTTL  int
}

// NewDirectoryService creates a new directory service. cache may be nil.
func NewDirectoryService(api ClinicsAPI, cache providers.CacheProvider, listingTTLSeconds, detailTTLSeconds int) *DirectoryService {
	return &DirectoryService{
		api:        api,
		cache:      cache,
		listingTTL: listingTTLSeconds,
		detailTTL:  detailTTLSeconds,
	}
}

// ListClinics returns the ordered clinic collection for the given search
// and service constraints. Empty strings mean "no constraint".
func (s *DirectoryService) ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error) {
	key := listingKey(search, service)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var clinics []entities.Clinic
			if err := json.Unmarshal(data, &clinics); err == nil {
				return clinics, nil
			}
		}
	}

	clinics, err := s.api.ListClinics(ctx, search, service)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(clinics); err == nil {
			if err := s.cache.Set(ctx, key, data, s.listingTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache clinic listing")
			}
		}
	}
	return clinics, nil
}

// GetClinic returns the detail-level record for one clinic, including its
// reviews.
func (s *DirectoryService) GetClinic(ctx context.Context, id int) (*entities.Clinic, error) {
	key := detailKey(id)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var clinic entities.Clinic
			if err := json.Unmarshal(data, &clinic); err == nil {
				return &clinic, nil
			}
		}
	}

	clinic, err := s.api.GetClinic(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(clinic); err == nil {
			if err := s.cache.Set(ctx, key, data, s.detailTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache clinic detail")
			}
		}
	}
	return clinic, nil
}

// InvalidateClinic drops the cached detail record for one clinic along with
// every cached listing, which embeds its rating and review count.
func (s *DirectoryService) InvalidateClinic(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, detailKey(id)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int("clinic_id", id).Msg("failed to invalidate clinic detail")
	}
	s.InvalidateListings(ctx)
}

// InvalidateListings drops every cached listing variant.
func (s *DirectoryService) InvalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "clinics:list:*"); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate clinic listings")
	}
}

func listingKey(search, service string) string {
	return fmt.Sprintf("clinics:list:%s&%s", url.QueryEscape(search), url.QueryEscape(service))
}

func detailKey(id int) string {
	return fmt.Sprintf("clinics:detail:%d", id)
}
