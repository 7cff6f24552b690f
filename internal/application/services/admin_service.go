package services

import (
	"context"
	"strings"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
)

// AdminAPI defines the administrative operations used by the controller.
type AdminAPI interface {
	AdminList(ctx context.Context, token string) ([]entities.AdminClinic, error)
	AdminCreate(ctx context.Context, token string, input entities.ClinicInput) (int, error)
	AdminUpdate(ctx context.Context, token string, input entities.ClinicInput) error
	AdminDelete(ctx context.Context, token string, id int) error
}

// ClinicForm is the raw admin form input. Services is a comma-separated
// line; Schedule is one "days: hours" entry per line.
type ClinicForm struct {
	Name        string
	ImageURL    string
	Address     string
	Phone       string
	Email       string
	Website     string
	Description string
	Services    string
	Schedule    string
}

// AdminService orchestrates authorized create/update/delete of clinic
// records. Every operation is guarded on the session holding administrator
// privileges; the guard fails before any network call.
type AdminService struct {
	api         AdminAPI
	sessions    SessionSource
	invalidator RecordInvalidator
}

// NewAdminService creates a new admin controller.
func NewAdminService(api AdminAPI, sessions SessionSource, invalidator RecordInvalidator) *AdminService {
	return &AdminService{
		api:         api,
		sessions:    sessions,
		invalidator: invalidator,
	}
}

// List returns all clinics in their administrative shape.
func (s *AdminService) List(ctx context.Context) ([]entities.AdminClinic, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.api.AdminList(ctx, s.sessions.Token())
}

// Create validates the form and creates a new clinic. The caller must
// re-list on success.
func (s *AdminService) Create(ctx context.Context, form ClinicForm) (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}

	input, err := form.toInput()
	if err != nil {
		return 0, err
	}

	id, err := s.api.AdminCreate(ctx, s.sessions.Token(), input)
	if err != nil {
		return 0, err
	}

	observability.LoggerFromContext(ctx).Info().Int("clinic_id", id).Msg("clinic created")
	if s.invalidator != nil {
		s.invalidator.InvalidateListings(ctx)
	}
	return id, nil
}

// Update validates the form and updates an existing clinic.
func (s *AdminService) Update(ctx context.Context, id int, form ClinicForm) error {
	if err := s.guard(); err != nil {
		return err
	}

	input, err := form.toInput()
	if err != nil {
		return err
	}
	input.ID = id

	if err := s.api.AdminUpdate(ctx, s.sessions.Token(), input); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().Int("clinic_id", id).Msg("clinic updated")
	if s.invalidator != nil {
		s.invalidator.InvalidateClinic(ctx, id)
	}
	return nil
}

// Delete removes a clinic after interactive confirmation. A declined
// confirmation cancels the operation without a network call; the returned
// bool reports whether the delete was performed.
func (s *AdminService) Delete(ctx context.Context, id int, confirm func() bool) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}

	if confirm == nil || !confirm() {
		return false, nil
	}

	if err := s.api.AdminDelete(ctx, s.sessions.Token(), id); err != nil {
		return false, err
	}

	observability.LoggerFromContext(ctx).Info().Int("clinic_id", id).Msg("clinic deleted")
	if s.invalidator != nil {
		s.invalidator.InvalidateClinic(ctx, id)
	}
	return true, nil
}

func (s *AdminService) guard() error {
	if s.sessions.Current() == nil {
		return apperrors.NewUnauthenticatedError("sign in required")
	}
	if !s.sessions.IsAdmin() {
		return apperrors.NewForbiddenError("administrator privileges required")
	}
	return nil
}

func (f ClinicForm) toInput() (entities.ClinicInput, error) {
	name := strings.TrimSpace(f.Name)
	imageURL := strings.TrimSpace(f.ImageURL)
	address := strings.TrimSpace(f.Address)
	phone := strings.TrimSpace(f.Phone)
	email := strings.TrimSpace(f.Email)
	description := strings.TrimSpace(f.Description)

	if name == "" || imageURL == "" || address == "" || phone == "" || email == "" || description == "" {
		return entities.ClinicInput{}, apperrors.NewValidationError(
			"name, image URL, address, phone, email and description are required")
	}

	return entities.ClinicInput{
		Name:        name,
		ImageURL:    imageURL,
		Address:     address,
		Phone:       phone,
		Email:       email,
		Website:     strings.TrimSpace(f.Website),
		Description: description,
		Services:    ParseServices(f.Services),
		Schedule:    ParseSchedule(f.Schedule),
	}, nil
}

// ParseServices splits a comma-separated service line into trimmed tokens,
// dropping empty ones and preserving order.
func ParseServices(raw string) []string {
	services := []string{}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			services = append(services, token)
		}
	}
	return services
}

// ParseSchedule parses one "days: hours" entry per line, splitting on the
// first colon only. Lines that do not yield two non-empty parts are
// skipped.
func ParseSchedule(raw string) map[string]string {
	schedule := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		days := strings.TrimSpace(parts[0])
		hours := strings.TrimSpace(parts[1])
		if days == "" || hours == "" {
			continue
		}
		schedule[days] = hours
	}
	return schedule
}
