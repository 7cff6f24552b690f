package services

import (
	"context"
	"strings"
	"sync"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
)

const defaultDraftRating = 5

// ReviewsAPI defines the review operation used by the workflow.
type ReviewsAPI interface {
	AddReview(ctx context.Context, token string, clinicID, rating int, text string) (*entities.Review, error)
}

// SessionSource is the session state read by the authorized workflows.
type SessionSource interface {
	Current() *entities.Session
	Token() string
	IsAdmin() bool
}

// RecordInvalidator marks cached clinic records stale after a mutation.
type RecordInvalidator interface {
	InvalidateClinic(ctx context.Context, id int)
	InvalidateListings(ctx context.Context)
}

// ReviewService orchestrates authenticated review submission against a
// single clinic. It holds the draft input so a failed submission can be
// retried without retyping.
type ReviewService struct {
	api         ReviewsAPI
	sessions    SessionSource
	invalidator RecordInvalidator

	mu         sync.Mutex
	rating     int
	text       string
	submitting bool
}

// NewReviewService creates a new review workflow.
func NewReviewService(api ReviewsAPI, sessions SessionSource, invalidator RecordInvalidator) *ReviewService {
	return &ReviewService{
		api:         api,
		sessions:    sessions,
		invalidator: invalidator,
		rating:      defaultDraftRating,
	}
}

// Draft returns the current draft rating and text.
func (s *ReviewService) Draft() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rating, s.text
}

// SetDraft updates the draft. The rating is clamped to the 1-5 range at
// this boundary.
func (s *ReviewService) SetDraft(rating int, text string) {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	s.mu.Lock()
	s.rating = rating
	s.text = text
	s.mu.Unlock()
}

// Submit posts the draft review for the given clinic. Preconditions are
// checked in order before any network call: a session must be held, then
// the trimmed text must be non-empty. On success the draft is reset and
// the clinic id is returned so the caller can refresh the detail record;
// on failure the draft is preserved for retry.
func (s *ReviewService) Submit(ctx context.Context, clinicID int) (int, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return 0, apperrors.NewValidationError("a review submission is already in progress")
	}
	s.submitting = true
	rating, text := s.rating, s.text
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	session := s.sessions.Current()
	if session == nil {
		return 0, apperrors.NewUnauthenticatedError("sign in to leave a review")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, apperrors.NewValidationError("review text must not be empty")
	}

	review, err := s.api.AddReview(ctx, session.Token, clinicID, rating, text)
	if err != nil {
		return 0, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int("clinic_id", clinicID).
		Int("review_id", review.ID).
		Msg("review submitted")

	s.mu.Lock()
	s.rating = defaultDraftRating
	s.text = ""
	s.mu.Unlock()

	if s.invalidator != nil {
		s.invalidator.InvalidateClinic(ctx, clinicID)
	}
	return clinicID, nil
}
