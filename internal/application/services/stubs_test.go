package services_test

import (
	"context"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
)

// stubAPI implements the narrow API interfaces used by the services and
// records every call so tests can assert that guarded operations never
// reach the network.
type stubAPI struct {
	calls []string

	session   *entities.Session
	user      *entities.User
	clinics   []entities.Clinic
	clinic    *entities.Clinic
	admin     []entities.AdminClinic
	review    *entities.Review
	createdID int
	err       error

	lastToken string
	lastInput entities.ClinicInput
}

func (s *stubAPI) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *stubAPI) Login(ctx context.Context, email, password string) (*entities.Session, error) {
	s.record("login")
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubAPI) Register(ctx context.Context, email, password, fullName string) (*entities.Session, error) {
	s.record("register")
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubAPI) Verify(ctx context.Context, token string) (*entities.User, error) {
	s.record("verify")
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAPI) ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error) {
	s.record("list")
	if s.err != nil {
		return nil, s.err
	}
	return s.clinics, nil
}

func (s *stubAPI) GetClinic(ctx context.Context, id int) (*entities.Clinic, error) {
	s.record("get")
	if s.err != nil {
		return nil, s.err
	}
	return s.clinic, nil
}

func (s *stubAPI) AddReview(ctx context.Context, token string, clinicID, rating int, text string) (*entities.Review, error) {
	s.record("addReview")
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.review, nil
}

func (s *stubAPI) AdminList(ctx context.Context, token string) ([]entities.AdminClinic, error) {
	s.record("adminList")
	s.lastToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.admin, nil
}

func (s *stubAPI) AdminCreate(ctx context.Context, token string, input entities.ClinicInput) (int, error) {
	s.record("adminCreate")
	s.lastToken = token
	s.lastInput = input
	if s.err != nil {
		return 0, s.err
	}
	return s.createdID, nil
}

func (s *stubAPI) AdminUpdate(ctx context.Context, token string, input entities.ClinicInput) error {
	s.record("adminUpdate")
	s.lastToken = token
	s.lastInput = input
	return s.err
}

func (s *stubAPI) AdminDelete(ctx context.Context, token string, id int) error {
	s.record("adminDelete")
	s.lastToken = token
	return s.err
}

// stubSessions is a fixed session source.
type stubSessions struct {
	session *entities.Session
}

func (s *stubSessions) Current() *entities.Session {
	return s.session
}

func (s *stubSessions) Token() string {
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

func (s *stubSessions) IsAdmin() bool {
	return s.session != nil && s.session.User.IsAdmin
}

// stubInvalidator records invalidation calls.
type stubInvalidator struct {
	clinicIDs []int
	listings  int
}

func (s *stubInvalidator) InvalidateClinic(ctx context.Context, id int) {
	s.clinicIDs = append(s.clinicIDs, id)
}

func (s *stubInvalidator) InvalidateListings(ctx context.Context) {
	s.listings++
}
