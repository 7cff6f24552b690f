package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
)

const (
	tokenFileName = "auth_token"
	userFileName  = "auth_user.json"
)

// AuthAPI defines the auth operations used by the session service.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*entities.Session, error)
	Register(ctx context.Context, email, password, fullName string) (*entities.Session, error)
	Verify(ctx context.Context, token string) (*entities.User, error)
}

// SessionService owns the single authenticated session held by the
// application. The token and the user profile are persisted as separate
// files in the state directory and cleared as a unit.
type SessionService struct {
	api      AuthAPI
	stateDir string

	mu      sync.RWMutex
	session *entities.Session
}

// NewSessionService creates a new session service.
func NewSessionService(api AuthAPI, stateDir string) *SessionService {
	return &SessionService{
		api:      api,
		stateDir: stateDir,
	}
}

// Restore reads the persisted session, if any, into memory. It does not
// validate token freshness; a nil session means "not authenticated".
func (s *SessionService) Restore() *entities.Session {
	token, err := os.ReadFile(filepath.Join(s.stateDir, tokenFileName))
	if err != nil {
		return nil
	}

	userData, err := os.ReadFile(filepath.Join(s.stateDir, userFileName))
	if err != nil {
		return nil
	}

	var user entities.User
	if err := json.Unmarshal(userData, &user); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("discarding corrupt persisted session")
		s.clearFiles()
		return nil
	}

	session := &entities.Session{
		Token: strings.TrimSpace(string(token)),
		User:  user,
	}
	if session.Token == "" {
		return nil
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return session
}

// RestoreAndVerify restores the persisted session and confirms the token is
// still valid. Verification failure is non-fatal: the session is treated as
// absent and cleared.
func (s *SessionService) RestoreAndVerify(ctx context.Context) *entities.Session {
	session := s.Restore()
	if session == nil {
		return nil
	}

	user, err := s.api.Verify(ctx, session.Token)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
			// Backend unreachable; keep the session optimistically.
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("session verification skipped")
			return session
		}
		observability.LoggerFromContext(ctx).Info().Msg("persisted token rejected, signing out")
		s.Logout()
		return nil
	}

	session.User = *user
	s.hold(session)
	return session
}

// Login exchanges credentials for a session and persists it.
func (s *SessionService) Login(ctx context.Context, email, password string) (*entities.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.hold(session)
	return session, nil
}

// Register creates a new account and persists the resulting session.
func (s *SessionService) Register(ctx context.Context, email, password, fullName string) (*entities.Session, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || password == "" || fullName == "" {
		return nil, apperrors.NewValidationError("email, password and full name are required")
	}

	session, err := s.api.Register(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	s.hold(session)
	return session, nil
}

// Logout clears the persisted and in-memory session. Idempotent.
func (s *SessionService) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.clearFiles()
}

// Current returns a snapshot of the held session, or nil.
func (s *SessionService) Current() *entities.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	snapshot := *s.session
	return &snapshot
}

// Token returns the held credential, or the empty string.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// IsAdmin reports whether the held session belongs to an administrator.
// False when no session is held.
func (s *SessionService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session != nil && s.session.User.IsAdmin
}

func (s *SessionService) hold(session *entities.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.persist(session)
}

func (s *SessionService) persist(session *entities.Session) {
	if err := os.MkdirAll(s.stateDir, 0o700); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to create session state dir")
		return
	}

	if err := os.WriteFile(filepath.Join(s.stateDir, tokenFileName), []byte(session.Token), 0o600); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to persist session token")
	}

	userData, err := json.Marshal(session.User)
	if err == nil {
		err = os.WriteFile(filepath.Join(s.stateDir, userFileName), userData, 0o600)
	}
	if err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to persist session user")
	}
}

func (s *SessionService) clearFiles() {
	_ = os.Remove(filepath.Join(s.stateDir, tokenFileName))
	_ = os.Remove(filepath.Join(s.stateDir, userFileName))
}
