package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dentkazan/clinicdirectory/internal/application/services"
	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLogin_PersistsAndRestores(t *testing.T) {
	stateDir := t.TempDir()
	session := &entities.Session{
		Token: "tok-123",
		User:  entities.User{ID: 1, Email: "a@b.ru", FullName: "Анна", IsAdmin: true},
	}

	service := services.NewSessionService(&stubAPI{session: session}, stateDir)

	got, err := service.Login(context.Background(), "a@b.ru", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got.Token)
	assert.True(t, service.IsAdmin())

	// A fresh service over the same state dir sees the session.
	restored := services.NewSessionService(&stubAPI{}, stateDir).Restore()
	require.NotNil(t, restored)
	assert.Equal(t, "tok-123", restored.Token)
	assert.Equal(t, "Анна", restored.User.FullName)
	assert.True(t, restored.User.IsAdmin)
}

func TestSessionLogin_ValidatesBeforeNetwork(t *testing.T) {
	api := &stubAPI{}
	service := services.NewSessionService(api, t.TempDir())

	_, err := service.Login(context.Background(), "   ", "secret")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Login(context.Background(), "a@b.ru", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	assert.Empty(t, api.calls)
}

func TestSessionRegister_RequiresFullName(t *testing.T) {
	api := &stubAPI{}
	service := services.NewSessionService(api, t.TempDir())

	_, err := service.Register(context.Background(), "a@b.ru", "secret", "  ")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, api.calls)
}

func TestSessionLogout_ClearsFilesAndMemory(t *testing.T) {
	stateDir := t.TempDir()
	session := &entities.Session{Token: "tok", User: entities.User{ID: 1}}
	service := services.NewSessionService(&stubAPI{session: session}, stateDir)

	_, err := service.Login(context.Background(), "a@b.ru", "secret")
	require.NoError(t, err)

	service.Logout()

	assert.Nil(t, service.Current())
	assert.Empty(t, service.Token())
	assert.NoFileExists(t, filepath.Join(stateDir, "auth_token"))
	assert.NoFileExists(t, filepath.Join(stateDir, "auth_user.json"))

	// Second logout is a no-op.
	service.Logout()
	assert.Nil(t, service.Current())
}

func TestSessionRestore_NothingPersisted(t *testing.T) {
	service := services.NewSessionService(&stubAPI{}, t.TempDir())

	assert.Nil(t, service.Restore())
	assert.Nil(t, service.Current())
}

func TestSessionRestore_CorruptUserFileIsDiscarded(t *testing.T) {
	stateDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "auth_token"), []byte("tok"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, "auth_user.json"), []byte("{not json"), 0o600))

	service := services.NewSessionService(&stubAPI{}, stateDir)

	assert.Nil(t, service.Restore())
	assert.NoFileExists(t, filepath.Join(stateDir, "auth_token"))
}

func TestSessionRestoreAndVerify_RefreshesProfile(t *testing.T) {
	stateDir := t.TempDir()
	seedPersistedSession(t, stateDir, "tok-9", entities.User{ID: 3, FullName: "Старое Имя"})

	api := &stubAPI{user: &entities.User{ID: 3, FullName: "Новое Имя", IsAdmin: true}}
	service := services.NewSessionService(api, stateDir)

	session := service.RestoreAndVerify(context.Background())

	require.NotNil(t, session)
	assert.Equal(t, "tok-9", api.lastToken)
	assert.Equal(t, "Новое Имя", session.User.FullName)
	assert.True(t, service.IsAdmin())
}

func TestSessionRestoreAndVerify_RejectedTokenSignsOut(t *testing.T) {
	stateDir := t.TempDir()
	seedPersistedSession(t, stateDir, "tok-expired", entities.User{ID: 3})

	api := &stubAPI{err: apperrors.NewUnauthenticatedError("token expired")}
	service := services.NewSessionService(api, stateDir)

	assert.Nil(t, service.RestoreAndVerify(context.Background()))
	assert.Nil(t, service.Current())
	assert.NoFileExists(t, filepath.Join(stateDir, "auth_token"))
}

func TestSessionRestoreAndVerify_NetworkFailureKeepsSession(t *testing.T) {
	stateDir := t.TempDir()
	seedPersistedSession(t, stateDir, "tok-9", entities.User{ID: 3, FullName: "Анна"})

	api := &stubAPI{err: apperrors.NewNetworkError("connection refused", nil)}
	service := services.NewSessionService(api, stateDir)

	session := service.RestoreAndVerify(context.Background())

	require.NotNil(t, session)
	assert.Equal(t, "tok-9", session.Token)
	assert.Equal(t, "tok-9", service.Token())
}

func TestSessionCurrent_ReturnsSnapshot(t *testing.T) {
	session := &entities.Session{Token: "tok", User: entities.User{ID: 1, FullName: "Анна"}}
	service := services.NewSessionService(&stubAPI{session: session}, t.TempDir())

	_, err := service.Login(context.Background(), "a@b.ru", "secret")
	require.NoError(t, err)

	snapshot := service.Current()
	snapshot.User.FullName = "mutated"

	assert.Equal(t, "Анна", service.Current().User.FullName)
}

func seedPersistedSession(t *testing.T, stateDir, token string, user entities.User) {
	t.Helper()
	seed := services.NewSessionService(&stubAPI{session: &entities.Session{Token: token, User: user}}, stateDir)
	_, err := seed.Login(context.Background(), "seed@seed.ru", "seed")
	require.NoError(t, err)
}
