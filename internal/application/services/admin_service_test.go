package services_test

import (
	"context"
	"testing"

	"github.com/dentkazan/clinicdirectory/internal/application/services"
	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminSession() *stubSessions {
	return &stubSessions{session: &entities.Session{
		Token: "tok-admin",
		User:  entities.User{ID: 1, IsAdmin: true},
	}}
}

func visitorSession() *stubSessions {
	return &stubSessions{session: &entities.Session{
		Token: "tok-user",
		User:  entities.User{ID: 2},
	}}
}

func validForm() services.ClinicForm {
	return services.ClinicForm{
		Name:        "Стоматология Премиум",
		ImageURL:    "https://example.com/clinic.jpg",
		Address:     "ул. Баумана, 1, Казань",
		Phone:       "+7 (843) 555-00-00",
		Email:       "info@clinic.ru",
		Description: "Современная стоматология",
		Services:    "Имплантация, Отбеливание",
		Schedule:    "Пн-Пт: 9:00 - 20:00",
	}
}

func TestAdminOperations_ForbiddenForNonAdmin(t *testing.T) {
	api := &stubAPI{}
	service := services.NewAdminService(api, visitorSession(), nil)
	ctx := context.Background()

	_, err := service.List(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	_, err = service.Create(ctx, validForm())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	err = service.Update(ctx, 1, validForm())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	_, err = service.Delete(ctx, 1, func() bool { return true })
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	assert.Empty(t, api.calls, "guarded operations must not reach the network")
}

func TestAdminOperations_UnauthenticatedWithoutSession(t *testing.T) {
	api := &stubAPI{}
	service := services.NewAdminService(api, &stubSessions{}, nil)

	_, err := service.List(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthenticated))
	assert.Empty(t, api.calls)
}

func TestAdminCreate_MissingRequiredFields(t *testing.T) {
	api := &stubAPI{}
	service := services.NewAdminService(api, adminSession(), nil)

	form := validForm()
	form.Phone = "   "

	_, err := service.Create(context.Background(), form)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, api.calls)
}

func TestAdminCreate_Success(t *testing.T) {
	api := &stubAPI{createdID: 42}
	invalidator := &stubInvalidator{}
	service := services.NewAdminService(api, adminSession(), invalidator)

	id, err := service.Create(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "tok-admin", api.lastToken)
	assert.Equal(t, []string{"Имплантация", "Отбеливание"}, api.lastInput.Services)
	assert.Equal(t, map[string]string{"Пн-Пт": "9:00 - 20:00"}, api.lastInput.Schedule)
	assert.Equal(t, 1, invalidator.listings, "listings are stale after a create")
}

func TestAdminUpdate_TargetsExistingID(t *testing.T) {
	api := &stubAPI{}
	invalidator := &stubInvalidator{}
	service := services.NewAdminService(api, adminSession(), invalidator)

	err := service.Update(context.Background(), 7, validForm())

	require.NoError(t, err)
	assert.Equal(t, 7, api.lastInput.ID)
	assert.Equal(t, []int{7}, invalidator.clinicIDs)
}

func TestAdminDelete_DeclinedConfirmationIssuesNoCall(t *testing.T) {
	api := &stubAPI{}
	service := services.NewAdminService(api, adminSession(), nil)

	deleted, err := service.Delete(context.Background(), 5, func() bool { return false })

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, api.calls)
}

func TestAdminDelete_Confirmed(t *testing.T) {
	api := &stubAPI{}
	invalidator := &stubInvalidator{}
	service := services.NewAdminService(api, adminSession(), invalidator)

	deleted, err := service.Delete(context.Background(), 5, func() bool { return true })

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"adminDelete"}, api.calls)
	assert.Equal(t, []int{5}, invalidator.clinicIDs)
}

func TestParseServices(t *testing.T) {
	services := services.ParseServices("Имплантация, Отбеливание ,Брекеты")

	assert.Equal(t, []string{"Имплантация", "Отбеливание", "Брекеты"}, services)
}

func TestParseServices_DropsEmptyTokens(t *testing.T) {
	assert.Empty(t, services.ParseServices(" , ,"))
	assert.Empty(t, services.ParseServices(""))
}

func TestParseSchedule(t *testing.T) {
	schedule := services.ParseSchedule("Пн-Пт: 9:00 - 20:00\nСб: 10:00 - 18:00\n\n")

	assert.Equal(t, map[string]string{
		"Пн-Пт": "9:00 - 20:00",
		"Сб":    "10:00 - 18:00",
	}, schedule)
}

func TestParseSchedule_SplitsOnFirstColonOnly(t *testing.T) {
	schedule := services.ParseSchedule("Вс: По записи: с 10:00")

	assert.Equal(t, map[string]string{"Вс": "По записи: с 10:00"}, schedule)
}

func TestParseSchedule_SkipsUnparsableLines(t *testing.T) {
	schedule := services.ParseSchedule("круглосуточно\nПн-Пт: 8:00 - 20:00\n: пусто")

	assert.Equal(t, map[string]string{"Пн-Пт": "8:00 - 20:00"}, schedule)
}
