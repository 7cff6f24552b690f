package app

import (
	"context"
	"sync"

	"github.com/dentkazan/clinicdirectory/internal/domain/entities"
	"github.com/dentkazan/clinicdirectory/internal/infrastructure/observability"
	apperrors "github.com/dentkazan/clinicdirectory/pkg/errors"
)

// Directory is the data layer the router fetches through.
type Directory interface {
	ListClinics(ctx context.Context, search, service string) ([]entities.Clinic, error)
	GetClinic(ctx context.Context, id int) (*entities.Clinic, error)
}

// Sessions is the session state the router clears on logout.
type Sessions interface {
	Logout()
	IsAdmin() bool
}

// App drives the router state machine: it applies Reduce, then executes
// the returned effects against the data layer and feeds the completion
// events back in. Fetches run on the calling goroutine; a response that
// arrives after a newer navigation carries a stale generation and is
// dropped by Reduce.
type App struct {
	directory Directory
	sessions  Sessions

	mu    sync.Mutex
	state State
}

// New creates a new router driver in the pre-listing loading state.
func New(directory Directory, sessions Sessions) *App {
	return &App{
		directory: directory,
		sessions:  sessions,
	}
}

// State returns a snapshot of the current router state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start performs the initial collection fetch and enters the listing view.
func (a *App) Start(ctx context.Context) State {
	return a.dispatch(ctx, EventStart{})
}

// SelectClinic navigates to the detail view of one clinic.
func (a *App) SelectClinic(ctx context.Context, id int) State {
	return a.dispatch(ctx, EventSelectClinic{ID: id})
}

// Back returns to the listing, re-fetching the collection.
func (a *App) Back(ctx context.Context) State {
	return a.dispatch(ctx, EventBack{})
}

// ReviewAdded refreshes the detail record after a successful submission.
func (a *App) ReviewAdded(ctx context.Context, clinicID int) State {
	return a.dispatch(ctx, EventReviewAdded{ClinicID: clinicID})
}

// GoToAdmin enters the admin view when the session is an administrator;
// otherwise the state is unchanged.
func (a *App) GoToAdmin(ctx context.Context) State {
	return a.dispatch(ctx, EventGoToAdmin{IsAdmin: a.sessions.IsAdmin()})
}

// Logout clears the session and returns to the listing from any state.
func (a *App) Logout(ctx context.Context) State {
	return a.dispatch(ctx, EventLogout{})
}

func (a *App) dispatch(ctx context.Context, event Event) State {
	a.mu.Lock()
	next, effects := Reduce(a.state, event)
	a.state = next
	a.mu.Unlock()

	for _, effect := range effects {
		a.perform(ctx, effect)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) perform(ctx context.Context, effect Effect) {
	switch eff := effect.(type) {
	case EffectFetchListing:
		clinics, err := a.directory.ListClinics(ctx, "", "")
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("listing fetch failed")
			a.dispatch(ctx, EventLoadFailed{Gen: eff.Gen, Message: apperrors.UserMessage(err)})
			return
		}
		a.dispatch(ctx, EventClinicsLoaded{Gen: eff.Gen, Clinics: clinics})

	case EffectFetchClinic:
		clinic, err := a.directory.GetClinic(ctx, eff.ID)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Int("clinic_id", eff.ID).Msg("detail fetch failed")
			a.dispatch(ctx, EventLoadFailed{Gen: eff.Gen, Message: apperrors.UserMessage(err)})
			return
		}
		a.dispatch(ctx, EventClinicLoaded{Gen: eff.Gen, Clinic: clinic})

	case EffectClearSession:
		a.sessions.Logout()
	}
}
