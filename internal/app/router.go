// Package app implements the view state machine coordinating navigation
// between the listing, detail and admin views. Transitions are computed by
// a pure Reduce function returning the next state plus the side effects
// (fetches) to perform, so the machine can be unit tested without any
// rendering or network environment.
package app

import "github.com/dentkazan/clinicdirectory/internal/domain/entities"

// View identifies the active view.
type View int

const (
	ViewListing View = iota
	ViewDetail
	ViewAdmin
)

func (v View) String() string {
	switch v {
	case ViewDetail:
		return "detail"
	case ViewAdmin:
		return "admin"
	default:
		return "listing"
	}
}

// State is the complete router state. Gen is the fetch generation: every
// transition that issues a fetch bumps it, and completion events carrying
// an older generation are discarded as stale.
type State struct {
	View     View
	ClinicID int
	Clinics  []entities.Clinic
	Clinic   *entities.Clinic
	Loading  bool
	Err      string
	Gen      uint64
}

// Event is a navigation or completion event fed to Reduce.
type Event interface{ isEvent() }

// Effect is a side effect Reduce asks the driver to perform.
type Effect interface{ isEffect() }

type (
	// EventStart bootstraps the machine; the listing view is entered once
	// the initial collection fetch completes.
	EventStart struct{}

	// EventSelectClinic asks for the detail view of one clinic.
	EventSelectClinic struct{ ID int }

	// EventClinicsLoaded reports a completed collection fetch.
	EventClinicsLoaded struct {
		Gen     uint64
		Clinics []entities.Clinic
	}

	// EventClinicLoaded reports a completed detail fetch.
	EventClinicLoaded struct {
		Gen    uint64
		Clinic *entities.Clinic
	}

	// EventLoadFailed reports a failed fetch with a user-facing message.
	EventLoadFailed struct {
		Gen     uint64
		Message string
	}

	// EventBack leaves the detail or admin view for the listing.
	EventBack struct{}

	// EventReviewAdded reports a successful review submission; the detail
	// record is stale and must be re-fetched.
	EventReviewAdded struct{ ClinicID int }

	// EventGoToAdmin asks for the admin view. IsAdmin carries the session
	// guard evaluated by the driver; the transition is a no-op without it.
	EventGoToAdmin struct{ IsAdmin bool }

	// EventLogout clears the session and returns to the listing from any
	// state.
	EventLogout struct{}
)

func (EventStart) isEvent()         {}
func (EventSelectClinic) isEvent()  {}
func (EventClinicsLoaded) isEvent() {}
func (EventClinicLoaded) isEvent()  {}
func (EventLoadFailed) isEvent()    {}
func (EventBack) isEvent()          {}
func (EventReviewAdded) isEvent()   {}
func (EventGoToAdmin) isEvent()     {}
func (EventLogout) isEvent()        {}

type (
	// EffectFetchListing asks the driver to fetch the full collection.
	EffectFetchListing struct{ Gen uint64 }

	// EffectFetchClinic asks the driver to fetch one detail record.
	EffectFetchClinic struct {
		Gen uint64
		ID  int
	}

	// EffectClearSession asks the driver to log the session out.
	EffectClearSession struct{}
)

func (EffectFetchListing) isEffect() {}
func (EffectFetchClinic) isEffect()  {}
func (EffectClearSession) isEffect() {}

// Reduce computes the next state and the effects to perform. It is pure:
// no I/O, no clock, no globals.
func Reduce(s State, e Event) (State, []Effect) {
	switch event := e.(type) {
	case EventStart:
		s.Loading = true
		s.Gen++
		return s, []Effect{EffectFetchListing{Gen: s.Gen}}

	case EventClinicsLoaded:
		if event.Gen != s.Gen {
			return s, nil
		}
		s.Clinics = event.Clinics
		s.Loading = false
		s.Err = ""
		return s, nil

	case EventSelectClinic:
		if s.View != ViewListing {
			return s, nil
		}
		s.Loading = true
		s.Err = ""
		s.Gen++
		return s, []Effect{EffectFetchClinic{Gen: s.Gen, ID: event.ID}}

	case EventClinicLoaded:
		if event.Gen != s.Gen {
			return s, nil
		}
		s.View = ViewDetail
		s.ClinicID = event.Clinic.ID
		s.Clinic = event.Clinic
		s.Loading = false
		s.Err = ""
		return s, nil

	case EventLoadFailed:
		if event.Gen != s.Gen {
			return s, nil
		}
		// A failed detail fetch from the listing leaves the view where it
		// was: the transition never completes.
		s.Loading = false
		s.Err = event.Message
		return s, nil

	case EventBack:
		if s.View == ViewListing {
			return s, nil
		}
		s = leaveForListing(s)
		return s, []Effect{EffectFetchListing{Gen: s.Gen}}

	case EventReviewAdded:
		if s.View != ViewDetail || s.ClinicID != event.ClinicID {
			return s, nil
		}
		s.Loading = true
		s.Gen++
		return s, []Effect{EffectFetchClinic{Gen: s.Gen, ID: event.ClinicID}}

	case EventGoToAdmin:
		if s.View != ViewListing || !event.IsAdmin {
			return s, nil
		}
		s.View = ViewAdmin
		s.Err = ""
		return s, nil

	case EventLogout:
		s = leaveForListing(s)
		return s, []Effect{EffectClearSession{}, EffectFetchListing{Gen: s.Gen}}
	}

	return s, nil
}

func leaveForListing(s State) State {
	s.View = ViewListing
	s.ClinicID = 0
	s.Clinic = nil
	s.Loading = true
	s.Err = ""
	s.Gen++
	return s
}
