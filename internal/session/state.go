package session

import "github.com/mcoot/mobboss/internal/model"

// State is the lifecycle state of the player's session
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	// StateValid is an established session with a fresh profile
	StateValid
	// StateStale is an established session whose credential is being replaced
	StateStale
	// StateError is terminal for the process: the client was not opened from the host
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateValid:
		return "authenticated"
	case StateStale:
		return "authenticated_stale"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Authenticated reports whether the state holds an established session
func (s State) Authenticated() bool {
	return s == StateValid || s == StateStale
}

// Command is a side effect requested by a state transition
type Command int

const (
	CommandRefetch Command = iota + 1
	CommandReauthenticate
	CommandClearProfile
	CommandStopRenewal
)

func (c Command) String() string {
	switch c {
	case CommandRefetch:
		return "refetch"
	case CommandReauthenticate:
		return "reauthenticate"
	case CommandClearProfile:
		return "clear_profile"
	case CommandStopRenewal:
		return "stop_renewal"
	default:
		return "unknown"
	}
}

// Transition computes the next state and the side effects for a host notification.
// It is pure: everything it needs is in its arguments.
//
// The host cannot refresh our credential, so signed_out means the host lost track of
// the session rather than the player leaving. With proof at hand the session goes stale
// and is re-established behind the player's back; without it the profile is dropped.
// signed_in and token_refreshed only mark the session valid when the host reports a
// session or a profile is already held.
func Transition(current State, n model.HostNotification, proofAvailable, hasProfile bool) (State, []Command) {
	if current == StateError {
		return current, nil
	}

	switch n.Event {
	case model.HostEventSignedIn, model.HostEventTokenRefreshed:
		if !n.SessionPresent && !hasProfile {
			return current, nil
		}
		return StateValid, []Command{CommandRefetch}

	case model.HostEventInitialSession:
		if !n.SessionPresent {
			return current, nil
		}
		return StateValid, []Command{CommandRefetch}

	case model.HostEventSignedOut:
		if proofAvailable {
			return StateStale, []Command{CommandReauthenticate}
		}
		return StateUnauthenticated, []Command{CommandClearProfile, CommandStopRenewal}

	default:
		return current, nil
	}
}

// ProfileState is what a consumer can observe about the player at one moment.
// It is one of NoSession, Authenticating or Active.
type ProfileState interface {
	isProfileState()
}

// NoSession means there is no player profile
type NoSession struct {
	// Err is the reason the session ended, if any
	Err error
}

// Authenticating means a first authentication is in flight
type Authenticating struct{}

// Active carries the current profile. Stale is set while the credential is being replaced.
type Active struct {
	Profile model.PlayerProfile
	Stale   bool
}

func (NoSession) isProfileState()      {}
func (Authenticating) isProfileState() {}
func (Active) isProfileState()         {}
