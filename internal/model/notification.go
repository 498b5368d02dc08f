package model

import "time"

// HostEvent identifies a session lifecycle notification from the identity host
type HostEvent string

const (
	HostEventSignedIn       HostEvent = "signed_in"
	HostEventSignedOut      HostEvent = "signed_out"
	HostEventTokenRefreshed HostEvent = "token_refreshed"
	HostEventInitialSession HostEvent = "initial_session"
)

// Valid reports whether the event is one the host is known to emit
func (e HostEvent) Valid() bool {
	switch e {
	case HostEventSignedIn, HostEventSignedOut, HostEventTokenRefreshed, HostEventInitialSession:
		return true
	}
	return false
}

// HostNotification is one event from the identity host
type HostNotification struct {
	Event          HostEvent `json:"event"`
	SessionPresent bool      `json:"session_present"`
	At             time.Time `json:"at"`
}
