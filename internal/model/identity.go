package model

import "time"

// PlayerID is the opaque external user id issued by the identity host.
// Every remote procedure is scoped to one.
type PlayerID string

// Identity describes the user the identity host vouches for
type Identity struct {
	ID        PlayerID `json:"id"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`
}

// DisplayName returns the handle if present, otherwise the full name
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return "@" + i.Username
	}
	name := i.FirstName
	if i.LastName != "" {
		if name != "" {
			name += " "
		}
		name += i.LastName
	}
	if name == "" {
		return string(i.ID)
	}
	return name
}

// HostSession is the custom credential the host remembers on our behalf.
// ProofFingerprint ties it to the proof material it was exchanged from.
type HostSession struct {
	Token            string    `json:"token"`
	Identity         Identity  `json:"identity"`
	EstablishedAt    time.Time `json:"established_at"`
	ProofFingerprint string    `json:"proof_fingerprint,omitempty"`
}
