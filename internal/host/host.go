// Package host is the boundary to the identity host: the embedding shell that
// vouches for the user, hands over proof material, and reports session lifecycle
// notifications. The host cannot refresh our custom credential on its own; it only
// remembers whatever session we install.
package host

import (
	"context"

	"github.com/mcoot/mobboss/internal/model"
)

// Host is what the session manager needs from the identity host
type Host interface {
	// ProofMaterial returns the current opaque init payload, or "" if none was supplied
	ProofMaterial() string

	// CurrentSession returns the session the host remembers, or nil if there is none
	CurrentSession(ctx context.Context) (*model.HostSession, error)
	// InstallSession makes the host remember a freshly issued session
	InstallSession(ctx context.Context, session *model.HostSession) error
	// ClearSession makes the host forget its session
	ClearSession(ctx context.Context) error

	// CurrentUser returns the user of the host's current session
	CurrentUser(ctx context.Context) (*model.Identity, error)

	// Notifications streams session lifecycle events
	Notifications() <-chan model.HostNotification
}
