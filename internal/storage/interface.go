package storage

import (
	"context"

	"github.com/mcoot/mobboss/internal/model"
)

// Storage persists the little client state that must outlive the process:
// the host session and the last identity the player was recognized as.
type Storage interface {
	// Host session operations
	SaveSession(ctx context.Context, session *model.HostSession) error
	GetSession(ctx context.Context) (*model.HostSession, error)
	DeleteSession(ctx context.Context) error

	// Last known identity operations
	SaveLastIdentity(ctx context.Context, identity model.Identity) error
	GetLastIdentity(ctx context.Context) (*model.Identity, error)
	DeleteLastIdentity(ctx context.Context) error
}
