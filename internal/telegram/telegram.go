// Package telegram defines the contract with the external messaging client
// and provides the production implementation backed by the Bot API.
//
// The rest of the application only sees the Client interface. The adapter
// layer owns connection discipline; implementations here only have to make
// individual calls and distinguish "confirmed absent" from everything else.
package telegram

import (
	"context"
	"errors"

	"github.com/nkka404/tginfo/internal/model"
)

// ErrNotFound is returned by lookup methods when the platform confirms the
// identifier resolves to nothing of the requested kind. Any other error is
// treated as transient by the caller.
var ErrNotFound = errors.New("telegram: entity not found")

// Client is the capability contract the platform collaborator must provide.
// Lookup methods return ErrNotFound for confirmed-absent entities; all
// other errors are connection or protocol failures.
type Client interface {
	// Connect establishes the session. Calling it on a live session is a
	// cheap no-op.
	Connect(ctx context.Context) error
	// IsConnected reports whether the session is believed to be live.
	IsConnected() bool

	AccountByHandle(ctx context.Context, handle string) (*model.Account, error)
	AccountByID(ctx context.Context, id int64) (*model.Account, error)
	GroupByHandle(ctx context.Context, handle string) (*model.Group, error)
	GroupByID(ctx context.Context, id int64) (*model.Group, error)

	Close() error
}

// Factory creates a fresh client session. The adapter calls it lazily on
// first use and again whenever a session is discarded as unusable.
type Factory func() (Client, error)
