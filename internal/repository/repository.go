// Package repository defines the storage interfaces consumed by the service
// layer. Implementations live in subpackages (sqlite); tests use in-memory
// fakes.
package repository

import (
	"context"
	"time"

	"github.com/nkka404/tginfo/internal/model"
)

// LookupCache stores successful resolutions keyed by canonical identifier
// so repeated lookups skip the external client while fresh.
type LookupCache interface {
	// Get returns the cached resolution for key, or (nil, nil) when the key
	// is absent or expired.
	Get(ctx context.Context, key string) (*model.Resolution, error)
	// Put stores a resolution under key for the given lifetime, replacing
	// any previous entry.
	Put(ctx context.Context, key string, res *model.Resolution, ttl time.Duration) error
	// PurgeExpired deletes expired rows and reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
