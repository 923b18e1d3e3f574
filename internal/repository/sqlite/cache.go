package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nkka404/tginfo/internal/model"
	"github.com/nkka404/tginfo/internal/repository"
)

// Compile-time check that *DB satisfies the cache interface.
var _ repository.LookupCache = (*DB)(nil)

// Get returns the cached resolution for key. Expired rows count as misses;
// they are left for PurgeExpired rather than deleted inline.
func (db *DB) Get(ctx context.Context, key string) (*model.Resolution, error) {
	var payload string
	err := db.conn.QueryRowContext(ctx,
		`SELECT resolution FROM lookup_cache WHERE key = ? AND expires_at > ?`,
		key, time.Now().Unix(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading cache entry: %w", err)
	}

	var res model.Resolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("sqlite: decoding cache entry: %w", err)
	}
	return &res, nil
}

// Put stores res under key with the given lifetime, replacing any previous
// entry for the same key.
func (db *DB) Put(ctx context.Context, key string, res *model.Resolution, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("sqlite: encoding cache entry: %w", err)
	}

	now := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO lookup_cache (key, resolution, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			resolution = excluded.resolution,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		key, string(payload), now.Unix(), now.Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing cache entry: %w", err)
	}
	return nil
}

// PurgeExpired removes rows whose lifetime has passed.
func (db *DB) PurgeExpired(ctx context.Context) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM lookup_cache WHERE expires_at <= ?`, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: purging cache: %w", err)
	}
	return result.RowsAffected()
}
