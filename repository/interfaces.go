package repository

import (
	"context"
	"time"

	"roadwatch/models"
)

// KeyValueI defines the persistent key-value storage the session store
// relies on. SetMany writes all pairs as a single atomic unit.
type KeyValueI interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, pairs map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

// ReportCacheI defines the local snapshot of the last fetched report list.
// ReplaceAll swaps the whole snapshot; order of the stored list is the
// order the server returned.
type ReportCacheI interface {
	ReplaceAll(ctx context.Context, reports []models.Report, refreshedAt time.Time) error
	List(ctx context.Context) ([]models.Report, time.Time, error)
}
