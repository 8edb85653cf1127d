package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ListingSource fetches the raw upstream payload for a location.
type ListingSource interface {
	FetchListings(ctx context.Context, key LocationKey) (json.RawMessage, error)
}

// ResultCache is the in-process location -> records cache.
type ResultCache interface {
	Get(key string) ([]HotelRecord, bool)
	Set(key string, records []HotelRecord)
	// SetAt stores records as if they were fetched at storedAt.
	SetAt(key string, records []HotelRecord, storedAt time.Time)
}

// Cache is the shared JSON cache tier.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SnapshotRepository interface {
	UpsertSnapshot(ctx context.Context, s Snapshot) error
	GetSnapshot(ctx context.Context, location string) (Snapshot, error)
	LogMiss(ctx context.Context, location string, reason string) error
}

// Snapshot is the last successful warm of a location.
type Snapshot struct {
	Location  string
	Records   int
	Payload   []byte // normalised records as JSON
	FetchedAt time.Time
}
