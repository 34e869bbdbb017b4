package store

import (
	"context"
	"errors"
	"time"
)

// The push path owns exactly one key: the latest author-submitted record.
// It is a last-writer-wins slot with a TTL; expiry is itself a signal,
// meaning "the playout system went quiet, fall back to the scraped source".

// ErrNotFound is returned when the latest record is absent or expired.
var ErrNotFound = errors.New("latest record not found")

// Latest is the pushed ingest record held under the single "latest" key.
type Latest struct {
	Artist        string  `json:"artist"`
	Title         string  `json:"title"`
	NowPlaying    string  `json:"nowPlaying"`
	Duration      *int    `json:"duration"`
	StartTime     string  `json:"startTime"`
	EndTime       *string `json:"endTime"`
	ReceivedAt    string  `json:"ts"`
	Source        string  `json:"source"`
	SchemaVersion int     `json:"v"`
}

// LatestStore is the key-value slot holding the latest pushed record.
// Concurrent ingests simply overwrite; staleness is bounded by the TTL, so
// no compare-and-swap is required.
type LatestStore interface {
	Get(ctx context.Context) (Latest, error)
	Set(ctx context.Context, rec Latest, ttl time.Duration) error
	Close() error
}
