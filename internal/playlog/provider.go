package playlog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Provider is the persisted home of the rolling log sequence. The log is a
// read-modify-write over external state; providers make each side a single
// round trip so the race window under concurrent writers stays small, but
// no provider promises atomicity (see the dedup tolerance note above).
type Provider interface {
	Load(ctx context.Context) ([]Entry, error)
	Store(ctx context.Context, entries []Entry) error
}

// Log wires the pure Append policy onto a Provider. The mutex serializes
// writers within this process only; concurrent processes race, by design.
type Log struct {
	provider Provider
	mu       sync.Mutex
}

func NewLog(provider Provider) *Log {
	return &Log{provider: provider}
}

// Append reads the persisted sequence, applies dedup/trim, and writes it
// back if anything changed.
func (l *Log) Append(ctx context.Context, candidate Entry, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.provider.Load(ctx)
	if err != nil {
		return err
	}
	updated, appended := Append(entries, candidate, now)
	if !appended {
		return nil
	}
	return l.provider.Store(ctx, updated)
}

// Recent returns up to limit entries, newest first, merged by minute bucket
// so that near-simultaneous duplicate writes collapse to one row.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := l.provider.Load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxEntries {
		limit = MaxEntries
	}

	type bucketKey struct {
		artist, title string
		minute        int64
	}
	seen := make(map[bucketKey]Entry)
	for _, e := range entries {
		k := bucketKey{
			artist: strings.ToLower(e.Artist),
			title:  strings.ToLower(e.Title),
			minute: e.ScheduledTime.Unix() / 60,
		}
		if prev, ok := seen[k]; !ok || e.ScheduledTime.After(prev.ScheduledTime) {
			seen[k] = e
		}
	}

	merged := make([]Entry, 0, len(seen))
	for _, e := range seen {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ScheduledTime.After(merged[j].ScheduledTime)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
