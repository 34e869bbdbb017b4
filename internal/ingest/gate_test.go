package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"aircheck/internal/store"
)

const testToken = "super-secret"

func newTestGate(st store.LatestStore) *Gate {
	return NewGate(testToken, st, 900*time.Second, 0)
}

func float(v float64) *float64 { return &v }

func TestIngestAuth(t *testing.T) {
	gate := newTestGate(store.NewMemory())
	payload := Payload{Artist: "Sleep Token", Title: "Damocles"}

	for _, token := range []string{"", "wrong", "super-secret "} {
		if _, err := gate.Ingest(context.Background(), payload, token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("token %q: err = %v, want ErrUnauthorized", token, err)
		}
	}

	// An unconfigured server token rejects everything, including empty-for-empty.
	open := NewGate("", store.NewMemory(), 900*time.Second, 0)
	if _, err := open.Ingest(context.Background(), payload, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("empty configured token: err = %v, want ErrUnauthorized", err)
	}
}

func TestIngestValidation(t *testing.T) {
	gate := newTestGate(store.NewMemory())

	tests := []struct {
		name    string
		payload Payload
	}{
		{"missing title", Payload{Artist: "Sleep Token"}},
		{"missing artist", Payload{Title: "Damocles"}},
		{"whitespace only", Payload{Artist: "   ", Title: "​"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gate.Ingest(context.Background(), tt.payload, testToken); !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("err = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestIngestStoresRecord(t *testing.T) {
	st := store.NewMemory()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := newTestGate(st).WithClock(func() time.Time { return fixed })

	res, err := gate.Ingest(context.Background(), Payload{
		Artist:    "Sleep Token",
		Title:     "Damocles",
		Duration:  float(240.4),
		StartTime: "2025-06-01T12:00:00Z",
	}, testToken)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Skipped != "" {
		t.Errorf("skipped = %q, want stored", res.Skipped)
	}

	saved, err := st.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if saved.Artist != "Sleep Token" || saved.Title != "Damocles" {
		t.Errorf("identity = %q / %q", saved.Artist, saved.Title)
	}
	if saved.NowPlaying != "Sleep Token - Damocles" {
		t.Errorf("nowPlaying = %q", saved.NowPlaying)
	}
	if saved.Duration == nil || *saved.Duration != 240 {
		t.Errorf("duration = %v, want 240", saved.Duration)
	}
	if saved.EndTime == nil || *saved.EndTime != "2025-06-01T12:04:00Z" {
		t.Errorf("endTime = %v, want 12:04:00Z", saved.EndTime)
	}
	if saved.SchemaVersion != 2 || saved.Source != "pushed" {
		t.Errorf("v = %d source = %q", saved.SchemaVersion, saved.Source)
	}
}

func TestIngestAlternateFieldNames(t *testing.T) {
	st := store.NewMemory()
	gate := newTestGate(st)

	_, err := gate.Ingest(context.Background(), Payload{
		AltArtist:   "The Weeknd",
		AltTitle:    "Blinding Lights",
		AltDuration: float(200),
		AltStart:    "2025-06-01T12:00:00Z",
	}, testToken)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	saved, _ := st.Get(context.Background())
	if saved.Artist != "The Weeknd" || saved.Title != "Blinding Lights" {
		t.Errorf("identity = %q / %q", saved.Artist, saved.Title)
	}
	if saved.Duration == nil || *saved.Duration != 200 {
		t.Errorf("duration = %v", saved.Duration)
	}
	if saved.StartTime != "2025-06-01T12:00:00Z" {
		t.Errorf("startTime = %q", saved.StartTime)
	}
}

func TestIngestBadDurationDropped(t *testing.T) {
	st := store.NewMemory()
	gate := newTestGate(st)

	for _, d := range []*float64{float(-5), nil} {
		res, err := gate.Ingest(context.Background(), Payload{
			Artist: "A", Title: "B", Duration: d,
		}, testToken)
		if err != nil {
			t.Fatalf("duration %v: %v", d, err)
		}
		if res.Saved.Duration != nil {
			t.Errorf("duration %v: saved duration = %v, want dropped", d, *res.Saved.Duration)
		}
	}
}

func TestIngestDuplicatePatches(t *testing.T) {
	st := store.NewMemory()
	gate := newTestGate(st)
	ctx := context.Background()

	first, err := gate.Ingest(ctx, Payload{
		Artist: "A", Title: "B", StartTime: "2025-06-01T12:00:00Z",
	}, testToken)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Skipped != "" {
		t.Fatalf("first skipped = %q", first.Skipped)
	}

	// Same track again, now carrying a duration: the live record keeps its
	// identity and gains the new timing.
	second, err := gate.Ingest(ctx, Payload{
		Artist: "a", Title: "b", Duration: float(180),
	}, testToken)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Skipped != "duplicate" {
		t.Errorf("skipped = %q, want duplicate", second.Skipped)
	}

	saved, _ := st.Get(ctx)
	if saved.Artist != "A" || saved.Title != "B" {
		t.Errorf("identity reset to %q / %q", saved.Artist, saved.Title)
	}
	if saved.Duration == nil || *saved.Duration != 180 {
		t.Errorf("duration = %v, want patched 180", saved.Duration)
	}
}

func TestIngestRateLimited(t *testing.T) {
	st := store.NewMemory()
	gate := NewGate(testToken, st, 900*time.Second, 750*time.Millisecond)
	ctx := context.Background()

	if _, err := gate.Ingest(ctx, Payload{Artist: "A", Title: "B"}, testToken); err != nil {
		t.Fatalf("first: %v", err)
	}
	res, err := gate.Ingest(ctx, Payload{Artist: "C", Title: "D"}, testToken)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if res.Skipped != "rate" {
		t.Errorf("skipped = %q, want rate", res.Skipped)
	}

	// The over-limit write was acknowledged but must not have replaced the
	// stored record.
	saved, _ := st.Get(ctx)
	if saved.Artist != "A" {
		t.Errorf("stored artist = %q, want A", saved.Artist)
	}
}

func TestIngestTTLExpiry(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	st := store.NewMemoryWithClock(now)
	gate := newTestGate(st).WithClock(now)
	ctx := context.Background()

	if _, err := gate.Ingest(ctx, Payload{Artist: "A", Title: "B"}, testToken); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := st.Get(ctx); err != nil {
		t.Fatalf("live get: %v", err)
	}

	clock = clock.Add(901 * time.Second)
	if _, err := st.Get(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired get: err = %v, want ErrNotFound", err)
	}
}
