package playlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestDBProviderRoundTrip(t *testing.T) {
	provider, err := NewDBProvider(filepath.Join(t.TempDir(), "playlog.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()

	entries, err := provider.Load(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("initial load: %v, %d entries", err, len(entries))
	}

	dur := 200
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	stored := []Entry{
		{Artist: "A", Title: "One", ScheduledTime: base, DurationSeconds: &dur, Source: "scraped"},
		{Artist: "B", Title: "Two", ScheduledTime: base.Add(4 * time.Minute)},
	}
	if err := provider.Store(ctx, stored); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := provider.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Artist != "A" || got[1].Artist != "B" {
		t.Errorf("order = %q, %q", got[0].Artist, got[1].Artist)
	}
	if got[0].DurationSeconds == nil || *got[0].DurationSeconds != 200 {
		t.Errorf("duration = %v", got[0].DurationSeconds)
	}

	// Store replaces the table wholesale, including trims.
	if err := provider.Store(ctx, got[1:]); err != nil {
		t.Fatalf("trim store: %v", err)
	}
	got, err = provider.Load(ctx)
	if err != nil {
		t.Fatalf("load after trim: %v", err)
	}
	if len(got) != 1 || got[0].Artist != "B" {
		t.Errorf("after trim = %+v", got)
	}
}
