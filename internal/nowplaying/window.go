package nowplaying

import (
	"context"
	"math"
	"time"
)

// DurationLookup resolves a track length in whole seconds from an external
// catalog. Implementations must treat "no result" as an error.
type DurationLookup interface {
	TrackDuration(ctx context.Context, term string) (int, error)
}

// Defaults carries the placeholder durations applied when no explicit or
// catalog duration could be resolved. Fallback is deliberately long: an
// active cachedFallback source signals the station is running unattended, so
// the window is a coarse placeholder rather than a real track length.
type Defaults struct {
	Standard time.Duration
	Fallback time.Duration
}

// Window is the derived playback timing for one record.
type Window struct {
	Duration      *int
	StartTime     *time.Time
	EndTime       *time.Time
	Indeterminate bool
}

var startLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ResolveWindow derives duration and the start/end timestamps for the
// resolved identity. Preference order for duration: explicit positive value
// (floored to whole seconds), one catalog lookup, source-dependent default.
// The end time is always recomputed from start+duration, never carried over.
func ResolveWindow(ctx context.Context, id TrackIdentity, explicitDuration *float64, explicitStart string, src Source, lookup DurationLookup, defaults Defaults, now time.Time) Window {
	var duration *int

	if explicitDuration != nil && *explicitDuration > 0 && !math.IsInf(*explicitDuration, 0) && !math.IsNaN(*explicitDuration) {
		d := int(math.Floor(*explicitDuration))
		duration = &d
	}

	// One catalog round trip, and only once identity is resolved: the query
	// term depends on it.
	if duration == nil && id.Valid() && lookup != nil {
		if secs, err := lookup.TrackDuration(ctx, id.Title+" "+id.Artist); err == nil && secs > 0 {
			duration = &secs
		}
	}

	if duration == nil {
		d := int(defaults.Standard.Seconds())
		if src == SourceCachedFallback {
			d = int(defaults.Fallback.Seconds())
		}
		duration = &d
	}

	start := now.UTC()
	if explicitStart != "" {
		for _, layout := range startLayouts {
			if t, err := time.Parse(layout, explicitStart); err == nil {
				start = t.UTC()
				break
			}
		}
	}
	end := start.Add(time.Duration(*duration) * time.Second)

	indeterminate := !id.Valid() || src == SourceCachedFallback || src == SourceUnknown || src == SourceError

	return Window{
		Duration:      duration,
		StartTime:     &start,
		EndTime:       &end,
		Indeterminate: indeterminate,
	}
}
