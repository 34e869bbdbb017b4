package nowplaying

import "time"

// Build assembles the canonical record from a resolved identity and window.
// rawCombined is whatever combined display text was available before
// splitting; it backstops the nowPlaying field so clients never see a
// synthesized "undefined - undefined".
func Build(id TrackIdentity, w Window, src Source, rawCombined string) Record {
	display := id.Display()
	if display == "" {
		display = rawCombined
	}

	rec := Record{
		Artist:        id.Artist,
		Title:         id.Title,
		NowPlaying:    display,
		Duration:      w.Duration,
		Source:        src,
		SchemaVersion: SchemaVersion,
		Indeterminate: w.Indeterminate,
	}
	if w.StartTime != nil {
		s := w.StartTime.UTC().Format(time.RFC3339)
		rec.StartTime = &s
	}
	if w.EndTime != nil {
		e := w.EndTime.UTC().Format(time.RFC3339)
		rec.EndTime = &e
	}
	return rec
}

// Idle is the record served when no source produced a usable identity.
func Idle() Record {
	return Record{
		Source:        SourceUnknown,
		SchemaVersion: SchemaVersion,
		Indeterminate: true,
	}
}

// Degraded is the record served when a reconciliation pass failed outright.
// The read path still answers 200 with this shape so polling clients only
// ever branch on payload content.
func Degraded() Record {
	return Record{
		Source:        SourceError,
		SchemaVersion: SchemaVersion,
		Indeterminate: true,
	}
}
