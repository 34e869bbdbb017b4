package playlog

import (
	"strings"
	"time"
)

// The rolling log is the station's advisory "recently played" history: a
// bounded FIFO with a soft dedup window. It is display-only, so an
// occasional duplicate slipping in under true concurrent writes is
// tolerated rather than locked against.

const (
	// MaxEntries bounds the retained history; the oldest entries drop first.
	MaxEntries = 100
	// DedupWindow suppresses repeats of the same track within this span of
	// wall-clock time at append.
	DedupWindow = 5 * time.Minute
)

// Entry is one play event. Entries are never updated or removed except by
// the bounding trim. The gorm tags serve the optional DB provider; the JSON
// shape is the persisted blob layout, newest last.
type Entry struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	Artist          string    `json:"artist"`
	Title           string    `json:"title"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	DurationSeconds *int      `json:"durationSeconds"`
	Source          string    `json:"source,omitempty"`
}

// Append applies the dedup and bounding policy to an in-memory copy of the
// log. Pure: the caller owns reading and writing the persisted sequence.
// Returns the (possibly unchanged) slice and whether the candidate was
// appended.
func Append(entries []Entry, candidate Entry, now time.Time) ([]Entry, bool) {
	cutoff := now.Add(-DedupWindow)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.ScheduledTime.Before(cutoff) {
			// Entries are insertion-ordered; everything earlier is older.
			break
		}
		if strings.EqualFold(e.Artist, candidate.Artist) && strings.EqualFold(e.Title, candidate.Title) {
			return entries, false
		}
	}

	candidate.ScheduledTime = now
	entries = append(entries, candidate)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	return entries, true
}
