package nowplaying

// Source tags where a track identity came from. The reconciler trusts
// sources unequally, so every record carries its provenance.
type Source string

const (
	SourceScraped        Source = "scraped"
	SourcePushed         Source = "pushed"
	SourceCachedFallback Source = "cachedFallback"
	SourceUnknown        Source = "unknown"
	SourceError          Source = "error"
)

// SchemaVersion is bumped whenever the outward record shape changes.
const SchemaVersion = 2

// TrackIdentity is a trimmed, entity-decoded, dash-normalized artist/title
// pair. Either field may be empty; Valid reports whether both are present.
type TrackIdentity struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

func (id TrackIdentity) Valid() bool {
	return id.Artist != "" && id.Title != ""
}

// Display renders the combined "Artist - Title" string, degrading to
// whichever half is present.
func (id TrackIdentity) Display() string {
	if id.Artist != "" && id.Title != "" {
		return id.Artist + " - " + id.Title
	}
	if id.Title != "" {
		return id.Title
	}
	return id.Artist
}

// Record is the canonical now-playing payload served to clients. It is
// rebuilt from scratch on every reconciliation pass, never mutated.
type Record struct {
	Artist        string  `json:"artist"`
	Title         string  `json:"title"`
	NowPlaying    string  `json:"nowPlaying"`
	Duration      *int    `json:"duration"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Source        Source  `json:"source"`
	SchemaVersion int     `json:"schemaVersion"`
	Indeterminate bool    `json:"indeterminate"`
}
