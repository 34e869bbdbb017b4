package trackline

import (
	"testing"

	"aircheck/internal/nowplaying"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want nowplaying.TrackIdentity
	}{
		{
			name: "empty input",
			raw:  "",
			want: nowplaying.TrackIdentity{},
		},
		{
			name: "tags only",
			raw:  "<html><body></body></html>",
			want: nowplaying.TrackIdentity{},
		},
		{
			name: "plain dash pair",
			raw:  "The Weeknd - Blinding Lights",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "shoutcast status prefix",
			raw:  "<html>1,1,234,500,128,The Weeknd - Blinding Lights</html>",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "glued artist fragments",
			raw:  "Essential, Radio, The Weeknd - Blinding Lights",
			want: nowplaying.TrackIdentity{Artist: "Essential, Radio, The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "numeric cell breaks the glue chain",
			raw:  "Essential, 320, The Weeknd - Blinding Lights",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "numeric run inside a cell breaks the glue chain",
			raw:  "Radio, 20240101T0900, The Weeknd - Blinding Lights",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "by pattern inverts sides",
			raw:  "Blinding Lights by The Weeknd",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "colon pair",
			raw:  "The Weeknd: Blinding Lights",
			want: nowplaying.TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
		},
		{
			name: "single comma short name",
			raw:  "Adele, Someone Like You",
			want: nowplaying.TrackIdentity{Artist: "Adele", Title: "Someone Like You"},
		},
		{
			name: "em dash separator",
			raw:  "Daft Punk — One More Time",
			want: nowplaying.TrackIdentity{Artist: "Daft Punk", Title: "One More Time"},
		},
		{
			name: "entities decoded in both sides",
			raw:  "Simon &amp; Garfunkel - The Sound of Silence",
			want: nowplaying.TrackIdentity{Artist: "Simon & Garfunkel", Title: "The Sound of Silence"},
		},
		{
			name: "no structure falls back to title only",
			raw:  "station ident jingle",
			want: nowplaying.TrackIdentity{Title: "station ident jingle"},
		},
		{
			name: "pure numbers keep a well formed identity",
			raw:  "1,2,3,456",
			want: nowplaying.TrackIdentity{Title: "1,2,3,456"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.Artist != tt.want.Artist {
				t.Errorf("artist = %q, want %q", got.Artist, tt.want.Artist)
			}
			if got.Title != tt.want.Title {
				t.Errorf("title = %q, want %q", got.Title, tt.want.Title)
			}
		})
	}
}

// Parse must be total: whatever garbage the status page serves, the result
// is a well-formed identity and never a panic.
func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", ",", ",,,,", "---", " - ", "by", ":", "<>",
		"<b>,</b>", "999 - 888", "a,b,c,d,e,f,g,h,i,j - k",
	}
	for _, in := range inputs {
		got := Parse(in)
		_ = got.Display()
	}
}
