package nowplaying

import "testing"

func TestTitlesClose(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "Blinding Lights", "Blinding Lights", true},
		{"case and punctuation", "blinding lights!", "Blinding Lights", true},
		{"parenthetical stripped", "Blinding Lights (Radio Edit)", "Blinding Lights", true},
		{"bracketed suffix stripped", "One More Time [Remix]", "One More Time", true},
		{"different titles", "Blinding Lights", "Save Your Tears", false},
		{"empty side never close", "", "Blinding Lights", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitlesClose(tt.a, tt.b); got != tt.want {
				t.Errorf("TitlesClose(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestArtistBroken(t *testing.T) {
	tests := []struct {
		name            string
		scraped, pushed string
		want            bool
	}{
		{"empty scraped", "", "The Weeknd", true},
		{"single word", "Weeknd", "The Weeknd", true},
		{"truncated substring", "The Weeknd feat", "The Weeknd feat. Daft Punk", true},
		{"full match not broken", "The Weeknd", "The Weeknd", false},
		{"two words distinct", "Daft Punk", "The Weeknd", false},
		{"substring but close in length", "Daft Pun", "Daft Punk", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArtistBroken(tt.scraped, tt.pushed); got != tt.want {
				t.Errorf("ArtistBroken(%q, %q) = %v, want %v", tt.scraped, tt.pushed, got, tt.want)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		scraped    TrackIdentity
		pushed     TrackIdentity
		want       TrackIdentity
		wantSource Source
	}{
		{
			name:       "broken scraped artist with close title prefers pushed",
			scraped:    TrackIdentity{Artist: "Weeknd", Title: "Blinding Lights"},
			pushed:     TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			want:       TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			wantSource: SourcePushed,
		},
		{
			name:       "empty pushed leaves scraped untouched",
			scraped:    TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			pushed:     TrackIdentity{},
			want:       TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			wantSource: SourceScraped,
		},
		{
			name:       "titles disagree keeps scraped",
			scraped:    TrackIdentity{Artist: "The Weeknd", Title: "Save Your Tears"},
			pushed:     TrackIdentity{Artist: "Dua Lipa", Title: "Levitating"},
			want:       TrackIdentity{Artist: "The Weeknd", Title: "Save Your Tears"},
			wantSource: SourceScraped,
		},
		{
			name:       "matching artists and titles stay scraped",
			scraped:    TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			pushed:     TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			want:       TrackIdentity{Artist: "The Weeknd", Title: "Blinding Lights"},
			wantSource: SourceScraped,
		},
		{
			name:       "scraped missing falls through to pushed",
			scraped:    TrackIdentity{},
			pushed:     TrackIdentity{Artist: "Sleep Token", Title: "Damocles"},
			want:       TrackIdentity{Artist: "Sleep Token", Title: "Damocles"},
			wantSource: SourcePushed,
		},
		{
			name:       "both empty is unknown",
			scraped:    TrackIdentity{},
			pushed:     TrackIdentity{},
			want:       TrackIdentity{},
			wantSource: SourceUnknown,
		},
		{
			name:       "scraped title only still counts as present",
			scraped:    TrackIdentity{Title: "station ident"},
			pushed:     TrackIdentity{},
			want:       TrackIdentity{Title: "station ident"},
			wantSource: SourceScraped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := Reconcile(tt.scraped, tt.pushed)
			if got != tt.want {
				t.Errorf("identity = %+v, want %+v", got, tt.want)
			}
			if src != tt.wantSource {
				t.Errorf("source = %q, want %q", src, tt.wantSource)
			}
		})
	}
}
