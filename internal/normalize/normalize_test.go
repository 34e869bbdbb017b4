package normalize

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "entities",
			in:   "Simon &amp; Garfunkel &#039;Live&#039; &quot;69&quot;",
			want: `Simon & Garfunkel 'Live' "69"`,
		},
		{
			name: "numeric apostrophe variant",
			in:   "Guns N&#39; Roses",
			want: "Guns N' Roses",
		},
		{
			name: "nbsp and whitespace runs",
			in:   "The&nbsp;Weeknd   \t Blinding\n\nLights",
			want: "The Weeknd Blinding Lights",
		},
		{
			name: "zero width and BOM stripped",
			in:   "\uFEFFDa​ft Pu‌nk‍",
			want: "Daft Punk",
		},
		{
			name: "em dash canonicalized",
			in:   "Artist—Title",
			want: "Artist – Title",
		},
		{
			name: "en dash with ragged spacing",
			in:   "Artist   –Title",
			want: "Artist – Title",
		},
		{
			name: "hyphen needs surrounding whitespace",
			in:   "T-Rex - Get It On",
			want: "T-Rex – Get It On",
		},
		{
			name: "leading and trailing space trimmed",
			in:   "   Oasis – Wonderwall   ",
			want: "Oasis – Wonderwall",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Simon &amp; Garfunkel",
		"The&nbsp;Weeknd — Blinding   Lights",
		"\uFEFF  A – B  ",
		"plain text",
		"T-Rex - Get It On",
		"a , b , c , 123",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
