package nowplaying

import (
	"regexp"
	"strings"
)

// The scrape path is structurally lossy (comma-split heuristics can truncate
// artist names) while the push path is author-supplied but may be missing or
// stale. Reconcile therefore trusts the pushed pair over the scraped pair
// only when the titles agree closely enough to believe both sources describe
// the same playout event.

var (
	punctRe = regexp.MustCompile(`[^a-z0-9 ]+`)
	parenRe = regexp.MustCompile(`\s*[([][^)\]]*[)\]]\s*`)
)

// fold lowercases, strips punctuation and collapses whitespace so that
// "Blinding Lights!" and "blinding lights" compare equal.
func fold(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// stripParenthetical drops "(feat ...)" / "[Radio Edit]" style suffixes.
func stripParenthetical(s string) string {
	return strings.TrimSpace(parenRe.ReplaceAllString(s, " "))
}

// TitlesClose reports whether two titles match case/punctuation-insensitively,
// either verbatim or once parenthetical suffixes are stripped from both.
func TitlesClose(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if fold(a) == fold(b) {
		return true
	}
	return fold(stripParenthetical(a)) == fold(stripParenthetical(b))
}

// ArtistBroken reports whether the scraped artist shows symptoms of
// truncation during scraping: empty, a single word, or a strict substring of
// the pushed artist with the pushed artist longer by more than 2 characters.
func ArtistBroken(scraped, pushed string) bool {
	s := strings.TrimSpace(scraped)
	if s == "" {
		return true
	}
	if len(strings.Fields(s)) == 1 {
		return true
	}
	fs, fp := fold(s), fold(pushed)
	if fp != "" && fs != fp && strings.Contains(fp, fs) && len(fp) > len(fs)+2 {
		return true
	}
	return false
}

// Reconcile picks the identity to trust between a scraped and a pushed
// candidate and tags the winning source. Both inputs are assumed to be
// normalized already; either may be partially or fully empty.
func Reconcile(scraped, pushed TrackIdentity) (TrackIdentity, Source) {
	if pushed.Valid() && TitlesClose(scraped.Title, pushed.Title) {
		if ArtistBroken(scraped.Artist, pushed.Artist) || fold(scraped.Artist) != fold(pushed.Artist) {
			return pushed, SourcePushed
		}
	}

	if scraped.Artist != "" || scraped.Title != "" {
		return scraped, SourceScraped
	}
	if pushed.Artist != "" || pushed.Title != "" {
		return pushed, SourcePushed
	}
	return TrackIdentity{}, SourceUnknown
}
