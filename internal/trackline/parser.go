package trackline

import (
	"regexp"
	"strconv"
	"strings"

	"aircheck/internal/normalize"
	"aircheck/internal/nowplaying"
)

// Scraped status lines arrive as comma-separated fields with an embedded
// "Artist - Title" fragment somewhere near the end, e.g.
//
//	1,1,234,500,128,Essential, Radio, The Weeknd - Blinding Lights
//
// The upstream encoder splits on commas before escaping them, so artist
// names containing commas leak into earlier cells. Parse reconstructs the
// most plausible identity and never fails: worst case the whole stripped
// line becomes the title.

const maxGlueCells = 8

var (
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	dashSplit  = regexp.MustCompile(`^(.*?)\s+[-\x{2013}\x{2014}]\s+(.*)$`)
	bySplit    = regexp.MustCompile(`(?i)^(.*?)\s+by\s+(.*)$`)
	colonSplit = regexp.MustCompile(`^(.*?)\s*:\s*(.*)$`)
	dashSep    = regexp.MustCompile(`\s+[-\x{2013}\x{2014}]\s+`)
	bigDigits  = regexp.MustCompile(`\d{3,}`)
	fragmentRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 '&.-]*$`)
)

// Parse extracts a TrackIdentity from a raw scraped status line.
func Parse(raw string) nowplaying.TrackIdentity {
	text := tagRe.ReplaceAllString(raw, "")
	if strings.TrimSpace(text) == "" {
		return nowplaying.TrackIdentity{}
	}

	cells := strings.Split(text, ",")

	// 1. Right-most contiguous tail that looks like a track.
	startIdx := -1
	joined := ""
	for i := len(cells) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(strings.Join(cells[i:], ","))
		if looksLikeTrack(candidate) {
			startIdx = i
			joined = candidate
			break
		}
	}

	// 2. No separator anywhere: a line with exactly one comma may itself be
	// an "Artist, Title" pair; hand the whole line to the disambiguator
	// before the cell-tail fallback can strip the artist off.
	if startIdx == -1 && strings.Count(text, ",") == 1 {
		startIdx = 0
		joined = strings.TrimSpace(text)
	}

	// 3. Fallback: right-most non-numeric cell longer than one character.
	if startIdx == -1 {
		for i := len(cells) - 1; i >= 0; i-- {
			c := strings.TrimSpace(cells[i])
			if c != "" && !isNumeric(c) && len(c) > 1 {
				startIdx = i
				joined = c
				if i < len(cells)-1 {
					joined = strings.TrimSpace(c + "," + strings.Join(cells[i+1:], ","))
				}
				break
			}
		}
	}

	// 4. Last resort: the whole stripped line.
	if startIdx == -1 {
		startIdx = 0
		joined = strings.TrimSpace(text)
	}

	joined = glueFragments(cells, startIdx, joined)

	return splitIdentity(joined)
}

// glueFragments walks backward from the cell where the dash-separated pair
// started, prepending comma-split artist fragments onto the left side. The
// chain stops at the first cell that fails the name-fragment test, so a
// numeric cell (a bitrate or listener count) fences off the real CSV prefix.
func glueFragments(cells []string, startIdx int, joined string) string {
	loc := dashSep.FindStringIndex(joined)
	if loc == nil || loc[0] == 0 {
		return joined
	}
	left := strings.TrimSpace(joined[:loc[0]])
	right := strings.TrimSpace(joined[loc[1]:])

	var fragments []string
	for k := startIdx - 1; k >= 0 && len(fragments) < maxGlueCells; k-- {
		prev := strings.TrimSpace(cells[k])
		if !isNameFragment(prev) {
			break
		}
		fragments = append([]string{prev}, fragments...)
	}
	if len(fragments) > 0 {
		left = strings.Join(fragments, ", ") + ", " + left
	}
	return left + " - " + right
}

// splitIdentity disambiguates the separator style of a combined line.
func splitIdentity(line string) nowplaying.TrackIdentity {
	if m := dashSplit.FindStringSubmatch(line); m != nil {
		return nowplaying.TrackIdentity{
			Artist: normalize.Normalize(m[1]),
			Title:  normalize.Normalize(m[2]),
		}
	}
	// "Title by Artist" inverts the sides.
	if m := bySplit.FindStringSubmatch(line); m != nil {
		return nowplaying.TrackIdentity{
			Artist: normalize.Normalize(m[2]),
			Title:  normalize.Normalize(m[1]),
		}
	}
	if m := colonSplit.FindStringSubmatch(line); m != nil {
		return nowplaying.TrackIdentity{
			Artist: normalize.Normalize(m[1]),
			Title:  normalize.Normalize(m[2]),
		}
	}
	// "Artist, Title" only when the line has exactly one comma and the left
	// side plausibly is a short name rather than a clause of the title.
	if strings.Count(line, ",") == 1 {
		parts := strings.SplitN(line, ",", 2)
		left := strings.TrimSpace(parts[0])
		right := strings.TrimSpace(parts[1])
		if left != "" && right != "" &&
			len(strings.Fields(left)) <= 6 &&
			!strings.HasSuffix(left, "!") && !strings.HasSuffix(left, "?") {
			return nowplaying.TrackIdentity{
				Artist: normalize.Normalize(left),
				Title:  normalize.Normalize(right),
			}
		}
	}
	return nowplaying.TrackIdentity{Title: normalize.Normalize(line)}
}

func looksLikeTrack(s string) bool {
	if s == "" {
		return false
	}
	return dashSep.MatchString(s) || bySplit.MatchString(s) || colonSplit.MatchString(s)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isNameFragment accepts cells that plausibly belong to a comma-containing
// artist name: short, free of 3+-digit runs and dash separators, limited to
// the name-ish character set.
func isNameFragment(s string) bool {
	if s == "" || len(s) > 50 {
		return false
	}
	if bigDigits.MatchString(s) {
		return false
	}
	if dashSep.MatchString(s) || strings.ContainsAny(s, "–—") {
		return false
	}
	return fragmentRe.MatchString(s)
}
