package normalize

import (
	"regexp"
	"strings"
)

// Status pages and playout systems hand us text in whatever state their
// encoder left it: entity-escaped, sprinkled with zero-width characters,
// separated by any of three dash variants. Everything funnels through
// Normalize before it is compared or stored.

var (
	zeroWidthRe  = regexp.MustCompile("[\u200B\u200C\u200D\uFEFF]")
	dashRe       = regexp.MustCompile(`\s*[\x{2013}\x{2014}]\s*|\s+-\s+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#039;", "'",
	"&nbsp;", " ",
)

// Normalize decodes the common HTML entities, strips zero-width/BOM
// characters, canonicalizes dash separators to " – " and collapses runs of
// whitespace. Total over any input; empty in means empty out.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = entityReplacer.Replace(s)
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = dashRe.ReplaceAllString(s, " – ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
