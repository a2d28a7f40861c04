// Package teams matches team names across data providers. The schedule feed,
// the odds feed and the results feed rarely agree on spelling ("NY Yankees",
// "New York Yankees", "Yankees"), so settlement goes through Normalize and
// Match instead of string equality.
package teams

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps provider shorthand to the canonical normalized form. Keys and
// values are already normalized.
var aliases = map[string]string{
	"nyy":        "new york yankees",
	"nym":        "new york mets",
	"ny yankees": "new york yankees",
	"ny mets":    "new york mets",
	"lad":        "los angeles dodgers",
	"laa":        "los angeles angels",
	"dbacks":     "arizona diamondbacks",
	"d backs":    "arizona diamondbacks",
	"st louis":   "st louis cardinals",
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, strips accents and punctuation, collapses
// whitespace, and resolves known provider aliases.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name, _, _ = transform.String(foldAccents, name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	name = strings.Join(strings.Fields(b.String()), " ")

	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Match reports whether two team names refer to the same team. After
// normalization, containment in either direction counts as a match, so
// "Yankees" matches "New York Yankees".
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
