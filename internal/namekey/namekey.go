// Package namekey canonicalizes player names for equality and similarity
// comparison. The canonical ordering is given-name first: a single comma in
// the raw input is treated as a "Surname, Given" spelling and folded.
package namekey

import (
	"strings"
	"unicode"
)

// Canonical converts a raw player name to its canonical key. The key is
// opaque to callers beyond equality and similarity testing.
//
// Steps, in order: trim, fold "Last, First" to "First Last", map hyphens to
// spaces, drop remaining punctuation (periods, commas, apostrophes),
// lowercase, collapse whitespace runs. The
// function is idempotent: Canonical(Canonical(x)) == Canonical(x).
//
// Empty and punctuation-only input canonicalizes to ""; callers reject such
// names at the ingestion boundary rather than storing them.
func Canonical(raw string) string {
	s := strings.TrimSpace(raw)

	// "Surname, Given" → "Given Surname". Only a single comma is treated as
	// an ordering marker; anything else is stray punctuation dropped below.
	if parts := strings.SplitN(s, ",", 3); len(parts) == 2 {
		last := strings.TrimSpace(parts[0])
		first := strings.TrimSpace(parts[1])
		if last != "" && first != "" {
			s = first + " " + last
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
