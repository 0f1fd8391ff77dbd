// Package slug derives URL-safe identifiers from human-readable titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug Generate returns.
const MaxLength = 200

var canonical = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// letters that have no compatibility decomposition but a common ASCII spelling.
var ligatures = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
)

// Generate converts a title into a lowercase slug made of [a-z0-9] runs joined by single hyphens.
// Diacritics and compatibility forms (ligatures, full-width letters) are folded to their base
// letters; every other run of characters becomes a hyphen, and hyphens never lead, trail or repeat.
// Slugs longer than MaxLength are cut at the last hyphen that fits.
// A title without any ASCII letter or digit yields "".
//
// Example: "Rust Conf 2024!" -> "rust-conf-2024".
func Generate(title string) string {
	folded := fold(strings.ToLower(title))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return truncate(b.String())
}

func truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	if s[MaxLength] == '-' {
		return s[:MaxLength]
	}
	cut := s[:MaxLength]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		return cut[:i]
	}
	return cut
}

// Valid reports whether s is a non-empty slug in canonical form.
func Valid(s string) bool {
	return canonical.MatchString(s)
}

// fold strips combining marks after compatibility decomposition. Transformers are stateful,
// so a fresh chain is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return ligatures.Replace(out)
}
