// Package slug turns post titles into URL-safe identifiers.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make normalizes title into a URL-safe slug: Unicode is decomposed (NFKD)
// and combining marks dropped, letters are lowercased, and every run of
// characters outside [a-z0-9] collapses into a single hyphen. Leading and
// trailing hyphens are trimmed. Titles with no representable characters
// yield the empty string; callers are expected to substitute a fallback.
func Make(title string) string {
	if title == "" {
		return ""
	}

	decomposed := norm.NFKD.String(title)

	var b strings.Builder
	b.Grow(len(decomposed))
	pendingHyphen := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			// combining mark from the NFKD decomposition
			continue
		}
		r = unicode.ToLower(r)
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

	return b.String()
}
