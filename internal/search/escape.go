// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"
	"unicode"
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// escapeLiteral escapes s for use inside a quoted SPARQL string literal
// (either quote style).
func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// textPhrase reduces a keyword to letters, combining marks, digits and
// single spaces so it can sit inside the quoted phrase of a Virtuoso
// bif:contains pattern. Everything else, including quotes and wildcard
// characters, separates words.
func textPhrase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// escapeIRI percent-encodes the characters that may not appear inside an
// IRIREF (<...>), leaving everything else as written.
func escapeIRI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || strings.IndexByte("<>\"{}|^`\\", c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
