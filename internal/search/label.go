// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"strings"
)

var labelReplacer = strings.NewReplacer("_", " ", "-", " ")

// FormatLabel derives a display label from a URI: the text after the last
// "/" with underscores and hyphens turned into spaces and "#" into ": ".
// Percent-escapes are decoded when valid, after the split on "#", so an
// encoded hash stays part of the name.
//
//	http://dbpedia.org/resource/Foo_Bar-Baz#sec → "Foo Bar Baz: sec"
func FormatLabel(uri string) string {
	s := strings.TrimRight(uri, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	parts := strings.Split(s, "#")
	for i, p := range parts {
		p = labelReplacer.Replace(p)
		if u, err := url.PathUnescape(p); err == nil {
			p = u
		}
		parts[i] = p
	}
	return strings.Join(parts, ": ")
}
