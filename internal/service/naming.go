package service

import (
	"strings"
	"unicode"
)

// CollectionPrefix namespaces tenant collections.
const CollectionPrefix = "org_"

// DeriveCollectionName maps an organization display name to its tenant
// collection name. The name is lower-cased, every rune that is not a letter,
// number, underscore, whitespace or hyphen is dropped, and each run of
// whitespace and hyphens becomes a single underscore. The result is prefixed
// with CollectionPrefix unless it already starts with it, so applying the
// function to its own output is a no-op.
//
// An empty or all-punctuation name yields the bare prefix.
func DeriveCollectionName(displayName string) string {
	var b strings.Builder
	b.Grow(len(CollectionPrefix) + len(displayName))

	inSep := false
	for _, r := range strings.ToLower(displayName) {
		switch {
		case r == '-' || unicode.IsSpace(r):
			if !inSep {
				b.WriteByte('_')
				inSep = true
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			inSep = false
		}
	}

	slug := b.String()
	if strings.HasPrefix(slug, CollectionPrefix) {
		return slug
	}
	return CollectionPrefix + slug
}
