package slug

import (
	"strings"

	gslug "github.com/gosimple/slug"
)

func init() {
	// Mongolian Cyrillic letters the default table does not cover.
	gslug.CustomRuneSub = map[rune]string{
		'ө': "o", 'Ө': "o",
		'ү': "u", 'Ү': "u",
	}
}

// Make derives a URL slug from a display name. The same name always gives the same slug.
func Make(name string) string {
	return gslug.Make(strings.TrimSpace(name))
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return s != "" && gslug.IsSlug(s)
}
