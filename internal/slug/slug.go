// Package slug builds URL path segments for categories and brands.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pattern accepts lowercase letters, numbers and single inner hyphens
var pattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	apostrophes = strings.NewReplacer("'", "", "’", "")
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Valid reports whether s is a well-formed slug
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// Make derives a slug from a display name: accents are folded to ASCII
// ("Acessórios" -> "acessorios"), apostrophes dropped, and every other
// run of non-alphanumerics becomes one hyphen ("H&M" -> "h-m").
// Names with no ASCII letters or digits yield "".
func Make(name string) string {
	s := strings.ToLower(fold(name))
	s = apostrophes.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
