package batch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhipatel2005/cergen/pkg/pptx"
)

// fieldMappingsKey is UI metadata riding along in additional data; it never
// becomes a placeholder.
const fieldMappingsKey = "fieldMappings"

// 🔄 Variants expands one field into its four placeholder casings:
// {{key}} verbatim, {{KEY}} uppercased, {{Key}} title-cased, {{key}}
// lowercased, each mapped to the correspondingly-cased value. Overlapping
// casings (e.g. a key that is already lowercase) collapse into one entry;
// the verbatim entry is written last so it wins every collision and
// {{name}} with value "Ana" stays "Ana" rather than "ana".
func Variants(key string, value any) map[string]string {
	str := stringify(value)
	title := cases.Title(language.Und)

	m := map[string]string{
		token(strings.ToUpper(key)): strings.ToUpper(str),
		token(title.String(key)):    title.String(str),
		token(strings.ToLower(key)): strings.ToLower(str),
	}
	m[token(key)] = str
	return m
}

func token(key string) string {
	return "{{" + key + "}}"
}

// 🗺️ BuildReplacements builds the replacement map for one record: every
// non-null record field plus every usable field of the shared additional data.
// Null record fields are skipped silently; additional fields are also skipped
// when empty, along with the reserved fieldMappings metadata key.
func BuildReplacements(rec Record, additional map[string]any) pptx.ReplacementMap {
	m := make(pptx.ReplacementMap)

	for key, value := range rec {
		if value == nil {
			continue
		}
		for tok, val := range Variants(key, value) {
			m[tok] = val
		}
	}

	for key, value := range additional {
		if value == nil || value == "" || key == fieldMappingsKey {
			continue
		}
		for tok, val := range Variants(key, value) {
			m[tok] = val
		}
	}

	return m
}

// 🧹 SafeStem derives a filesystem-safe filename stem from a display name:
// only letters, digits, spaces, hyphens and underscores survive; trailing
// whitespace is stripped; remaining spaces become underscores.
func SafeStem(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	stem := strings.TrimRightFunc(b.String(), unicode.IsSpace)
	return strings.ReplaceAll(stem, " ", "_")
}
