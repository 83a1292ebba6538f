package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// TitleWords title-cases every word, used for generated outfit names
// composed from raw color and garment labels ("navy blue" -> "Navy Blue").
func TitleWords(s string) string {
	return TitleCaser.String(strings.TrimSpace(s))
}
