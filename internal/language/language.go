package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2 string   // ISO 639-1 (2-letter)
	words []string // Full word forms, in English and in the language itself
}

var languages = []entry{
	{"en", []string{"english", "inglês", "ingles"}},
	{"pt", []string{"portuguese", "português", "portugues"}},
	{"es", []string{"spanish", "español", "espanol", "espanhol"}},
	{"fr", []string{"french", "français", "francais", "francês"}},
	{"de", []string{"german", "deutsch", "alemão"}},
	{"it", []string{"italian", "italiano"}},
	{"ja", []string{"japanese", "japonês"}},
	{"ko", []string{"korean", "coreano"}},
	{"zh", []string{"chinese", "chinês"}},
	{"ru", []string{"russian", "russo"}},
	{"ar", []string{"arabic", "árabe"}},
	{"hi", []string{"hindi"}},
	{"nl", []string{"dutch", "nederlands"}},
	{"pl", []string{"polish", "polski"}},
	{"sv", []string{"swedish", "svenska"}},
}

var byWord map[string]string

func init() {
	byWord = make(map[string]string, len(languages)*3)
	for _, e := range languages {
		for _, w := range e.words {
			byWord[w] = e.code2
		}
	}
}

// ToISO2 converts a language word ("Português"), ISO 639 code ("por", "pt") or
// BCP 47 tag ("pt-BR") to a lowercase ISO 639-1 code. Returns an empty string
// for unrecognized input.
func ToISO2(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	if code, ok := byWord[value]; ok {
		return code
	}
	tag, err := xlang.Parse(value)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == xlang.No {
		return ""
	}
	iso := base.String()
	if len(iso) != 2 {
		return ""
	}
	return iso
}

// DisplayName returns a human-readable English name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased input when unrecognized.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	iso := ToISO2(code)
	if iso == "" {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	tag := xlang.Make(iso)
	name := display.English.Tags().Name(tag)
	if name == "" {
		return strings.ToUpper(iso)
	}
	return cases.Title(xlang.English).String(name)
}

// Same reports whether two language values resolve to the same ISO 639-1 code.
func Same(a, b string) bool {
	isoA, isoB := ToISO2(a), ToISO2(b)
	if isoA == "" || isoB == "" {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return isoA == isoB
}
