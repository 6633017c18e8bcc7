// Package formatter renders the instruction sent to the completion service.
package formatter

import "strings"

// Language selects the prompt template and the language of the generated message.
type Language string

const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

// DefaultLanguage is used for any unrecognised value.
const DefaultLanguage = LanguageEN

// Languages returns every supported language.
func Languages() []Language {
	return []Language{LanguageEN, LanguageRU}
}

// ParseLanguage maps user input onto a supported language, falling back to
// DefaultLanguage.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageRU:
		return LanguageRU
	case LanguageEN:
		return LanguageEN
	default:
		return DefaultLanguage
	}
}

// IsSupported reports whether s names a supported language, ignoring case.
func IsSupported(s string) bool {
	for _, lang := range Languages() {
		if string(lang) == strings.ToLower(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

func (l Language) String() string {
	return string(l)
}

// BuildPrompt renders the template for lang with changes appended verbatim
// after the template's closing delimiter line.
func BuildPrompt(changes string, lang Language) string {
	tmpl, ok := parsedTemplates[lang]
	if !ok {
		tmpl = parsedTemplates[DefaultLanguage]
	}
	return renderTemplate(tmpl, TemplateData{Changes: changes})
}
