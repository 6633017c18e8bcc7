package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
	}{
		{"en", LanguageEN},
		{"ru", LanguageRU},
		{"RU", LanguageRU},
		{" ru ", LanguageRU},
		{"", LanguageEN},
		{"de", LanguageEN},
		{"english", LanguageEN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLanguage(tt.input))
		})
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("Ru"))
	assert.False(t, IsSupported("fr"))
	assert.False(t, IsSupported(""))
}

func TestBuildPrompt_AppendsChangesVerbatim(t *testing.T) {
	changes := "diff --git a/x b/x\n+added {{.Changes}} line\n"

	for _, lang := range Languages() {
		t.Run(lang.String(), func(t *testing.T) {
			prompt := BuildPrompt(changes, lang)
			assert.True(t, strings.HasSuffix(prompt, changes), "changes must end the prompt")
			assert.Equal(t, 1, strings.Count(prompt, changes))
		})
	}
}

func TestBuildPrompt_Delimiters(t *testing.T) {
	assert.True(t, strings.HasSuffix(BuildPrompt("", LanguageEN), "Here are the changes:\n"))
	assert.True(t, strings.HasSuffix(BuildPrompt("", LanguageRU), "Вот список изменений:\n"))
}

func TestBuildPrompt_LanguagesDiffer(t *testing.T) {
	changes := "New file: a.txt"
	assert.NotEqual(t, BuildPrompt(changes, LanguageEN), BuildPrompt(changes, LanguageRU))
}

func TestBuildPrompt_Idempotent(t *testing.T) {
	changes := "+added line\n"
	for _, lang := range Languages() {
		assert.Equal(t, BuildPrompt(changes, lang), BuildPrompt(changes, lang))
	}
}

func TestBuildPrompt_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	changes := "+x\n"
	assert.Equal(t, BuildPrompt(changes, LanguageEN), BuildPrompt(changes, Language("de")))
}

func TestBuildPrompt_Instructions(t *testing.T) {
	prompt := BuildPrompt("+x", LanguageEN)
	assert.Contains(t, prompt, "imperative mood")
	assert.Contains(t, prompt, "50-72 characters")
	assert.Contains(t, prompt, "blank line")
	assert.Contains(t, prompt, "no markdown formatting")
}

func TestBuiltinTemplates(t *testing.T) {
	assert.Len(t, builtinTemplates, len(Languages()))
	for _, lang := range Languages() {
		assert.Contains(t, builtinTemplates[lang], "{{.Changes}}")
		assert.Contains(t, parsedTemplates, lang)
	}
}
