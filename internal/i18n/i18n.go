// Package i18n localizes the messages printed by the CLI.
package i18n

import (
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	localize *i18n.Localizer
}

// NewTranslations loads the embedded catalogues and selects lang.
// Unsupported languages fall back to English.
func NewTranslations(lang string) *Translations {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.MustParseMessageFileBytes([]byte(enMessages), "active.en.toml")
	bundle.MustParseMessageFileBytes([]byte(ruMessages), "active.ru.toml")

	return &Translations{
		localize: i18n.NewLocalizer(bundle, lang),
	}
}

// GetMessage returns the localized text for messageID.
func (t *Translations) GetMessage(messageID string, templateData map[string]any) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

const (
	MsgNotARepository  = "not_a_repository"
	MsgNoChanges       = "no_changes"
	MsgGenerating      = "generating"
	MsgCommitMessage   = "commit_message"
	MsgDryRun          = "dry_run"
	MsgCredentialSaved = "credential_saved"
	MsgCommitted       = "committed"
	MsgPushed          = "pushed"
	MsgCancelled       = "cancelled"
)

var enMessages = `
[not_a_repository]
other = "This is not a git repository."

[no_changes]
other = "No changes to commit."

[generating]
other = "Generating commit message..."

[commit_message]
other = "Commit message:"

[dry_run]
other = "Dry run enabled, exiting."

[credential_saved]
other = "API key saved to {{.Path}}"

[committed]
other = "Changes committed."

[pushed]
other = "Changes pushed."

[cancelled]
other = "Operation cancelled"
`

var ruMessages = `
[not_a_repository]
other = "Это не git-репозиторий."

[no_changes]
other = "Нет изменений для коммита."

[generating]
other = "Генерация сообщения коммита..."

[commit_message]
other = "Сообщение коммита:"

[dry_run]
other = "Включён пробный запуск, выход."

[credential_saved]
other = "API-ключ сохранён в {{.Path}}"

[committed]
other = "Изменения закоммичены."

[pushed]
other = "Изменения отправлены."

[cancelled]
other = "Операция отменена"
`
