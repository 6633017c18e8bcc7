package formatter

import (
	"bytes"
	"text/template"
)

// TemplateData is the input to a prompt template.
type TemplateData struct {
	Changes string
}

var builtinTemplates = map[Language]string{
	LanguageEN: `You are a commit message generator AI.

Given the following diff or list of changed files, generate a concise, clear, and informative **git commit message** that summarizes the changes.
The message should be suitable for use in professional software projects.

**Important:**
- Output **only** the commit message text: no explanations, no greetings, no metadata, no markdown formatting, no quotes.
- Use the imperative mood (e.g., "Add feature", "Fix bug").
- Keep it concise but descriptive (ideally 50-72 characters in the summary line).
- If needed, you may add a short body (one or two sentences) explaining the why or context of the changes, separated from the summary by a blank line.
- Do not include any other information besides the commit message.

Here are the changes:
{{.Changes}}`,

	LanguageRU: `Ты — AI для генерации сообщений коммитов.

На входе у тебя — список изменений в проекте в формате diff или список изменённых файлов.
Твоя задача — сгенерировать короткое, информативное и понятное **сообщение коммита**, которое точно отражает внесённые изменения.

**Важно:**
- Выводи **только** текст сообщения коммита: никаких объяснений, приветствий, метаданных, кавычек и форматирования.
- Используй повелительное наклонение (например: «Добавить…», «Исправить…», «Удалить…»).
- Сообщение должно быть кратким, но ёмким (рекомендуется от 50 до 72 символов в заголовке).
- При необходимости можешь добавить короткое тело (одна-две строки), отделённое пустой строкой, где объяснишь причину или контекст изменений.
- Никакой дополнительной информации, только сообщение коммита.

Вот список изменений:
{{.Changes}}`,
}

// parsedTemplates is built once; the builtin templates are constants so a
// parse failure is a programming error.
var parsedTemplates = func() map[Language]*template.Template {
	parsed := make(map[Language]*template.Template, len(builtinTemplates))
	for lang, content := range builtinTemplates {
		parsed[lang] = template.Must(template.New(string(lang)).Parse(content))
	}
	return parsed
}()

func renderTemplate(tmpl *template.Template, data TemplateData) string {
	var buf bytes.Buffer
	// Execute cannot fail: the templates only reference a string field.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
