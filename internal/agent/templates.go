package agent

import (
	"fmt"
	"strings"
	"text/template"
)

// Vars are the named slots of a prompt template
type Vars map[string]string

// Template is a fixed natural-language instruction with named slots
type Template struct {
	name string
	tmpl *template.Template
}

func mustTemplate(name, text string) *Template {
	return &Template{
		name: name,
		tmpl: template.Must(template.New(name).Option("missingkey=error").Parse(text)),
	}
}

// Name identifies the template in logs
func (t *Template) Name() string {
	return t.name
}

// Render fills the slots; a missing slot is an error
func (t *Template) Render(vars Vars) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, map[string]string(vars)); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.name, err)
	}
	return b.String(), nil
}

// TopicTemplate asks whether the request fits the 1941-1945 theme. Slots: query.
var TopicTemplate = mustTemplate("topic", `Ты - писатель, который сочиняет истории по письмам военных лет 1941-1945 годов (Великая Отечественная война).

Пользователь прислал пожелания к истории. Определи, соответствует ли запрос военной тематике тех лет и не противоречит ли он историческим событиям.

Подходящие запросы, например:
- "История должна быть грустной"
- "Напиши историю о надежде и любви"
- "Сделай историю более драматичной"

Неподходящие запросы, например:
- "Напиши историю о космосе"
- "Пусть действие происходит на Бали"

Запрос пользователя: {{.query}}

Ответь "Да", если запрос подходит, иначе ответь "Нет". Ничего кроме "Да" или "Нет" не пиши.`)

// EmotionIntentTemplate asks whether the request sets an emotional tone. Slots: query.
var EmotionIntentTemplate = mustTemplate("emotion_intent", `Пользователь просит рассказать историю. Определи, есть ли в его запросе требования к эмоциональной составляющей истории.

Например:
- "История должна быть грустной"
- "Сделай историю, которая вызывает ностальгию"
- "Сделай историю веселее"

Это лишь примеры, не ограничивайся ими.

Запрос пользователя:
{{.query}}

Ответь "Да", если такие требования есть, иначе ответь "Нет". Ничего кроме "Да" или "Нет" не пиши.`)

// LetterEmotionsTemplate extracts at most five emotions of a letter's author. Slots: letter.
var LetterEmotionsTemplate = mustTemplate("letter_emotions", `Ты - психолог, который анализирует письма. Выдели только ключевые эмоции и чувства автора письма, не больше 5.

Письмо: {{.letter}}
================================
Отвечай обычным текстом без разметки, строго в формате:
Мои мысли: почему ты выделил именно эти эмоции и чувства.
Эмоции и чувства: (эмоции в одну строку через запятую)
================================`)

// QueryEmotionsTemplate extracts the tone words a user asked for. Slots: query.
var QueryEmotionsTemplate = mustTemplate("query_emotions", `Пользователь просит рассказать историю и указывает, какой она должна быть по настроению. Выпиши все эмоции и чувства, которые он хочет увидеть в истории.

Запрос пользователя: {{.query}}
================================
Отвечай обычным текстом без разметки, строго в формате:
Мои мысли: как ты понял пожелания пользователя.
Эмоции и чувства: (эмоции в одну строку через запятую)
================================`)

// StoryTemplate is the single authoritative narrative instruction. Slots: emotional, query, letter.
//
// When the request contradicts the letter the model answers with a clarification
// request instead of a story; the pipeline passes that text through unchanged.
var StoryTemplate = mustTemplate("story", `Ты - писатель, который сочиняет истории по письмам военных лет 1941-1945 годов (Великая Отечественная война).

Ты получаешь письмо с фронта, пожелания пользователя и эмоциональную составляющую истории. Учти все пожелания пользователя.
Все факты, которые ты используешь, ОБЯЗАТЕЛЬНО проверь на соответствие историческим событиям тех лет.

Эмоциональная составляющая: {{.emotional}}

Запрос пользователя: {{.query}}

Если в запросе пользователя есть эмоциональные требования, используй их, а не поле эмоциональной составляющей.
Если поле пустое и запрос не задает настроение, возьми эмоции из письма.

Письмо: {{.letter}}

Если письма нет, напиши историю по запросу пользователя.
Если запрос противоречит письму (пользователь хочет того, чего не могло быть в письме), не пиши историю: вместо нее объясни пользователю противоречие и попроси переформулировать запрос.

В ответе напиши только историю: не меньше 300 и не больше 500 слов.`)

// SummaryTemplate turns a story into an English image prompt. Slots: history.
var SummaryTemplate = mustTemplate("summary", `Ты - литератор. Выбери из текста один момент, по которому можно нарисовать картину. На картине должен быть человек или люди, участвующие в этом моменте.
Не называй имен: пиши, например, "a Soviet soldier", если это солдат.
Уложись в 200 символов. Текст должен быть на английском языке.

Текст:
{{.history}}

В ответе напиши только описание на английском, без вступлений и пояснений.`)

// LyricsTemplate writes a two-verse song from the story. Slots: history, emotional.
var LyricsTemplate = mustTemplate("lyrics", `Ты - поэт-песенник. Напиши текст песни из двух куплетов по мотивам истории военных лет.
Настроение песни: {{.emotional}}

История:
{{.history}}

Отвечай только текстом песни, разметь куплеты строками [Verse 1] и [Verse 2].`)

// ExtractFactsTemplate pulls verifiable historical facts out of a story. Slots: history.
var ExtractFactsTemplate = mustTemplate("extract_facts", `Извлеки из текста только проверяемые объективные факты, связанные с историей или естественными науками.
Не включай личные переживания, бытовые подробности, ранения, субъективные мнения и детали, которые нельзя подтвердить авторитетными источниками.

Допустимые факты, например:
- Октябрьская революция была в 1917 году
- Во Второй мировой войне участвовал СССР

Недопустимые факты, например:
- Ранение левой руки осколком снаряда
- Отец Михаила потерял руку на Первой мировой войне

Перечисли найденные факты через запятую без разметки.

История: {{.history}}`)

// CheckFactsTemplate asks a historian to grade facts. Slots: facts.
var CheckFactsTemplate = mustTemplate("check_facts", `Ты - историк. Оцени факты и раздели их на достоверные, недостоверные и неопределенные (те, за которые ты не можешь поручиться).

Факты:
{{.facts}}

Если недостоверных и неопределенных фактов нет, ответь ровно "Все четко" без кавычек и разметки.
Иначе перечисли недостоверные и неопределенные факты через запятую без разметки.`)
