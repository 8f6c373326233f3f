package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

func TestAffirmative(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Да", true},
		{"да.", true},
		{"ДА!", true},
		{"Да, запрос подходит", true},
		{"Ответ: да", true},
		{"Да-да, конечно", true},
		{"Да\u0301.", true},
		{"Ну да\u0301, подходит", true},
		{"Нет", false},
		{"Нет. Да", false},
		{"Нет! Да!", false},
		{"Нет? Да.", false},
		{"Дальше будет видно", false},
		{"Отдать", false},
		{"да_нет", false},
		{"", false},
		{"...", false},
		{"Yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Affirmative(tt.text))
		})
	}
}

func TestAffirmative_OnlyFirstSentenceMatters(t *testing.T) {
	bases := []string{
		"Нет",
		"Нет.",
		"Да",
		"Да!",
		"Думаю, что нет?",
		"Сложно сказать. Возможно",
		"",
	}
	suffixes := []string{" Да.", " да", " Да! Да! Да!"}

	for _, base := range bases {
		want := Affirmative(base)
		for _, suffix := range suffixes {
			text := base + "." + suffix
			assert.Equal(t, want, Affirmative(text), "text %q", text)
		}
	}
}

func TestClassifier_Classify(t *testing.T) {
	model := newScriptedLLM("Да.")
	c := NewClassifier(model)

	ok, err := c.Classify(context.Background(), TopicTemplate, Vars{"query": "Сделай грустную историю"})
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Сделай грустную историю")
}

func TestClassifier_Classify_EmptyAnswerIsNo(t *testing.T) {
	c := NewClassifier(newScriptedLLM(""))

	ok, err := c.Classify(context.Background(), TopicTemplate, Vars{"query": "q"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifier_Classify_BackendFailureIsUnavailable(t *testing.T) {
	boom := errors.New("connection reset")
	c := NewClassifier(newScriptedLLM().failOn(0, boom))

	ok, err := c.Classify(context.Background(), EmotionIntentTemplate, Vars{"query": "q"})
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, types.IsUnavailable(err))
	assert.ErrorIs(t, err, boom)
}

func TestClassifier_Decide_ReturnsRawAnswer(t *testing.T) {
	c := NewClassifier(newScriptedLLM("Все четко"))

	ok, raw, err := c.Decide(context.Background(), CheckFactsTemplate, Vars{"facts": "f"}, AllFactsClear)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Все четко", raw)
}

func TestTemplate_RenderMissingSlot(t *testing.T) {
	_, err := StoryTemplate.Render(Vars{"query": "q"})
	assert.Error(t, err)

	c := NewClassifier(newScriptedLLM("Да"))
	_, err = c.Classify(context.Background(), TopicTemplate, Vars{})
	require.Error(t, err)
	assert.True(t, types.IsUnavailable(err))
}
