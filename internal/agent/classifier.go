package agent

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// affirmativeWord is the standalone token that means "yes" in the model's answer language
const affirmativeWord = "да"

// Decision interprets a raw model answer as a yes/no judgment
type Decision func(response string) bool

// Classifier renders a fixed instruction, asks the model and interprets the answer
type Classifier struct {
	model llm.LLM
}

// NewClassifier creates a classifier over a request-scoped model
func NewClassifier(model llm.LLM) *Classifier {
	return &Classifier{model: model}
}

// Ask renders tmpl and returns the model's raw answer. An empty completion is returned
// as "" without error so each caller can apply its own empty-result rule.
func (c *Classifier) Ask(ctx context.Context, tmpl *Template, vars Vars) (string, error) {
	prompt, err := tmpl.Render(vars)
	if err != nil {
		return "", err
	}

	response, err := c.model.Generate(ctx, prompt)
	if errors.Is(err, llm.ErrEmptyResponse) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return response, nil
}

// Classify answers a yes/no template with the first-sentence affirmative protocol
func (c *Classifier) Classify(ctx context.Context, tmpl *Template, vars Vars) (bool, error) {
	ok, _, err := c.Decide(ctx, tmpl, vars, Affirmative)
	return ok, err
}

// Decide is Classify with a caller-supplied interpretation; the raw answer is returned too
func (c *Classifier) Decide(ctx context.Context, tmpl *Template, vars Vars, decide Decision) (bool, string, error) {
	response, err := c.Ask(ctx, tmpl, vars)
	if err != nil {
		return false, "", types.NewUnavailable(types.MsgClassifyFailed, err)
	}

	result := decide(response)
	log.Printf("[Classifier] %s -> %t (answer: %q)", tmpl.Name(), result, truncate(response, 80))
	return result, response, nil
}

// Affirmative reports whether the first sentence of text contains the standalone word "да".
// Anything after the first '.', '!' or '?' is ignored.
func Affirmative(text string) bool {
	first := text
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		first = text[:i]
	}

	for _, word := range strings.FieldsFunc(first, isWordSeparator) {
		if strings.EqualFold(word, affirmativeWord) {
			return true
		}
	}
	return false
}

func isWordSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
