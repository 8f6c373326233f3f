package agent

import (
	"context"
	"log"
	"strings"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// StoryGenerator owns the authoritative story text of a request
type StoryGenerator struct {
	classifier *Classifier
}

// NewStoryGenerator creates a story generator
func NewStoryGenerator(classifier *Classifier) *StoryGenerator {
	return &StoryGenerator{classifier: classifier}
}

// Generate issues the single narrative call. Missing query or letter render as "".
// No retry happens here.
func (g *StoryGenerator) Generate(ctx context.Context, tones types.ToneSet, query, letter *string) (types.StoryArtifact, error) {
	vars := Vars{
		"emotional": tones.String(),
		"query":     deref(query),
		"letter":    deref(letter),
	}

	text, err := g.classifier.Ask(ctx, StoryTemplate, vars)
	if err != nil {
		return types.StoryArtifact{}, types.NewUnavailable(types.MsgStoryFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return types.StoryArtifact{}, types.NewUnavailable(types.MsgStoryFailed, llm.ErrEmptyResponse)
	}

	story := types.StoryArtifact{Text: text}
	log.Printf("[Story] generated %d words", story.WordCount())
	return story, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
