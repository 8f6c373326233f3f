package agent

import (
	"context"
	"strings"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// SummaryExtractor compresses a story into a short English scene description
type SummaryExtractor struct {
	classifier *Classifier
}

// NewSummaryExtractor creates a summary extractor
func NewSummaryExtractor(classifier *Classifier) *SummaryExtractor {
	return &SummaryExtractor{classifier: classifier}
}

// Summarize returns the image prompt body. Length and language are only asked for in
// the instruction, not checked.
func (s *SummaryExtractor) Summarize(ctx context.Context, story string) (string, error) {
	text, err := s.classifier.Ask(ctx, SummaryTemplate, Vars{"history": story})
	if err != nil {
		return "", types.NewUnavailable(types.MsgSummaryFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", types.NewUnavailable(types.MsgSummaryFailed, llm.ErrEmptyResponse)
	}
	return text, nil
}
