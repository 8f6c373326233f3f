package agent

import (
	"context"
	"strings"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Lyricist writes the two-verse song text submitted with a music job
type Lyricist struct {
	classifier *Classifier
}

// NewLyricist creates a lyricist
func NewLyricist(classifier *Classifier) *Lyricist {
	return &Lyricist{classifier: classifier}
}

// Write produces lyrics for story in the resolved tone
func (l *Lyricist) Write(ctx context.Context, story string, tones types.ToneSet) (string, error) {
	text, err := l.classifier.Ask(ctx, LyricsTemplate, Vars{
		"history":   story,
		"emotional": tones.String(),
	})
	if err != nil {
		return "", types.NewUnavailable(types.MsgLyricsFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", types.NewUnavailable(types.MsgLyricsFailed, llm.ErrEmptyResponse)
	}
	return text, nil
}
