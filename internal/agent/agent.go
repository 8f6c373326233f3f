// Package agent holds the LLM-mediated decisions of the story pipeline: topic and
// emotion gating, tone extraction, story writing, summarization, lyrics and fact checks.
// Every agent is built per request on top of one stateless model client.
package agent

import (
	"context"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Set is the group of agents serving one request
type Set struct {
	Classifier *Classifier
	Emotions   *EmotionResolver
	Story      *StoryGenerator
	Summary    *SummaryExtractor
	Lyrics     *Lyricist
	Facts      *FactChecker
}

// New wires every agent to model
func New(model llm.LLM) *Set {
	classifier := NewClassifier(model)
	return &Set{
		Classifier: classifier,
		Emotions:   NewEmotionResolver(classifier),
		Story:      NewStoryGenerator(classifier),
		Summary:    NewSummaryExtractor(classifier),
		Lyrics:     NewLyricist(classifier),
		Facts:      NewFactChecker(classifier),
	}
}

// IsOnTopic runs the topic-validity gate
func (s *Set) IsOnTopic(ctx context.Context, query string) (bool, error) {
	return s.Classifier.Classify(ctx, TopicTemplate, Vars{"query": query})
}

// ResolveTone delegates to the emotion resolver
func (s *Set) ResolveTone(ctx context.Context, query, letter *string) (ToneResolution, error) {
	return s.Emotions.Resolve(ctx, query, letter)
}

// WriteStory delegates to the story generator
func (s *Set) WriteStory(ctx context.Context, tones types.ToneSet, query, letter *string) (types.StoryArtifact, error) {
	return s.Story.Generate(ctx, tones, query, letter)
}

// Summarize delegates to the summary extractor
func (s *Set) Summarize(ctx context.Context, story string) (string, error) {
	return s.Summary.Summarize(ctx, story)
}

// WriteLyrics delegates to the lyricist
func (s *Set) WriteLyrics(ctx context.Context, story string, tones types.ToneSet) (string, error) {
	return s.Lyrics.Write(ctx, story, tones)
}

// CheckFacts delegates to the fact checker
func (s *Set) CheckFacts(ctx context.Context, story string) (types.FactVerdict, error) {
	return s.Facts.Check(ctx, story)
}
