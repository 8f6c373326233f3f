package pipeline

import (
	"context"
	"sync"

	"github.com/zhe.chen/agent-letter-story/internal/agent"
	"github.com/zhe.chen/agent-letter-story/internal/jobs"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// mockAgents counts calls per step; nil funcs return happy-path values
type mockAgents struct {
	mu    sync.Mutex
	calls map[string]int

	OnTopicFunc func(query string) (bool, error)
	ToneFunc    func(query, letter *string) (agent.ToneResolution, error)
	StoryFunc   func(tones types.ToneSet, query, letter *string) (types.StoryArtifact, error)
	SummaryFunc func(story string) (string, error)
	LyricsFunc  func(story string, tones types.ToneSet) (string, error)
	FactsFunc   func(story string) (types.FactVerdict, error)
}

func newMockAgents() *mockAgents {
	return &mockAgents{calls: map[string]int{}}
}

func (m *mockAgents) count(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

func (m *mockAgents) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockAgents) IsOnTopic(_ context.Context, query string) (bool, error) {
	m.count("topic")
	if m.OnTopicFunc != nil {
		return m.OnTopicFunc(query)
	}
	return true, nil
}

func (m *mockAgents) ResolveTone(_ context.Context, query, letter *string) (agent.ToneResolution, error) {
	m.count("tone")
	if m.ToneFunc != nil {
		return m.ToneFunc(query, letter)
	}
	return agent.ToneResolution{Source: agent.QueryDriven, Tones: types.ToneSet{"грусть"}}, nil
}

func (m *mockAgents) WriteStory(_ context.Context, tones types.ToneSet, query, letter *string) (types.StoryArtifact, error) {
	m.count("story")
	if m.StoryFunc != nil {
		return m.StoryFunc(tones, query, letter)
	}
	return types.StoryArtifact{Text: "История о войне"}, nil
}

func (m *mockAgents) Summarize(_ context.Context, story string) (string, error) {
	m.count("summary")
	if m.SummaryFunc != nil {
		return m.SummaryFunc(story)
	}
	return "A soldier reads a letter.", nil
}

func (m *mockAgents) WriteLyrics(_ context.Context, story string, tones types.ToneSet) (string, error) {
	m.count("lyrics")
	if m.LyricsFunc != nil {
		return m.LyricsFunc(story, tones)
	}
	return "Куплет", nil
}

func (m *mockAgents) CheckFacts(_ context.Context, story string) (types.FactVerdict, error) {
	m.count("facts")
	if m.FactsFunc != nil {
		return m.FactsFunc(story)
	}
	return types.FactVerdict{Status: types.FactsVerified}, nil
}

type mockImages struct {
	prompts []string
	refs    []string
	err     error
}

func (m *mockImages) Generate(_ context.Context, prompt string) ([]string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	if m.refs == nil {
		return []string{"https://img.example.com/1.png", "https://img.example.com/2.png"}, nil
	}
	return m.refs, nil
}

type mockMusic struct {
	requests []jobs.MusicRequest
	err      error
}

func (m *mockMusic) Generate(_ context.Context, req jobs.MusicRequest) ([]string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return []string{"https://music.example.com/song.mp3"}, nil
}

type mockLetters struct {
	texts map[string]string
	calls int
}

func (m *mockLetters) Letter(_ context.Context, id string) (string, error) {
	m.calls++
	text, ok := m.texts[id]
	if !ok {
		return "", types.NewUserError(types.MsgLetterNotFound)
	}
	return text, nil
}

// fixture wires one pipeline around fresh mocks
type fixture struct {
	agents    *mockAgents
	factories int
	images    *mockImages
	music     *mockMusic
	letters   *mockLetters
	pipeline  *Pipeline
}

func newFixture(cfg types.PipelineConfig) *fixture {
	f := &fixture{
		agents:  newMockAgents(),
		images:  &mockImages{},
		music:   &mockMusic{},
		letters: &mockLetters{texts: map[string]string{"7": "Дорогая мама, пишу тебе из окопа."}},
	}
	f.pipeline = NewPipeline(cfg, Deps{
		Agents: func() Agents {
			f.factories++
			return f.agents
		},
		Images:  f.images,
		Music:   f.music,
		Letters: f.letters,
	})
	return f
}

func (f *fixture) networkCalls() int {
	total := f.letters.calls + len(f.images.prompts) + len(f.music.requests)
	for _, n := range f.agents.calls {
		total += n
	}
	return total
}
