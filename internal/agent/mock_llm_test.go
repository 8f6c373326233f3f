package agent

import (
	"context"

	"github.com/zhe.chen/agent-letter-story/internal/llm"
)

// scriptedLLM answers calls in order and records every prompt it saw.
// An empty scripted response behaves like a backend returning no text.
type scriptedLLM struct {
	responses []string
	errs      map[int]error
	prompts   []string
}

func newScriptedLLM(responses ...string) *scriptedLLM {
	return &scriptedLLM{responses: responses, errs: map[int]error{}}
}

func (s *scriptedLLM) failOn(call int, err error) *scriptedLLM {
	s.errs[call] = err
	return s
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)

	if err := s.errs[i]; err != nil {
		return "", err
	}
	if i >= len(s.responses) || s.responses[i] == "" {
		return "", llm.ErrEmptyResponse
	}
	return s.responses[i], nil
}
