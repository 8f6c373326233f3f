package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Manifest records how one request moved through the stages. It lives only as long
// as the request and is logged when the run ends.
type Manifest struct {
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Input      types.GenerationRequest `json:"input"`
	ToneSource string                  `json:"tone_source,omitempty"`
	Tones      types.ToneSet           `json:"tones,omitempty"`

	CurrentStage types.PipelineStage                 `json:"current_stage"`
	Stages       map[types.PipelineStage]*StageState `json:"stages"`

	Result *types.GenerationResult `json:"result,omitempty"`
}

// StageState tracks the state of a single pipeline stage
type StageState struct {
	Status      types.StageStatus `json:"status"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Duration returns how long the stage ran, or 0 if it never finished
func (s *StageState) Duration() time.Duration {
	if s.StartedAt == nil || s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(*s.StartedAt)
}

// stageOrder is the fixed execution order used when reporting
var stageOrder = []types.PipelineStage{
	types.StageValidate,
	types.StageResolveTone,
	types.StageGenerateStory,
	types.StageSummarize,
	types.StageGenerateImage,
	types.StageGenerateMusic,
}

// NewManifest creates a manifest for one request
func NewManifest(requestID string, input types.GenerationRequest) *Manifest {
	now := time.Now()
	return &Manifest{
		RequestID: requestID,
		CreatedAt: now,
		UpdatedAt: now,
		Input:     input,
		Stages:    make(map[types.PipelineStage]*StageState),
	}
}

// GetStageState returns the state for a stage, creating if needed
func (m *Manifest) GetStageState(stage types.PipelineStage) *StageState {
	if m.Stages[stage] == nil {
		m.Stages[stage] = &StageState{Status: types.StatusPending}
	}
	return m.Stages[stage]
}

// StartStage marks a stage as running
func (m *Manifest) StartStage(stage types.PipelineStage) {
	state := m.GetStageState(stage)
	now := time.Now()
	state.Status = types.StatusRunning
	state.StartedAt = &now
	m.CurrentStage = stage
	m.UpdatedAt = now
}

// CompleteStage marks a stage as completed
func (m *Manifest) CompleteStage(stage types.PipelineStage) {
	state := m.GetStageState(stage)
	now := time.Now()
	state.Status = types.StatusCompleted
	state.CompletedAt = &now
	m.UpdatedAt = now
}

// FailStage marks a stage as failed with error message
func (m *Manifest) FailStage(stage types.PipelineStage, err error) {
	state := m.GetStageState(stage)
	now := time.Now()
	state.Status = types.StatusFailed
	state.CompletedAt = &now
	state.Error = err.Error()
	m.UpdatedAt = now
}

// SkipStage marks a stage as skipped
func (m *Manifest) SkipStage(stage types.PipelineStage) {
	m.GetStageState(stage).Status = types.StatusSkipped
}

// IsStageCompleted checks if a stage finished successfully
func (m *Manifest) IsStageCompleted(stage types.PipelineStage) bool {
	state := m.Stages[stage]
	return state != nil && state.Status == types.StatusCompleted
}

// StageStatus returns the recorded status, or pending when the stage never ran
func (m *Manifest) StageStatus(stage types.PipelineStage) types.StageStatus {
	if state := m.Stages[stage]; state != nil {
		return state.Status
	}
	return types.StatusPending
}

// Summary renders the stages that ran as "stage=status(duration)" pairs
func (m *Manifest) Summary() string {
	parts := make([]string, 0, len(m.Stages))
	for _, stage := range stageOrder {
		state := m.Stages[stage]
		if state == nil {
			continue
		}
		if d := state.Duration(); d > 0 {
			parts = append(parts, fmt.Sprintf("%s=%s(%s)", stage, state.Status, d.Round(time.Millisecond)))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", stage, state.Status))
		}
	}
	return strings.Join(parts, " ")
}
