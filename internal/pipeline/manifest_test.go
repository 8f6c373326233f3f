package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

func TestManifest_StageLifecycle(t *testing.T) {
	m := NewManifest("req", types.GenerationRequest{})
	assert.Empty(t, m.CurrentStage)
	assert.Equal(t, types.StatusPending, m.StageStatus(types.StageValidate))

	m.StartStage(types.StageValidate)
	assert.Equal(t, types.StageValidate, m.CurrentStage)
	assert.Equal(t, types.StatusRunning, m.StageStatus(types.StageValidate))

	m.CompleteStage(types.StageValidate)
	assert.True(t, m.IsStageCompleted(types.StageValidate))

	m.StartStage(types.StageResolveTone)
	m.FailStage(types.StageResolveTone, errors.New("boom"))
	assert.Equal(t, "boom", m.Stages[types.StageResolveTone].Error)
	assert.False(t, m.IsStageCompleted(types.StageResolveTone))

	m.SkipStage(types.StageGenerateMusic)
	assert.Equal(t, types.StatusSkipped, m.StageStatus(types.StageGenerateMusic))
}

func TestManifest_Summary(t *testing.T) {
	m := NewManifest("req", types.GenerationRequest{})
	m.SkipStage(types.StageGenerateMusic)
	m.StartStage(types.StageValidate)
	m.CompleteStage(types.StageValidate)

	summary := m.Summary()
	assert.True(t, strings.HasPrefix(summary, "validate=completed"))
	assert.True(t, strings.HasSuffix(summary, "generate_music=skipped"))
}
