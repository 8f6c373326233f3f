// Package pipeline sequences the generation stages for one request and maps every
// failure to a user error or a service-unavailable error.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zhe.chen/agent-letter-story/internal/agent"
	"github.com/zhe.chen/agent-letter-story/internal/jobs"
	"github.com/zhe.chen/agent-letter-story/internal/letters"
	"github.com/zhe.chen/agent-letter-story/internal/llm"
	"github.com/zhe.chen/agent-letter-story/internal/logger"
	"github.com/zhe.chen/agent-letter-story/internal/namer"
	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Agents is the set of LLM-backed steps the pipeline drives
type Agents interface {
	IsOnTopic(ctx context.Context, query string) (bool, error)
	ResolveTone(ctx context.Context, query, letter *string) (agent.ToneResolution, error)
	WriteStory(ctx context.Context, tones types.ToneSet, query, letter *string) (types.StoryArtifact, error)
	Summarize(ctx context.Context, story string) (string, error)
	WriteLyrics(ctx context.Context, story string, tones types.ToneSet) (string, error)
	CheckFacts(ctx context.Context, story string) (types.FactVerdict, error)
}

// AgentFactory builds a fresh agent set for each request
type AgentFactory func() Agents

// NewAgentFactory returns a factory that wraps provider in a per-request client
func NewAgentFactory(provider llm.Provider, sampling llm.Sampling) AgentFactory {
	return func() Agents {
		return agent.New(llm.NewClient(provider, sampling))
	}
}

// Deps are the collaborators of a Pipeline. Letters and Music may be nil when the
// deployment does not use them.
type Deps struct {
	Agents    AgentFactory
	Images    jobs.ImageGenerator
	Music     jobs.MusicGenerator
	Letters   letters.Source
	Namer     namer.Namer
	MusicTags func(types.ToneSet) string
}

// Pipeline orchestrates the execution of all stages
type Pipeline struct {
	deps        Deps
	timeout     time.Duration
	imageSuffix string
}

// NewPipeline creates a new pipeline executor
func NewPipeline(cfg types.PipelineConfig, deps Deps) *Pipeline {
	if deps.Namer == nil {
		deps.Namer = namer.Default()
	}
	if deps.MusicTags == nil {
		deps.MusicTags = func(tones types.ToneSet) string {
			if tones.IsEmpty() {
				return types.DefaultMusicTags
			}
			return types.DefaultMusicTags + ", " + tones.String()
		}
	}
	suffix := cfg.ImageSuffix
	if suffix == "" {
		suffix = types.DefaultImageSuffix
	}

	return &Pipeline{
		deps:        deps,
		timeout:     cfg.Timeout,
		imageSuffix: suffix,
	}
}

// run carries the per-request state between stages
type run struct {
	agents   Agents
	manifest *Manifest
	query    *string
	letter   *string
	tones    types.ToneSet
	story    types.StoryArtifact
	prompt   string
	result   types.GenerationResult
}

// Execute runs one request end to end. Either every requested artifact is returned
// or an error is, never a partial result.
func (p *Pipeline) Execute(ctx context.Context, req types.GenerationRequest, requestID string) (*types.GenerationResult, error) {
	result, _, err := p.ExecuteTraced(ctx, req, requestID)
	return result, err
}

// ExecuteTraced is Execute that also returns the request's stage manifest
func (p *Pipeline) ExecuteTraced(ctx context.Context, req types.GenerationRequest, requestID string) (*types.GenerationResult, *Manifest, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	manifest := NewManifest(requestID, req)
	r := &run{manifest: manifest, query: req.Query, letter: req.Letter}

	steps := []struct {
		stage types.PipelineStage
		skip  bool
		fn    func(context.Context, *run) error
	}{
		{types.StageValidate, false, func(ctx context.Context, r *run) error { return p.validate(ctx, r, req) }},
		{types.StageResolveTone, false, p.resolveTone},
		{types.StageGenerateStory, false, p.generateStory},
		{types.StageSummarize, false, p.summarize},
		{types.StageGenerateImage, false, p.generateImage},
		{types.StageGenerateMusic, !req.WantMusic, func(ctx context.Context, r *run) error { return p.generateMusic(ctx, r, req.OmitLyrics) }},
	}

	for _, step := range steps {
		if step.skip {
			manifest.SkipStage(step.stage)
			continue
		}

		manifest.StartStage(step.stage)
		if err := step.fn(ctx, r); err != nil {
			err = p.classify(ctx, err)
			manifest.FailStage(step.stage, err)
			p.report(manifest, step.stage, err)
			return nil, manifest, err
		}
		manifest.CompleteStage(step.stage)
	}

	manifest.CurrentStage = types.StageComplete
	manifest.Result = &r.result
	logger.Info("Pipeline completed", logger.Fields{
		"request_id": requestID,
		"stages":     manifest.Summary(),
		"words":      r.story.WordCount(),
	})
	return &r.result, manifest, nil
}

// validate rejects requests before any generation runs
func (p *Pipeline) validate(ctx context.Context, r *run, req types.GenerationRequest) error {
	if r.letter == nil && req.LetterID != "" {
		if p.deps.Letters == nil {
			return types.NewUserError(types.MsgLetterNotFound)
		}
		text, err := p.deps.Letters.Letter(ctx, req.LetterID)
		if err != nil {
			return err
		}
		r.letter = &text
	}

	if r.query == nil && r.letter == nil {
		return types.NewUserError(types.MsgEmptyRequest)
	}

	r.agents = p.deps.Agents()
	if r.query == nil {
		return nil
	}

	onTopic, err := r.agents.IsOnTopic(ctx, *r.query)
	if err != nil {
		return err
	}
	if !onTopic {
		log.Printf("[Pipeline] %s: query rejected as off-topic", r.manifest.RequestID)
		return types.NewUserError(types.MsgOffTopic)
	}
	return nil
}

func (p *Pipeline) resolveTone(ctx context.Context, r *run) error {
	res, err := r.agents.ResolveTone(ctx, r.query, r.letter)
	if err != nil {
		return err
	}
	r.tones = res.Tones
	r.manifest.ToneSource = string(res.Source)
	r.manifest.Tones = res.Tones
	return nil
}

func (p *Pipeline) generateStory(ctx context.Context, r *run) error {
	story, err := r.agents.WriteStory(ctx, r.tones, r.query, r.letter)
	if err != nil {
		return err
	}
	r.story = story
	r.result.History = story.Text
	return nil
}

func (p *Pipeline) summarize(ctx context.Context, r *run) error {
	summary, err := r.agents.Summarize(ctx, r.story.Text)
	if err != nil {
		return err
	}
	r.prompt = summary + p.imageSuffix
	return nil
}

func (p *Pipeline) generateImage(ctx context.Context, r *run) error {
	if p.deps.Images == nil {
		return types.NewUnavailable(types.MsgImageNotReady, nil)
	}
	refs, err := p.deps.Images.Generate(ctx, r.prompt)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return types.NewUnavailable(types.MsgImageNotReady, nil)
	}
	r.result.ImageURL = refs[0]
	return nil
}

func (p *Pipeline) generateMusic(ctx context.Context, r *run, omitLyrics bool) error {
	if p.deps.Music == nil {
		return types.NewUnavailable(types.MsgMusicFailed, nil)
	}

	song := jobs.MusicRequest{
		Title:        p.deps.Namer.Title(ctx, r.story.Text),
		Tags:         p.deps.MusicTags(r.tones),
		Instrumental: omitLyrics,
	}
	if !omitLyrics {
		lyrics, err := r.agents.WriteLyrics(ctx, r.story.Text, r.tones)
		if err != nil {
			return err
		}
		song.Lyrics = lyrics
	}

	refs, err := p.deps.Music.Generate(ctx, song)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return types.NewUnavailable(types.MsgMusicFailed, nil)
	}
	r.result.MusicURL = refs[0]
	return nil
}

// CheckFacts grades the historical facts of an already generated story
func (p *Pipeline) CheckFacts(ctx context.Context, story string) (types.FactVerdict, error) {
	if story == "" {
		return types.FactVerdict{}, types.NewUserError(types.MsgEmptyRequest)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	verdict, err := p.deps.Agents().CheckFacts(ctx, story)
	if err != nil {
		return types.FactVerdict{}, p.classify(ctx, err)
	}
	return verdict, nil
}

// classify turns a spent deadline into "timed out" whatever stage message wraps it,
// keeps other taxonomy errors and maps anything else to a generic unavailable error.
// A user error stands even when the deadline ran out after it was decided.
func (p *Pipeline) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && !types.IsUserError(err) {
		if types.MessageOf(err) == types.MsgTimedOut {
			return err
		}
		return types.NewUnavailable(types.MsgTimedOut, err)
	}
	if types.KindOf(err) != 0 {
		return err
	}
	return types.NewUnavailable(types.MsgTryAgainLater, err)
}

func (p *Pipeline) report(m *Manifest, stage types.PipelineStage, err error) {
	fields := logger.Fields{
		"request_id": m.RequestID,
		"stage":      string(stage),
		"stages":     m.Summary(),
	}
	if types.IsUserError(err) {
		logger.Warn("Pipeline rejected request: "+types.MessageOf(err), fields)
		return
	}
	logger.Error("Pipeline stage failed", err, fields)
}
