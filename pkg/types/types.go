package types

import (
	"strings"
)

// GenerationRequest is a single user ask handed to the pipeline
type GenerationRequest struct {
	Query      *string `json:"query,omitempty"`
	Letter     *string `json:"letter,omitempty"`
	LetterID   string  `json:"letter_id,omitempty"` // Resolved through the letter lookup when Letter is nil
	WantMusic  bool    `json:"want_music"`
	OmitLyrics bool    `json:"omit_lyrics"` // Instrumental track, no lyric call
}

// StringPtr is a helper for optional request fields
func StringPtr(s string) *string {
	return &s
}

// ToneSet is an ordered list of emotional tags steering generation
type ToneSet []string

// String joins the tags the way the story template expects them
func (t ToneSet) String() string {
	return strings.Join(t, ", ")
}

// IsEmpty reports whether no tone was resolved
func (t ToneSet) IsEmpty() bool {
	return len(t) == 0
}

// StoryArtifact is the authoritative narrative produced once per request
type StoryArtifact struct {
	Text string `json:"text"`
}

// WordCount counts whitespace separated words (target 300..500, not enforced)
func (s StoryArtifact) WordCount() int {
	return len(strings.Fields(s.Text))
}

// GenerationResult is returned to the caller once every requested artifact is ready
type GenerationResult struct {
	History  string `json:"history"`
	ImageURL string `json:"image_url"`
	MusicURL string `json:"music_url,omitempty"`
}

// Vendor identifies which asynchronous job API a handle belongs to
type Vendor string

const (
	VendorImage Vendor = "image"
	VendorMusic Vendor = "music"
)

// JobStatus is the normalized state of a submitted job
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal reports whether polling should stop
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobHandle tracks one submitted job for the lifetime of a request
type JobHandle struct {
	JobID  string    `json:"job_id"`
	Vendor Vendor    `json:"vendor"`
	Status JobStatus `json:"status"`
}

// FactStatus is the tagged outcome of a fact check
type FactStatus string

const (
	FactsVerified    FactStatus = "verified"
	FactsNeedsReview FactStatus = "needs_review"
)

// FactVerdict is returned by the fact checker; Details is set only for NeedsReview
type FactVerdict struct {
	Status  FactStatus `json:"status"`
	Details string     `json:"details,omitempty"`
}

// Verified reports whether every extracted fact passed
func (v FactVerdict) Verified() bool {
	return v.Status == FactsVerified
}

// PipelineStage represents a stage in the execution pipeline
type PipelineStage string

const (
	StageValidate      PipelineStage = "validate"
	StageResolveTone   PipelineStage = "resolve_tone"
	StageGenerateStory PipelineStage = "generate_story"
	StageSummarize     PipelineStage = "summarize"
	StageGenerateImage PipelineStage = "generate_image"
	StageGenerateMusic PipelineStage = "generate_music"
	StageComplete      PipelineStage = "complete"
)

// StageStatus represents the execution status of a stage
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
	StatusSkipped   StageStatus = "skipped"
)
