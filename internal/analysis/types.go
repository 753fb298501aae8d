package analysis

import (
	"context"
	"time"
)

// InferenceConfig is supplied by the caller per request. The core never
// reads configuration from the environment itself.
type InferenceConfig struct {
	Model         string
	Temperature   float64
	TopP          float64
	ContextWindow int // context window size in tokens
}

// AnalysisPrompt pairs the rendered instruction text with the
// configuration it was built against. Created once per request, never
// mutated.
type AnalysisPrompt struct {
	Text   string
	Config InferenceConfig
}

// ActionItem is a single task extracted from the transcript. Owner and
// DueDate are nil when the model did not state them, so consumers can
// tell "missing" from "empty".
type ActionItem struct {
	Description string  `json:"description"`
	Owner       *string `json:"owner,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// MeetingAnalysis is the canonical result shape. Every list field is
// always non-nil (possibly empty) and Summary is always non-empty.
type MeetingAnalysis struct {
	Summary          string       `json:"summary"`
	Participants     []string     `json:"participants"`
	Decisions        []string     `json:"decisions"`
	ActionItems      []ActionItem `json:"actionItems"`
	DiscussionPoints []string     `json:"discussionPoints"`
}

// Result is a successful pipeline run with its timing context.
type Result struct {
	Analysis MeetingAnalysis
	Model    string
	Elapsed  time.Duration
}

// GenerateOptions are the sampling settings forwarded to the inference
// backend on a single call.
type GenerateOptions struct {
	Model       string
	Temperature float64
	TopP        float64
	NumCtx      int
}

// Generator is the external text-generation capability. Implementations
// make exactly one bounded outbound call per Generate and classify their
// own failures into the pipeline error taxonomy.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
