package analysis

import (
	"context"
	"log/slog"
	"time"
)

// Pipeline turns one transcript into a MeetingAnalysis: prompt
// synthesis, a single inference call, tolerant extraction, then
// normalization. It holds no per-request state and is safe for
// concurrent use. Transcript and reply content are never logged.
type Pipeline struct {
	llm    Generator
	logger *slog.Logger
}

func NewPipeline(llm Generator, logger *slog.Logger) *Pipeline {
	return &Pipeline{llm: llm, logger: logger}
}

// Analyze runs the full pipeline for a single transcript. On failure it
// returns the first classified PipelineError without retrying; retry
// policy belongs to the caller.
func (p *Pipeline) Analyze(ctx context.Context, transcript string, cfg InferenceConfig) (*Result, error) {
	started := time.Now()

	prompt := BuildPrompt(transcript, cfg)

	p.logger.Info("running analysis",
		"model", cfg.Model,
		"transcript_len", len(transcript),
		"prompt_len", len(prompt.Text),
	)

	raw, err := p.llm.Generate(ctx, prompt.Text, GenerateOptions{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		NumCtx:      cfg.ContextWindow,
	})
	if err != nil {
		// Generators classify their own failures; anything unclassified
		// still surfaces as a backend failure.
		if KindOf(err) == "" {
			err = NewError(KindInferenceError, "backend call failed", "", err)
		}
		return nil, err
	}

	payload, err := ExtractPayload(raw)
	if err != nil {
		p.logger.Warn("reply extraction failed", "model", cfg.Model, "reply_len", len(raw))
		return nil, err
	}

	analysis := Normalize(payload)
	elapsed := time.Since(started)

	p.logger.Info("analysis complete",
		"model", cfg.Model,
		"elapsed_ms", elapsed.Milliseconds(),
		"participants", len(analysis.Participants),
		"decisions", len(analysis.Decisions),
		"action_items", len(analysis.ActionItems),
		"discussion_points", len(analysis.DiscussionPoints),
	)

	return &Result{Analysis: analysis, Model: cfg.Model, Elapsed: elapsed}, nil
}
