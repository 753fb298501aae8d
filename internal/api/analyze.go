package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/quorumhq/minuted/internal/analysis"
	"github.com/quorumhq/minuted/internal/events"
)

type analyzeRequest struct {
	Transcript  string   `json:"transcript" validate:"required"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP        *float64 `json:"top_p" validate:"omitempty,gt=0,lte=1"`
}

type analyzeResponse struct {
	Success   bool                     `json:"success"`
	Analysis  analysis.MeetingAnalysis `json:"analysis"`
	ModelUsed string                   `json:"model_used"`
	ElapsedMs int64                    `json:"elapsed_ms"`
	RequestID string                   `json:"request_id"`
}

type apiError struct {
	Error      string `json:"error"`
	Kind       string `json:"kind,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	RawSnippet string `json:"raw_snippet,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid JSON body", RequestID: requestID})
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "empty transcript", RequestID: requestID})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error(), RequestID: requestID})
		return
	}

	cfg := analysis.InferenceConfig{
		Model:         s.defaults.Model,
		Temperature:   s.defaults.Temperature,
		TopP:          s.defaults.TopP,
		ContextWindow: s.defaults.NumCtx,
	}
	if req.Model != "" {
		cfg.Model = req.Model
	}
	if req.Temperature != nil {
		cfg.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		cfg.TopP = *req.TopP
	}

	result, err := s.analyzeWithRetry(r.Context(), req.Transcript, cfg)
	if err != nil {
		s.logger.Error("analysis failed", "request_id", requestID, "model", cfg.Model, "error", err)
		s.announceFailure(requestID, cfg.Model, err)
		status, resp := errorFor(err)
		resp.RequestID = requestID
		writeJSON(w, status, resp)
		return
	}

	s.announceSuccess(requestID, result)

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:   true,
		Analysis:  result.Analysis,
		ModelUsed: result.Model,
		ElapsedMs: result.Elapsed.Milliseconds(),
		RequestID: requestID,
	})
}

// analyzeWithRetry retries unreachable-backend failures with
// exponential backoff. The core pipeline never retries; this is the
// caller-side recovery policy.
func (s *Server) analyzeWithRetry(ctx context.Context, transcript string, cfg analysis.InferenceConfig) (*analysis.Result, error) {
	var result *analysis.Result

	op := func() error {
		res, err := s.pipeline.Analyze(ctx, transcript, cfg)
		if err != nil {
			if analysis.KindOf(err) == analysis.KindInferenceUnavailable {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.defaults.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// errorFor maps a pipeline failure onto an HTTP status and response
// body. The raw reply snippet is bounded so error payloads stay small.
func errorFor(err error) (int, apiError) {
	var pe *analysis.PipelineError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError, apiError{Error: err.Error()}
	}

	resp := apiError{Error: pe.Message, Kind: string(pe.Kind)}
	if pe.Raw != "" {
		resp.RawSnippet = snippet(pe.Raw, 300)
	}

	switch pe.Kind {
	case analysis.KindInferenceUnavailable:
		resp.Suggestion = "make sure the inference backend is running (ollama serve)"
		return http.StatusServiceUnavailable, resp
	case analysis.KindInferenceTimeout:
		resp.Suggestion = "retry with a shorter transcript or a smaller model"
		return http.StatusGatewayTimeout, resp
	case analysis.KindMalformedResponse:
		resp.Suggestion = "try a different model"
		return http.StatusUnprocessableEntity, resp
	default:
		return http.StatusBadGateway, resp
	}
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Analysis events carry counts and timing only; transcript and result
// content never leave the request.
func (s *Server) announceSuccess(requestID string, result *analysis.Result) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(events.SubjectAnalysisCompleted, events.AnalysisCompleted{
		RequestID:        requestID,
		Model:            result.Model,
		ElapsedMs:        result.Elapsed.Milliseconds(),
		Participants:     len(result.Analysis.Participants),
		Decisions:        len(result.Analysis.Decisions),
		ActionItems:      len(result.Analysis.ActionItems),
		DiscussionPoints: len(result.Analysis.DiscussionPoints),
	})
	if err != nil {
		s.logger.Warn("failed to publish analysis event", "request_id", requestID, "error", err)
	}
}

func (s *Server) announceFailure(requestID, model string, analysisErr error) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(events.SubjectAnalysisFailed, events.AnalysisFailed{
		RequestID: requestID,
		Model:     model,
		ErrorKind: string(analysis.KindOf(analysisErr)),
	})
	if err != nil {
		s.logger.Warn("failed to publish analysis event", "request_id", requestID, "error", err)
	}
}
