package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for analysis lifecycle events. Payloads carry counts and
// timing only, never transcript or result content.
const (
	SubjectAnalysisCompleted = "minuted.analysis.completed"
	SubjectAnalysisFailed    = "minuted.analysis.failed"
)

// AnalysisCompleted is published after a successful pipeline run.
type AnalysisCompleted struct {
	RequestID        string `json:"request_id"`
	Model            string `json:"model"`
	ElapsedMs        int64  `json:"elapsed_ms"`
	Participants     int    `json:"participants"`
	Decisions        int    `json:"decisions"`
	ActionItems      int    `json:"action_items"`
	DiscussionPoints int    `json:"discussion_points"`
}

// AnalysisFailed is published when a pipeline run returns a classified
// error.
type AnalysisFailed struct {
	RequestID string `json:"request_id"`
	Model     string `json:"model"`
	ErrorKind string `json:"error_kind"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewPublisher(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Publisher{conn: nc, logger: logger}, nil
}

func (p *Publisher) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
