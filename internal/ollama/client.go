package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quorumhq/minuted/internal/analysis"
)

const defaultBaseURL = "http://localhost:11434"

// Client talks to a local Ollama server. It makes exactly one bounded
// call per operation and performs no retries; failures are classified
// into the pipeline error taxonomy.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetTestTransport points the client at a test server URL.
func (c *Client) SetTestTransport(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate sends one chat request and returns the reply text exactly as
// received, with only a trailing newline trimmed. Implements
// analysis.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, opts analysis.GenerateOptions) (string, error) {
	reqBody := chatRequest{
		Model:    opts.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   "json",
		Options: chatOptions{
			Temperature: opts.Temperature,
			TopP:        opts.TopP,
			NumCtx:      opts.NumCtx,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", analysis.NewError(analysis.KindInferenceError, "marshal request", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", analysis.NewError(analysis.KindInferenceError, "create request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", analysis.NewError(analysis.KindInferenceError, "read response", "", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return "", analysis.NewError(analysis.KindInferenceError,
			fmt.Sprintf("backend returned %d: %s", resp.StatusCode, msg), "", nil)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", analysis.NewError(analysis.KindInferenceError, "unmarshal response", "", err)
	}
	if apiResp.Message.Content == "" {
		return "", analysis.NewError(analysis.KindInferenceError, "empty reply from backend", "", nil)
	}

	return strings.TrimSuffix(apiResp.Message.Content, "\n"), nil
}

// ListModels returns the names of the models installed on the backend
// (GET /api/tags). Used by the health probe and the models endpoint.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, analysis.NewError(analysis.KindInferenceError,
			fmt.Sprintf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "", nil)
	}

	var tags struct {
		Models []struct {
			Name  string `json:"name"`
			Model string `json:"model"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// classifyTransport maps transport failures onto the pipeline taxonomy:
// a bounded wait that elapsed is a timeout, everything else means the
// backend is unreachable.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return analysis.NewError(analysis.KindInferenceTimeout, "backend did not reply in time", "", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return analysis.NewError(analysis.KindInferenceTimeout, "backend did not reply in time", "", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return analysis.NewError(analysis.KindInferenceTimeout, "backend did not reply in time", "", err)
	}
	return analysis.NewError(analysis.KindInferenceUnavailable, "backend unreachable", "", err)
}
