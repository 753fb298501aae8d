package analysis

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractPayload_PlainJSON(t *testing.T) {
	payload, err := ExtractPayload(`{"summary": "short meeting", "decisions": ["ship it"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["summary"] != "short meeting" {
		t.Errorf("expected summary field, got %v", payload["summary"])
	}
}

func TestExtractPayload_FencedBlockWithProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n" +
		"```json\n" +
		`{"summary": "team synced on v2", "participants": ["Alice", "Bob"]}` + "\n" +
		"```\n" +
		"Let me know if you need anything else."

	payload, err := ExtractPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["summary"] != "team synced on v2" {
		t.Errorf("expected summary from fenced block, got %v", payload["summary"])
	}
	participants, ok := payload["participants"].([]any)
	if !ok || len(participants) != 2 {
		t.Errorf("expected 2 participants, got %v", payload["participants"])
	}
}

func TestExtractPayload_WholeReplyFenced(t *testing.T) {
	raw := "```json\n{\"summary\": \"fenced\"}\n```"

	payload, err := ExtractPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["summary"] != "fenced" {
		t.Errorf("expected summary fenced, got %v", payload["summary"])
	}
}

func TestExtractPayload_BracesInsideStrings(t *testing.T) {
	raw := `{"summary": "watch the {braces} and \"quotes\" here", "decisions": []}`

	payload, err := ExtractPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `watch the {braces} and "quotes" here`
	if payload["summary"] != want {
		t.Errorf("expected %q, got %v", want, payload["summary"])
	}
}

func TestExtractPayload_FirstOfMultipleBlocks(t *testing.T) {
	raw := `{"summary": "first"} {"summary": "second"}`

	payload, err := ExtractPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["summary"] != "first" {
		t.Errorf("expected first block to win, got %v", payload["summary"])
	}
}

func TestExtractPayload_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unbalanced braces", `{"summary": "truncated`},
		{"no braces", "sorry, I cannot analyze this transcript"},
		{"empty reply", ""},
		{"binary garbage", "\x00\x01\x02\x7f\xff{"},
		{"balanced but invalid json", "{not: valid, json}"},
		{"only closing brace", "}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractPayload(tt.raw)
			if err == nil {
				t.Fatal("expected MalformedResponse error")
			}
			var pe *PipelineError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PipelineError, got %T", err)
			}
			if pe.Kind != KindMalformedResponse {
				t.Errorf("expected kind %s, got %s", KindMalformedResponse, pe.Kind)
			}
			if pe.Raw != tt.raw {
				t.Errorf("expected original reply preserved in error, got %q", pe.Raw)
			}
		})
	}
}

func TestExtractPayload_DeeplyNested(t *testing.T) {
	depth := 200
	raw := strings.Repeat(`{"a":`, depth) + "1" + strings.Repeat("}", depth)

	payload, err := ExtractPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error on deeply nested input: %v", err)
	}
	if payload == nil {
		t.Error("expected a parsed payload")
	}
}

func TestFirstBalancedBlock_IgnoresProseQuotes(t *testing.T) {
	raw := `The model said "something" before emitting {"summary": "ok"}`

	block, ok := firstBalancedBlock(raw)
	if !ok {
		t.Fatal("expected a balanced block")
	}
	if block != `{"summary": "ok"}` {
		t.Errorf("unexpected block %q", block)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"json label", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
