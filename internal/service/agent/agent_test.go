package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/AreteDriver/marketing-engine/internal/service/llm"
)

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\": 1}\n```  \n", `{"a": 1}`},
		{"no trailing newline", "```json\n{\"a\": 1}```", `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripJSONFences(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunJSONFirstTry(t *testing.T) {
	mock := llm.NewMock(`{"value": 42}`)
	b := base{llm: mock}

	var parsed map[string]int
	err := b.runJSON(context.Background(), "system", "user", func(raw string) error {
		return json.Unmarshal([]byte(raw), &parsed)
	})
	if err != nil {
		t.Fatalf("runJSON failed: %v", err)
	}
	if parsed["value"] != 42 {
		t.Errorf("got %v", parsed)
	}
	if len(mock.Calls) != 1 {
		t.Errorf("expected 1 LLM call, got %d", len(mock.Calls))
	}
}

func TestRunJSONRetriesOnce(t *testing.T) {
	mock := llm.NewMock("sorry, here you go:", `{"value": 7}`)
	b := base{llm: mock}

	var parsed map[string]int
	err := b.runJSON(context.Background(), "system", "user prompt", func(raw string) error {
		return json.Unmarshal([]byte(raw), &parsed)
	})
	if err != nil {
		t.Fatalf("runJSON failed: %v", err)
	}
	if parsed["value"] != 7 {
		t.Errorf("got %v", parsed)
	}
	if len(mock.Calls) != 2 {
		t.Fatalf("expected 2 LLM calls, got %d", len(mock.Calls))
	}
	if !strings.Contains(mock.Calls[1].UserPrompt, "not valid JSON") {
		t.Error("retry prompt missing the correction")
	}
	if !strings.HasPrefix(mock.Calls[1].UserPrompt, "user prompt") {
		t.Error("retry prompt should keep the original prompt")
	}
}

func TestRunJSONFailsAfterRetry(t *testing.T) {
	mock := llm.NewMock("still not json")
	b := base{llm: mock}

	err := b.runJSON(context.Background(), "system", "user", func(raw string) error {
		return json.Unmarshal([]byte(raw), &map[string]int{})
	})
	if err == nil {
		t.Fatal("expected error after two parse failures")
	}
	if len(mock.Calls) != 2 {
		t.Errorf("expected exactly 2 LLM calls, got %d", len(mock.Calls))
	}
	if !strings.Contains(err.Error(), "still not json") {
		t.Errorf("error should include a response snippet: %v", err)
	}
}
