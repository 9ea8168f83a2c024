package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AreteDriver/marketing-engine/internal/config"
)

// Ollama talks to a local Ollama instance over its HTTP generate API.
type Ollama struct {
	model       string
	host        string
	temperature float64
	httpClient  *http.Client
}

func NewOllama(cfg config.LLMConfig) *Ollama {
	return &Ollama{
		model:       cfg.Model,
		host:        strings.TrimRight(cfg.Host, "/"),
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	System  string                 `json:"system"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := generateRequest{
		Model:  o.model,
		System: systemPrompt,
		Prompt: userPrompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": o.temperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode ollama request: %w", err)
	}

	url := o.host + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed (%s): %w", o.host, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(raw)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", fmt.Errorf("ollama returned HTTP %d: %s", resp.StatusCode, snippet)
	}

	var data generateResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("ollama returned invalid JSON: %w", err)
	}
	if data.Response == "" {
		return "", fmt.Errorf("ollama response missing 'response' field")
	}
	return data.Response, nil
}
