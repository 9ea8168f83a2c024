// Package agent holds the LLM-backed content generation stages:
// research produces briefs, draft writes post content, format adapts a
// post to its target platform.
package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AreteDriver/marketing-engine/internal/service/llm"
)

const jsonCorrection = "Your response was not valid JSON. Please output only valid JSON."

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*\\n?")
	fenceClose = regexp.MustCompile("\\n?```\\s*$")
)

// StripJSONFences removes markdown code fences around LLM output,
// handling both ```json and bare ``` blocks.
func StripJSONFences(raw string) string {
	stripped := strings.TrimSpace(raw)
	stripped = fenceOpen.ReplaceAllString(stripped, "")
	stripped = fenceClose.ReplaceAllString(stripped, "")
	return strings.TrimSpace(stripped)
}

// base provides the shared generate-parse-retry loop. On a parse
// failure the LLM is asked once more with a correction appended; a
// second failure is an error.
type base struct {
	llm llm.Client
}

func (b *base) runJSON(ctx context.Context, systemPrompt, userPrompt string, parse func(string) error) error {
	raw, err := b.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return fmt.Errorf("llm generation failed: %w", err)
	}

	cleaned := StripJSONFences(raw)
	if parseErr := parse(cleaned); parseErr == nil {
		return nil
	}

	retryPrompt := userPrompt + "\n\n" + jsonCorrection
	rawRetry, err := b.llm.Generate(ctx, systemPrompt, retryPrompt)
	if err != nil {
		return fmt.Errorf("llm generation failed on retry: %w", err)
	}

	cleanedRetry := StripJSONFences(rawRetry)
	if parseErr := parse(cleanedRetry); parseErr != nil {
		snippet := cleanedRetry
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return fmt.Errorf("failed to parse LLM response as JSON after retry: %s", snippet)
	}
	return nil
}
