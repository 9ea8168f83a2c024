// Package llm provides the language model client used by the content
// generation agents.
package llm

import "context"

// Client generates free-form text from a system and user prompt. The
// agents only depend on the output being parseable JSON after one retry.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Mock cycles through predefined responses and records every call.
// Used in tests and dry-run mode.
type Mock struct {
	Responses []string
	Calls     []MockCall
	index     int
}

type MockCall struct {
	SystemPrompt string
	UserPrompt   string
}

func NewMock(responses ...string) *Mock {
	return &Mock{Responses: responses}
}

func (m *Mock) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls = append(m.Calls, MockCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	response := m.Responses[m.index%len(m.Responses)]
	m.index++
	return response, nil
}
