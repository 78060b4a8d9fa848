package model

import (
	"context"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the
// model. Parameters is a JSON Schema object (minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input for one invocation: the
// system instructions, the ordered message history and the bound tool
// schema set.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []core.Message   `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model turn.
type Response struct {
	Message      core.Message `json:"message"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive one agent turn. Generate
// blocks until the provider returns a complete message; cancellation and
// timeouts arrive via ctx.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel replays a fixed sequence of responses and records the
// requests it received. Useful for tests and deterministic demos.
type ScriptedModel struct {
	mu        sync.Mutex
	info      Info
	responses []Response
	requests  []Request
}

// NewScriptedModel constructs a ScriptedModel that answers with the given
// responses in order, repeating the last one once exhausted.
func NewScriptedModel(name string, responses ...Response) *ScriptedModel {
	return &ScriptedModel{
		info:      Info{Name: name, Provider: "scripted", SupportsTools: true},
		responses: responses,
	}
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	idx := len(m.requests) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	resp := m.responses[idx]
	return &resp, nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

// Calls reports how many times Generate was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Request returns the i-th recorded request.
func (m *ScriptedModel) Request(i int) Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[i]
}
