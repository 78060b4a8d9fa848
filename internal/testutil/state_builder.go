package testutil

import (
	"github.com/hupe1980/agentgraph/core"
)

// StateBuilder helps construct session states with fluent chaining for tests.
// Example:
//
//	s := NewStateBuilder().
//		User("build me a REST API").
//		AssistantCall("primary_assistant", "c1", "to_coder_assistant", `{"request":"go"}`).
//		Dialog("coder_assistant").
//		Build()
type StateBuilder struct {
	messages []core.Message
	dialog   []string
}

// NewStateBuilder creates an empty builder. Use chainable methods then call Build.
func NewStateBuilder() *StateBuilder {
	return &StateBuilder{}
}

// User appends a user message (chainable).
func (b *StateBuilder) User(text string) *StateBuilder {
	b.messages = append(b.messages, core.NewUserMessage(text))
	return b
}

// Assistant appends a text-only assistant message attributed to agent (chainable).
func (b *StateBuilder) Assistant(agent, text string) *StateBuilder {
	b.messages = append(b.messages, core.NewAssistantMessage(agent, text))
	return b
}

// AssistantCall appends an assistant message carrying a single tool call (chainable).
func (b *StateBuilder) AssistantCall(agent, callID, toolName, args string) *StateBuilder {
	b.messages = append(b.messages, core.Message{
		Role:      core.RoleAssistant,
		Name:      agent,
		ToolCalls: []core.ToolCall{{ID: callID, Name: toolName, Arguments: args}},
	})
	return b
}

// Message appends an arbitrary message (chainable).
func (b *StateBuilder) Message(msg core.Message) *StateBuilder {
	b.messages = append(b.messages, msg)
	return b
}

// ToolReply appends a tool message correlated to callID (chainable).
func (b *StateBuilder) ToolReply(callID, content string) *StateBuilder {
	b.messages = append(b.messages, core.NewToolMessage(callID, content))
	return b
}

// Dialog sets the dialog stack, bottom first (chainable).
func (b *StateBuilder) Dialog(agents ...string) *StateBuilder {
	b.dialog = agents
	return b
}

// Build returns a *core.State with the accumulated log and stack.
func (b *StateBuilder) Build() *core.State {
	s := core.NewState()
	s.Append(b.messages...)
	s.DialogState = append([]string{}, b.dialog...)
	return s
}
