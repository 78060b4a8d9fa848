package core

import "strings"

// Role identifies the author category of a message.
type Role string

const (
	// RoleUser marks messages authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by a model turn.
	RoleAssistant Role = "assistant"
	// RoleTool marks replies to a previously emitted tool call.
	RoleTool Role = "tool"
)

// ToolCall is a structured invocation request emitted by a model turn. The
// ID is opaque and unique within the emitting message; a later tool-role
// message answers it via Message.ToolCallID.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"` // serialized JSON payload
}

// Message is one conversational turn. Content and ToolCalls may both be
// empty only transiently inside the invoker retry loop; accepted messages
// always carry at least one of them.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"` // authoring agent, informational
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool-role replies
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant text message attributed to the
// given agent.
func NewAssistantMessage(author, text string) Message {
	return Message{Role: RoleAssistant, Name: author, Content: text}
}

// NewToolMessage creates a tool-role reply correlated to the tool call with
// the given id.
func NewToolMessage(callID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, Content: content}
}

// HasToolCalls reports whether the message carries at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// HasText reports whether the message carries non-whitespace textual content.
func (m Message) HasText() bool { return strings.TrimSpace(m.Content) != "" }

// FirstToolCall returns the first tool call, if any.
func (m Message) FirstToolCall() (ToolCall, bool) {
	if len(m.ToolCalls) == 0 {
		return ToolCall{}, false
	}
	return m.ToolCalls[0], true
}
