// Package tool implements the function calling subsystem: the Tool
// interface, a generic adapter exposing plain Go functions with schema
// validated arguments, the handoff/escalate signal tools consumed by the
// routing layer, and the executor node that converts tool failures into
// recoverable conversation events.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgraph/model"
)

// Tool defines a structured capability an assistant can invoke.
//
// Implementations should provide clear names and descriptions (shown to the
// model), define a proper JSON schema for parameters, and be safe for
// concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description provided to the model.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with already-decoded arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Definitions converts tools into the declarative form exposed to models.
func Definitions(tools []Tool) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		}
	}
	return defs
}

// Names returns the tool names in registration order.
func Names(tools []Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return names
}
