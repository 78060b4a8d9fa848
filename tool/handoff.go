package tool

import "context"

// Handoff and escalate tool names. These are signal tools: the routing
// layer intercepts them before execution, so their Call methods only return
// an acknowledgement for completeness.
const (
	// ToArchitectAssistant transfers work to the project-structure assistant.
	ToArchitectAssistant = "to_architect_assistant"
	// ToCoderAssistant transfers work to the code-writing assistant.
	ToCoderAssistant = "to_coder_assistant"
	// ToTesterAssistant transfers work to the test-writing assistant.
	ToTesterAssistant = "to_tester_assistant"
	// CompleteOrEscalateName marks the current delegated task as completed
	// and/or escalates control back to the primary assistant.
	CompleteOrEscalateName = "complete_or_escalate"
)

// Handoff is a signal tool transferring control to a specialized assistant.
// The coordinator router maps its name to the matching entry node.
type Handoff struct {
	name        string
	description string
	target      string
}

// NewHandoff constructs a handoff signal tool. target is the specialized
// assistant id pushed onto the dialog stack when the handoff fires.
func NewHandoff(name, description, target string) *Handoff {
	return &Handoff{name: name, description: description, target: target}
}

// Name returns the handoff tool name.
func (h *Handoff) Name() string { return h.name }

// Description returns the description shown to the model.
func (h *Handoff) Description() string { return h.description }

// Target returns the specialized assistant this handoff delegates to.
func (h *Handoff) Target() string { return h.target }

// Parameters returns the handoff argument schema.
func (h *Handoff) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"request": map[string]any{
				"type":        "string",
				"description": "Any necessary followup questions the specialized assistant should clarify before proceeding.",
			},
		},
		"required": []string{"request"},
	}
}

// Call acknowledges the handoff. The router intercepts handoff calls before
// the executor runs, so this is only reachable through direct use.
func (h *Handoff) Call(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{"handoff": h.target}, nil
}

// CompleteOrEscalate is the signal tool a specialized assistant uses to
// mark its task finished or out of scope and return control to the primary
// assistant, which can re-route based on the user's needs.
type CompleteOrEscalate struct{}

// NewCompleteOrEscalate constructs the escalate signal tool.
func NewCompleteOrEscalate() *CompleteOrEscalate { return &CompleteOrEscalate{} }

// Name returns the escalate tool name.
func (c *CompleteOrEscalate) Name() string { return CompleteOrEscalateName }

// Description returns the description shown to the model.
func (c *CompleteOrEscalate) Description() string {
	return "Mark the current task as completed and/or escalate control of the dialog to the primary assistant, " +
		"who can re-route the dialog based on the user's needs."
}

// Parameters returns the escalate argument schema.
func (c *CompleteOrEscalate) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cancel": map[string]any{
				"type":        "boolean",
				"description": "Whether the delegated task is being abandoned.",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Why control is being returned, e.g. the task is complete or out of scope.",
			},
		},
		"required": []string{"reason"},
	}
}

// Call acknowledges the escalation. The specialist router intercepts
// escalate calls before the executor runs.
func (c *CompleteOrEscalate) Call(_ context.Context, args map[string]any) (any, error) {
	return map[string]any{"escalated": true}, nil
}
