package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/graph"
	"github.com/hupe1980/agentgraph/tool"
)

const entryMessage = "The assistant is now the %[1]s. Reflect on the above conversation between the primary assistant and the user." +
	" The user's intent is unsatisfied. Use the provided tools to assist the user. Remember, you are the %[1]s," +
	" and the task is not complete until you have successfully invoked the appropriate tool." +
	" If the user changes their mind or needs help with other tasks, call the " + tool.CompleteOrEscalateName +
	" tool to let the primary assistant take control." +
	" Do not mention who you are - just act as the proxy for the assistant."

const resumeMessage = "Resuming dialog with the primary assistant. Please reflect on the past conversation and assist the user as needed."

// NewEntryNode builds the entry-transition handler for a specialized
// assistant. It pushes the assistant onto the dialog stack and answers the
// triggering handoff call with a framing message instructing the now-active
// assistant how to proceed without revealing the handoff mechanics.
func NewEntryNode(label, agentName string) graph.NodeFunc {
	framing := fmt.Sprintf(entryMessage, label)

	return func(_ context.Context, s *core.State) (core.Delta, error) {
		last, ok := s.LastMessage()
		if !ok {
			return core.Delta{}, fmt.Errorf("entry node %s: empty message log", agentName)
		}
		tc, ok := last.FirstToolCall()
		if !ok {
			return core.Delta{}, fmt.Errorf("entry node %s: triggering message has no tool call", agentName)
		}

		return core.Delta{
			Messages: []core.Message{core.NewToolMessage(tc.ID, framing)},
			Dialog:   core.DialogPush(agentName),
		}, nil
	}
}

// NewLeaveSkillNode builds the shared exit-transition handler. It pops the
// dialog stack and, when the triggering message carried tool calls,
// answers the escalate call with a hand-back message announcing the
// primary assistant's resumption of control.
//
// Only one escalate-class call per message is supported; with parallel
// calls the reply correlates to the first complete_or_escalate call (or
// the first call overall when none matches).
func NewLeaveSkillNode() graph.NodeFunc {
	return func(_ context.Context, s *core.State) (core.Delta, error) {
		delta := core.Delta{Dialog: core.DialogPop()}

		last, ok := s.LastMessage()
		if !ok || !last.HasToolCalls() {
			return delta, nil
		}

		tc := last.ToolCalls[0]
		for _, c := range last.ToolCalls {
			if c.Name == tool.CompleteOrEscalateName {
				tc = c
				break
			}
		}
		delta.Messages = []core.Message{core.NewToolMessage(tc.ID, resumeMessage)}
		return delta, nil
	}
}

// FormatLabel converts a snake_case assistant id into a human-friendly
// label, e.g. "coder_assistant" -> "Coder Assistant".
func FormatLabel(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
