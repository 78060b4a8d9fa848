package agent

import (
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/graph"
	"github.com/hupe1980/agentgraph/tool"
)

// LeaveSkillNode is the shared exit-transition node name specialized
// assistants route to when they escalate.
const LeaveSkillNode = "leave_skill"

// EntryNodeName returns the entry-transition node name for an assistant.
func EntryNodeName(agent string) string { return "enter_" + agent }

// ToolsNodeName returns the generic tool-execution node name for an assistant.
func ToolsNodeName(agent string) string { return agent + "_tools" }

// NewCoordinatorRouter builds the routing function of the primary
// assistant. It is a pure function of the last message:
//
//   - no tool calls              -> End (the turn is a user-facing reply)
//   - first call is a handoff    -> the matching enter-<assistant> node
//   - first call is a known tool -> the coordinator's tool-execution node
//   - anything else              -> *core.RoutingError
//
// handoffs maps handoff tool names to target assistant ids; toolNames are
// the coordinator's directly executable tools.
func NewCoordinatorRouter(agentName string, handoffs map[string]string, toolNames []string) graph.Router {
	known := toolNameSet(toolNames)

	return func(s *core.State) (string, error) {
		last, ok := s.LastMessage()
		if !ok || !last.HasToolCalls() {
			return graph.End, nil
		}

		tc := last.ToolCalls[0]
		if target, ok := handoffs[tc.Name]; ok {
			return EntryNodeName(target), nil
		}
		if _, ok := known[tc.Name]; ok {
			return ToolsNodeName(agentName), nil
		}
		return "", &core.RoutingError{Agent: agentName, Tool: tc.Name}
	}
}

// NewSpecialistRouter builds the routing function of a specialized
// assistant:
//
//   - no tool calls                  -> End
//   - any call is complete_or_escalate -> the shared exit node
//   - first call is a known tool     -> the assistant's tool-execution node
//   - anything else                  -> *core.RoutingError
func NewSpecialistRouter(agentName string, toolNames []string) graph.Router {
	known := toolNameSet(toolNames)

	return func(s *core.State) (string, error) {
		last, ok := s.LastMessage()
		if !ok || !last.HasToolCalls() {
			return graph.End, nil
		}

		for _, tc := range last.ToolCalls {
			if tc.Name == tool.CompleteOrEscalateName {
				return LeaveSkillNode, nil
			}
		}

		tc := last.ToolCalls[0]
		if _, ok := known[tc.Name]; ok {
			return ToolsNodeName(agentName), nil
		}
		return "", &core.RoutingError{Agent: agentName, Tool: tc.Name}
	}
}

// NewStartRouter builds the session-start routing: a non-empty dialog stack
// resumes directly inside the delegated assistant, otherwise the turn
// begins at the coordinator.
func NewStartRouter(coordinator string) graph.Router {
	return func(s *core.State) (string, error) {
		if top := s.ActiveAgent(); top != "" {
			return top, nil
		}
		return coordinator, nil
	}
}

func toolNameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
