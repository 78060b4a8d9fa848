package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/graph"
	"github.com/hupe1980/agentgraph/logging"
)

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	// CallTimeout bounds each individual tool invocation.
	CallTimeout time.Duration
	// Logger receives structured execution events. Defaults to NoOp.
	Logger logging.Logger
}

// Executor is the tool-execution node for one assistant. It runs every tool
// call of the last message sequentially and emits one tool-role reply per
// call, correlated by id.
//
// Failure contract: if any invocation fails (error or panic), partial
// results are discarded and every call in the triggering message receives
// an error-describing reply instead. The node never returns the failure
// itself, so the graph always advances to a message the next model turn can
// react to.
type Executor struct {
	agent    string
	registry map[string]Tool
	timeout  time.Duration
	logger   logging.Logger
}

// NewExecutor constructs an executor for the given assistant and tool set.
func NewExecutor(agent string, tools []Tool, optFns ...func(o *ExecutorOptions)) *Executor {
	opts := ExecutorOptions{
		CallTimeout: 30 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := make(map[string]Tool, len(tools))
	for _, t := range tools {
		registry[t.Name()] = t
	}
	return &Executor{agent: agent, registry: registry, timeout: opts.CallTimeout, logger: opts.Logger}
}

// Node returns the graph node function for this executor.
func (e *Executor) Node() graph.NodeFunc {
	return func(ctx context.Context, s *core.State) (core.Delta, error) {
		last, ok := s.LastMessage()
		if !ok || !last.HasToolCalls() {
			return core.Delta{}, fmt.Errorf("tool executor %s: last message has no tool calls", e.agent)
		}

		replies := make([]core.Message, 0, len(last.ToolCalls))
		for _, tc := range last.ToolCalls {
			start := time.Now()
			result, err := e.call(ctx, tc)
			e.logger.Info("tool.executed",
				"agent", e.agent,
				"tool", tc.Name,
				"call_id", tc.ID,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err != nil,
			)
			if err != nil {
				return fallbackDelta(last.ToolCalls, err), nil
			}
			replies = append(replies, core.NewToolMessage(tc.ID, encodeResult(result)))
		}
		return core.Delta{Messages: replies}, nil
	}
}

// call decodes arguments, looks up the tool and executes it with a bounded
// context. Panics are recovered into errors so a misbehaving tool cannot
// abort the session.
func (e *Executor) call(ctx context.Context, tc core.ToolCall) (result any, err error) {
	impl, ok := e.registry[tc.Name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", tc.Name)
	}

	args := map[string]any{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", tc.Name, r)
			e.logger.Error("tool.panic", "agent", e.agent, "tool", tc.Name, "recover", r)
		}
	}()
	return impl.Call(callCtx, args)
}

// fallbackDelta answers every outstanding call with an error description
// and a repair instruction, keeping the conversation recoverable.
func fallbackDelta(calls []core.ToolCall, err error) core.Delta {
	msgs := make([]core.Message, len(calls))
	for i, tc := range calls {
		msgs[i] = core.NewToolMessage(tc.ID, fmt.Sprintf("Error: %v\n please fix your mistakes.", err))
	}
	return core.Delta{Messages: msgs}
}

func encodeResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(raw)
}
