package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/graph"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
)

// retryDirective is the synthetic steering message appended to the working
// copy of the history when the model returns neither text nor tool calls.
// It is never persisted.
const retryDirective = "Respond with a real output."

// InvokerOptions configures an Invoker.
type InvokerOptions struct {
	// Instructions is the system prompt bound to this assistant.
	Instructions string
	// Tools is the tool schema set exposed to the model.
	Tools []model.ToolDefinition
	// MaxEmptyRetries bounds re-invocations after an empty result before
	// the turn fails with ErrRetryExhausted.
	MaxEmptyRetries int
	// CallTimeout bounds each individual model call.
	CallTimeout time.Duration
	// Logger receives structured invocation events. Defaults to NoOp.
	Logger logging.Logger
}

// Invoker is the model-invocation node for one assistant. Each execution
// produces exactly one new message guaranteed to carry non-empty text or at
// least one tool call.
//
// Empty results (no text, no tool calls) are retried against a working copy
// of the history extended with a synthetic user directive; only the finally
// accepted message reaches the persisted log.
type Invoker struct {
	name            string
	llm             model.Model
	instructions    string
	tools           []model.ToolDefinition
	maxEmptyRetries int
	callTimeout     time.Duration
	logger          logging.Logger
}

// NewInvoker creates an invocation node for the named assistant.
func NewInvoker(name string, llm model.Model, optFns ...func(o *InvokerOptions)) *Invoker {
	opts := InvokerOptions{
		MaxEmptyRetries: 3,
		CallTimeout:     120 * time.Second,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Invoker{
		name:            name,
		llm:             llm,
		instructions:    opts.Instructions,
		tools:           opts.Tools,
		maxEmptyRetries: opts.MaxEmptyRetries,
		callTimeout:     opts.CallTimeout,
		logger:          opts.Logger,
	}
}

// Name returns the assistant identifier (also its graph node name).
func (a *Invoker) Name() string { return a.name }

// Node returns the graph node function for this assistant.
func (a *Invoker) Node() graph.NodeFunc {
	return func(ctx context.Context, s *core.State) (core.Delta, error) {
		working := make([]core.Message, len(s.Messages))
		copy(working, s.Messages)

		for attempt := 0; attempt <= a.maxEmptyRetries; attempt++ {
			msg, err := a.generate(ctx, working)
			if err != nil {
				return core.Delta{}, fmt.Errorf("agent %s: %w", a.name, err)
			}

			if msg.HasToolCalls() || msg.HasText() {
				a.logger.Info("agent.turn",
					"agent", a.name,
					"model", a.llm.Info().Name,
					"attempts", attempt+1,
					"tool_calls", len(msg.ToolCalls),
				)
				return core.Delta{Messages: []core.Message{msg}}, nil
			}

			a.logger.Warn("agent.empty_output", "agent", a.name, "attempt", attempt+1)
			working = append(working, core.NewUserMessage(retryDirective))
		}

		return core.Delta{}, fmt.Errorf("agent %s: %w", a.name, core.ErrRetryExhausted)
	}
}

func (a *Invoker) generate(ctx context.Context, history []core.Message) (core.Message, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.llm.Generate(callCtx, model.Request{
		Instructions: a.instructions,
		Messages:     history,
		Tools:        a.tools,
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("model call failed: %w", err)
	}
	a.logger.Debug("agent.model_call",
		"agent", a.name,
		"duration_ms", time.Since(start).Milliseconds(),
		"finish_reason", resp.FinishReason,
	)

	msg := resp.Message
	msg.Role = core.RoleAssistant
	msg.Name = a.name
	return msg, nil
}
