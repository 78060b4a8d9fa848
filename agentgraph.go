// Package agentgraph provides a high-level façade over the graph engine and
// the agent, tool and checkpoint building blocks, assembling the standard
// multi-assistant topology: a primary assistant that answers directly or
// delegates to specialized assistants (architect, coder, tester) via handoff
// tools, with a persisted dialog stack deciding where each turn resumes.
// Most applications interact with this package by:
//  1. Creating a System via New() with a model (optionally per-assistant
//     models, tools and durable checkpointing)
//  2. Sending user turns with Send() under a stable session id
//
// All defaults are safe for local development and testing; production
// deployments typically supply a SQLite checkpoint store and a structured
// logger.
package agentgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentgraph/agent"
	"github.com/hupe1980/agentgraph/checkpoint"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/graph"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
	"github.com/hupe1980/agentgraph/tool"
)

// Assistant identifiers. They double as graph node names.
const (
	// CoordinatorName is the primary assistant owning the conversation.
	CoordinatorName = "primary_assistant"
	// ArchitectName designs package and module structure.
	ArchitectName = "architect_assistant"
	// CoderName writes implementation code.
	CoderName = "coder_assistant"
	// TesterName writes and reviews tests.
	TesterName = "tester_assistant"
)

// specialists enumerates the delegated assistants in handoff order.
var specialists = []string{ArchitectName, CoderName, TesterName}

// handoffNames maps each specialist to its handoff tool name.
var handoffNames = map[string]string{
	ArchitectName: tool.ToArchitectAssistant,
	CoderName:     tool.ToCoderAssistant,
	TesterName:    tool.ToTesterAssistant,
}

// Options configures a System.
type Options struct {
	// Store persists session state. Defaults to an in-memory store.
	Store checkpoint.Store

	// Logger receives structured engine, agent and tool events.
	// Defaults to NoOp.
	Logger logging.Logger

	// Models maps assistant ids to their model, overriding the default
	// model passed to New for the listed assistants.
	Models map[string]model.Model

	// Tools maps assistant ids to their directly executable tools.
	// Handoff and escalate signal tools are wired automatically.
	Tools map[string][]tool.Tool

	// Instructions maps assistant ids to system prompts, overriding the
	// built-in ones.
	Instructions map[string]string

	// MaxEmptyRetries bounds empty-output model retries per assistant turn.
	MaxEmptyRetries int

	// MaxSteps bounds node executions per conversational turn.
	MaxSteps int

	// ModelTimeout bounds each individual model call.
	ModelTimeout time.Duration

	// ToolTimeout bounds each individual tool invocation.
	ToolTimeout time.Duration
}

// System is a compiled multi-assistant conversation router bound to a
// checkpoint store. It is safe for concurrent use; turns on the same session
// are serialized.
type System struct {
	graph  *graph.Graph
	logger logging.Logger
}

// New assembles and compiles the standard topology. llm is the default model
// for every assistant; override per assistant via Options.Models.
func New(llm model.Model, optFns ...func(o *Options)) (*System, error) {
	opts := Options{
		Store:           checkpoint.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
		MaxEmptyRetries: 3,
		MaxSteps:        50,
		ModelTimeout:    120 * time.Second,
		ToolTimeout:     30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if llm == nil && len(opts.Models) == 0 {
		return nil, fmt.Errorf("agentgraph: no model configured")
	}

	modelFor := func(name string) model.Model {
		if m, ok := opts.Models[name]; ok && m != nil {
			return m
		}
		return llm
	}
	for _, name := range append([]string{CoordinatorName}, specialists...) {
		if modelFor(name) == nil {
			return nil, fmt.Errorf("agentgraph: no model configured for %s", name)
		}
	}
	instructionsFor := func(name string) string {
		if s, ok := opts.Instructions[name]; ok && s != "" {
			return s
		}
		return defaultInstructions[name]
	}

	b := graph.NewBuilder()

	// Coordinator: handoff signal tools plus its own executable tools.
	handoffs := make([]tool.Tool, 0, len(specialists))
	handoffTargets := make(map[string]string, len(specialists))
	for _, name := range specialists {
		h := tool.NewHandoff(handoffNames[name],
			fmt.Sprintf("Transfer work to the %s, %s", agent.FormatLabel(name), handoffPurpose[name]),
			name)
		handoffs = append(handoffs, h)
		handoffTargets[h.Name()] = h.Target()
	}

	coordTools := opts.Tools[CoordinatorName]
	coordInvoker := agent.NewInvoker(CoordinatorName, modelFor(CoordinatorName), func(o *agent.InvokerOptions) {
		o.Instructions = instructionsFor(CoordinatorName)
		o.Tools = tool.Definitions(append(append([]tool.Tool{}, coordTools...), handoffs...))
		o.MaxEmptyRetries = opts.MaxEmptyRetries
		o.CallTimeout = opts.ModelTimeout
		o.Logger = opts.Logger
	})

	coordTargets := []string{agent.ToolsNodeName(CoordinatorName), graph.End}
	for _, name := range specialists {
		coordTargets = append(coordTargets, agent.EntryNodeName(name))
	}

	b.AddNode(CoordinatorName, coordInvoker.Node()).
		AddConditionalEdges(CoordinatorName,
			agent.NewCoordinatorRouter(CoordinatorName, handoffTargets, tool.Names(coordTools)),
			coordTargets).
		AddNode(agent.ToolsNodeName(CoordinatorName), newExecutorNode(CoordinatorName, coordTools, &opts)).
		AddEdge(agent.ToolsNodeName(CoordinatorName), CoordinatorName)

	// Specialists: entry transition, invoker, tool execution, shared exit.
	for _, name := range specialists {
		tools := opts.Tools[name]
		inv := agent.NewInvoker(name, modelFor(name), func(o *agent.InvokerOptions) {
			o.Instructions = instructionsFor(name)
			o.Tools = tool.Definitions(append(append([]tool.Tool{}, tools...), tool.NewCompleteOrEscalate()))
			o.MaxEmptyRetries = opts.MaxEmptyRetries
			o.CallTimeout = opts.ModelTimeout
			o.Logger = opts.Logger
		})

		b.AddNode(agent.EntryNodeName(name), agent.NewEntryNode(agent.FormatLabel(name), name)).
			AddEdge(agent.EntryNodeName(name), name).
			AddNode(name, inv.Node()).
			AddConditionalEdges(name,
				agent.NewSpecialistRouter(name, tool.Names(tools)),
				[]string{agent.ToolsNodeName(name), agent.LeaveSkillNode, graph.End}).
			AddNode(agent.ToolsNodeName(name), newExecutorNode(name, tools, &opts)).
			AddEdge(agent.ToolsNodeName(name), name)
	}

	b.AddNode(agent.LeaveSkillNode, agent.NewLeaveSkillNode()).
		AddEdge(agent.LeaveSkillNode, CoordinatorName)

	startTargets := append([]string{CoordinatorName}, specialists...)
	b.SetStartRouter(agent.NewStartRouter(CoordinatorName), startTargets)

	g, err := b.Compile(opts.Store, func(o *graph.Options) {
		o.MaxSteps = opts.MaxSteps
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	return &System{graph: g, logger: opts.Logger}, nil
}

func newExecutorNode(name string, tools []tool.Tool, opts *Options) graph.NodeFunc {
	return tool.NewExecutor(name, tools, func(o *tool.ExecutorOptions) {
		o.CallTimeout = opts.ToolTimeout
		o.Logger = opts.Logger
	}).Node()
}

// Send runs one conversational turn for the session and returns the final
// assistant reply. An empty sessionID starts a throwaway single-turn session.
func (s *System) Send(ctx context.Context, sessionID, text string) (string, error) {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	last, err := s.graph.Invoke(ctx, sessionID, core.NewUserMessage(text))
	if err != nil {
		return "", err
	}
	return last.Content, nil
}

// State returns a snapshot of the persisted session state.
func (s *System) State(ctx context.Context, sessionID string) (*core.State, error) {
	return s.graph.State(ctx, sessionID)
}

// NewSessionID returns a fresh unique session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// handoffPurpose completes the generated handoff tool descriptions.
var handoffPurpose = map[string]string{
	ArchitectName: "whenever the user needs help designing the structure, packages or interfaces of a program.",
	CoderName:     "whenever the user needs help writing or modifying implementation code.",
	TesterName:    "whenever the user needs help writing, reviewing or fixing tests.",
}

// defaultInstructions holds the built-in system prompts.
var defaultInstructions = map[string]string{
	CoordinatorName: "You are a helpful software engineering assistant coordinating a small team of specialists. " +
		"Answer general questions yourself with your own tools. " +
		"When the user needs program structure designed, code written or tests authored, delegate the task " +
		"to the appropriate specialized assistant by invoking the corresponding tool. You are not able to " +
		"perform those tasks yourself. Only the specialized assistants are given permission to do this for the user. " +
		"The user is not aware of the different specialized assistants, so do not mention them; just quietly " +
		"delegate through function calls. Provide detailed information to the specialist, and always double-check " +
		"before concluding that a capability is unavailable.",

	ArchitectName: "You are a specialized assistant for designing software structure. " +
		"The primary assistant delegates work to you whenever the user needs help with the architecture of a " +
		"program: packages, modules, interfaces and their boundaries. Propose clear, minimal designs and explain " +
		"the responsibilities of each part. If the user changes their mind or needs help with something outside " +
		"your scope, escalate the dialog back to the main assistant. Do not waste the user's time. " +
		"Do not make up invalid tools or functions.",

	CoderName: "You are a specialized assistant for writing implementation code. " +
		"The primary assistant delegates work to you whenever the user needs code written or modified. " +
		"Write idiomatic, working code and explain only what needs explaining. If the user changes their mind or " +
		"needs help with something outside your scope, escalate the dialog back to the main assistant. " +
		"Do not waste the user's time. Do not make up invalid tools or functions.",

	TesterName: "You are a specialized assistant for writing and reviewing tests. " +
		"The primary assistant delegates work to you whenever the user needs tests authored, reviewed or fixed. " +
		"Prefer small, deterministic tests that document behavior. If the user changes their mind or needs help " +
		"with something outside your scope, escalate the dialog back to the main assistant. " +
		"Do not waste the user's time. Do not make up invalid tools or functions.",
}
