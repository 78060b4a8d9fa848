package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentgraph/checkpoint"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// End is the terminal marker. A router returning End halts the step
// sequence for the current turn.
const End = "__end__"

// NodeFunc executes one node against the current session state and returns
// the delta to merge. Nodes must not mutate the state directly.
type NodeFunc func(ctx context.Context, s *core.State) (core.Delta, error)

// Router is a pure function of session state (by convention, of its last
// message) selecting the next node name or End. Two calls with identical
// state must return identical targets.
type Router func(s *core.State) (string, error)

type conditionalEdge struct {
	router  Router
	targets map[string]struct{}
}

// Builder assembles a graph topology. All methods return the builder for
// chaining; structural errors are collected and reported by Compile.
type Builder struct {
	nodes        map[string]NodeFunc
	edges        map[string]string
	conditional  map[string]conditionalEdge
	startRouter  Router
	startTargets map[string]struct{}
	errs         []error
}

// NewBuilder creates an empty topology builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:       map[string]NodeFunc{},
		edges:       map[string]string{},
		conditional: map[string]conditionalEdge{},
	}
}

// AddNode registers a named node. Names must be unique and must not collide
// with the End marker.
func (b *Builder) AddNode(name string, fn NodeFunc) *Builder {
	if name == End || name == "" {
		b.errs = append(b.errs, fmt.Errorf("invalid node name %q", name))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate node %q", name))
		return b
	}
	if fn == nil {
		b.errs = append(b.errs, fmt.Errorf("node %q has nil func", name))
		return b
	}
	b.nodes[name] = fn
	return b
}

// AddEdge declares an unconditional edge from -> to.
func (b *Builder) AddEdge(from, to string) *Builder {
	if _, exists := b.edges[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("node %q already has an unconditional edge", from))
		return b
	}
	b.edges[from] = to
	return b
}

// AddConditionalEdges declares that after from executes, router selects the
// next node from the declared target list. Every value the router can
// return must appear in targets; Compile rejects targets that do not
// resolve to a declared node or End.
func (b *Builder) AddConditionalEdges(from string, router Router, targets []string) *Builder {
	if _, exists := b.conditional[from]; exists {
		b.errs = append(b.errs, fmt.Errorf("node %q already has conditional edges", from))
		return b
	}
	if router == nil {
		b.errs = append(b.errs, fmt.Errorf("nil router for node %q", from))
		return b
	}
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	b.conditional[from] = conditionalEdge{router: router, targets: set}
	return b
}

// SetStartRouter declares the session-start routing: before the first node
// of a turn executes, router inspects the restored state and picks the
// entry node (e.g. resuming directly inside a delegated assistant).
func (b *Builder) SetStartRouter(router Router, targets []string) *Builder {
	if router == nil {
		b.errs = append(b.errs, fmt.Errorf("nil start router"))
		return b
	}
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	b.startRouter = router
	b.startTargets = set
	return b
}

// Options configures a compiled graph.
type Options struct {
	// MaxSteps bounds node executions per turn, guarding against cycles
	// that never reach End.
	MaxSteps int
	// Logger receives structured step events. Defaults to NoOp.
	Logger logging.Logger
}

// Compile validates the topology and binds it to a checkpoint store.
// Validation failures are configuration errors: they are reported here,
// never at runtime.
func (b *Builder) Compile(store checkpoint.Store, optFns ...func(o *Options)) (*Graph, error) {
	opts := Options{MaxSteps: 50, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	errs := append([]error{}, b.errs...)

	if store == nil {
		errs = append(errs, fmt.Errorf("nil checkpoint store"))
	}
	if b.startRouter == nil {
		errs = append(errs, fmt.Errorf("start router not set"))
	}

	resolves := func(name string) bool {
		if name == End {
			return true
		}
		_, ok := b.nodes[name]
		return ok
	}

	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("edge from undeclared node %q", from))
		}
		if !resolves(to) {
			errs = append(errs, fmt.Errorf("edge %q -> %q targets undeclared node", from, to))
		}
		if _, ok := b.conditional[from]; ok {
			errs = append(errs, fmt.Errorf("node %q has both unconditional and conditional edges", from))
		}
	}
	for from, ce := range b.conditional {
		if _, ok := b.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("conditional edges from undeclared node %q", from))
		}
		for t := range ce.targets {
			if !resolves(t) {
				errs = append(errs, fmt.Errorf("conditional target %q of node %q is undeclared", t, from))
			}
		}
	}
	for t := range b.startTargets {
		if !resolves(t) {
			errs = append(errs, fmt.Errorf("start target %q is undeclared", t))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid graph: %w", joinErrors(errs))
	}

	return &Graph{
		nodes:        b.nodes,
		edges:        b.edges,
		conditional:  b.conditional,
		startRouter:  b.startRouter,
		startTargets: b.startTargets,
		store:        store,
		maxSteps:     opts.MaxSteps,
		logger:       opts.Logger,
		sessions:     map[string]*sync.Mutex{},
	}, nil
}

func joinErrors(errs []error) error {
	err := errs[0]
	for _, e := range errs[1:] {
		err = fmt.Errorf("%w; %w", err, e)
	}
	return err
}
