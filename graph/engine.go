package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/agentgraph/checkpoint"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
)

// ErrMaxStepsExceeded is returned when a turn does not reach End within the
// configured step budget.
var ErrMaxStepsExceeded = errors.New("graph: max steps exceeded without reaching a terminal node")

// Graph is a compiled, immutable topology bound to a checkpoint store.
// Invoke is safe for concurrent use; steps for the same session id are
// serialized so the message log order always equals node execution order.
type Graph struct {
	nodes        map[string]NodeFunc
	edges        map[string]string
	conditional  map[string]conditionalEdge
	startRouter  Router
	startTargets map[string]struct{}

	store    checkpoint.Store
	maxSteps int
	logger   logging.Logger

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

// sessionLock returns the mutex guarding the given session id, creating it
// on first contact.
func (g *Graph) sessionLock(sessionID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.sessions[sessionID]
	if !ok {
		l = &sync.Mutex{}
		g.sessions[sessionID] = l
	}
	return l
}

// Invoke runs one conversational turn: it appends the user message to the
// session, routes to the entry node (resuming inside a delegated assistant
// when the restored dialog stack is non-empty), then executes nodes until a
// router returns End. State is persisted after every node so a crash can
// resume from the last completed step. The returned message is the last
// entry of the persisted log.
func (g *Graph) Invoke(ctx context.Context, sessionID string, user core.Message) (core.Message, error) {
	lock := g.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := g.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, checkpoint.ErrNotFound) {
			return core.Message{}, fmt.Errorf("graph: load session %s: %w", sessionID, err)
		}
		state = core.NewState()
	}

	state.Append(user)
	if err := g.store.Save(ctx, sessionID, state); err != nil {
		return core.Message{}, fmt.Errorf("graph: persist session %s: %w", sessionID, err)
	}

	turnID := uuid.NewString()
	current, err := g.route(g.startRouter, g.startTargets, "__start__", state)
	if err != nil {
		return core.Message{}, err
	}
	g.logger.Debug("graph.turn.start", "session_id", sessionID, "turn_id", turnID, "entry", current)

	for step := 0; step < g.maxSteps; step++ {
		if current == End {
			g.logger.Debug("graph.turn.end", "session_id", sessionID, "turn_id", turnID, "steps", step)
			last, _ := state.LastMessage()
			return last, nil
		}
		if err := ctx.Err(); err != nil {
			return core.Message{}, err
		}

		node := g.nodes[current]
		start := time.Now()
		delta, err := node(ctx, state)
		if err != nil {
			return core.Message{}, fmt.Errorf("graph: node %s: %w", current, err)
		}
		state.Apply(delta)
		if err := g.store.Save(ctx, sessionID, state); err != nil {
			return core.Message{}, fmt.Errorf("graph: persist session %s: %w", sessionID, err)
		}
		g.logger.Info("graph.step",
			"session_id", sessionID,
			"turn_id", turnID,
			"node", current,
			"messages", len(delta.Messages),
			"duration_ms", time.Since(start).Milliseconds(),
		)

		current, err = g.next(current, state)
		if err != nil {
			return core.Message{}, err
		}
	}

	return core.Message{}, ErrMaxStepsExceeded
}

// next selects the follow-up node after from executed.
func (g *Graph) next(from string, state *core.State) (string, error) {
	if ce, ok := g.conditional[from]; ok {
		return g.route(ce.router, ce.targets, from, state)
	}
	if to, ok := g.edges[from]; ok {
		return to, nil
	}
	// No outgoing edge means the node is terminal for this branch.
	return End, nil
}

// route invokes a router and verifies its answer against the declared
// target set. Compile guarantees declared targets resolve; this guards
// routers that return something they never declared.
func (g *Graph) route(r Router, targets map[string]struct{}, from string, state *core.State) (string, error) {
	name, err := r(state)
	if err != nil {
		return "", fmt.Errorf("graph: router of %s: %w", from, err)
	}
	if _, ok := targets[name]; !ok {
		return "", fmt.Errorf("graph: router of %s returned undeclared target %q", from, name)
	}
	return name, nil
}

// State returns a snapshot of the persisted session state, or an empty
// state when the session does not exist yet.
func (g *Graph) State(ctx context.Context, sessionID string) (*core.State, error) {
	state, err := g.store.Load(ctx, sessionID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return core.NewState(), nil
	}
	return state, err
}
