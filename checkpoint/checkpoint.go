// Package checkpoint persists session state snapshots keyed by session id,
// enabling durable, resumable multi-turn conversations. Two implementations
// are provided: a volatile in-memory store for tests and demos, and a SQLite
// backed store for durability across process restarts.
package checkpoint

import (
	"context"
	"errors"

	"github.com/hupe1980/agentgraph/core"
)

// ErrNotFound is returned by Load when no snapshot exists for a session id.
var ErrNotFound = errors.New("checkpoint: session not found")

// Store reads and writes the latest session state snapshot per session id.
// Implementations must be safe for concurrent use; the graph engine
// additionally serializes steps per session id, so per-session write order
// follows node execution order.
type Store interface {
	// Load returns the latest snapshot or ErrNotFound.
	Load(ctx context.Context, sessionID string) (*core.State, error)
	// Save replaces the latest snapshot for the session id.
	Save(ctx context.Context, sessionID string, state *core.State) error
}
