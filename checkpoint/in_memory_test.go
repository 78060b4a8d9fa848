package checkpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentgraph/core"
)

func TestInMemoryStore_LoadMissing(t *testing.T) {
	store := NewInMemoryStore()
	if _, err := store.Load(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	state := core.NewState()
	state.Append(core.NewUserMessage("hi"))
	state.DialogState = []string{"coder_assistant"}

	if err := store.Save(ctx, "s1", state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Messages) != 1 || loaded.ActiveAgent() != "coder_assistant" {
		t.Fatalf("unexpected snapshot: %+v", loaded)
	}
}

func TestInMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	state := core.NewState()
	state.Append(core.NewUserMessage("hi"))
	_ = store.Save(ctx, "s1", state)

	// Mutating either side after the fact must not leak through.
	state.Append(core.NewUserMessage("later"))
	loaded, _ := store.Load(ctx, "s1")
	loaded.Append(core.NewUserMessage("even later"))

	again, _ := store.Load(ctx, "s1")
	if len(again.Messages) != 1 {
		t.Fatalf("expected 1 message in stored snapshot, got %d", len(again.Messages))
	}
}
