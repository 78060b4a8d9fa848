package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/agentgraph/checkpoint"
	"github.com/hupe1980/agentgraph/core"
)

// countingStore wraps the in-memory store recording every save.
type countingStore struct {
	*checkpoint.InMemoryStore
	saves int
}

func (s *countingStore) Save(ctx context.Context, id string, state *core.State) error {
	s.saves++
	return s.InMemoryStore.Save(ctx, id, state)
}

func appendNode(author, text string) NodeFunc {
	return func(ctx context.Context, s *core.State) (core.Delta, error) {
		return core.Delta{Messages: []core.Message{core.NewAssistantMessage(author, text)}}, nil
	}
}

func lastMessageRouter(fn func(last core.Message) string) Router {
	return func(s *core.State) (string, error) {
		last, _ := s.LastMessage()
		return fn(last), nil
	}
}

func TestInvoke_RunsUntilEndAndPersistsEachStep(t *testing.T) {
	store := &countingStore{InMemoryStore: checkpoint.NewInMemoryStore()}

	g, err := NewBuilder().
		AddNode("first", appendNode("first", "one")).
		AddNode("second", appendNode("second", "two")).
		AddEdge("first", "second").
		AddConditionalEdges("second", staticRouter(End), []string{End}).
		SetStartRouter(staticRouter("first"), []string{"first"}).
		Compile(store)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	last, err := g.Invoke(context.Background(), "s1", core.NewUserMessage("go"))
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if last.Content != "two" || last.Name != "second" {
		t.Fatalf("unexpected final message: %+v", last)
	}

	// user append + two node steps
	if store.saves != 3 {
		t.Fatalf("expected 3 checkpoint writes, got %d", store.saves)
	}

	state, _ := g.State(context.Background(), "s1")
	if len(state.Messages) != 3 {
		t.Fatalf("expected 3 persisted messages, got %d", len(state.Messages))
	}
}

func TestInvoke_StartRouterResumesDialogStack(t *testing.T) {
	store := checkpoint.NewInMemoryStore()

	resumed := core.NewState()
	resumed.Append(core.NewUserMessage("earlier"))
	resumed.DialogState = []string{"tester_assistant"}
	_ = store.Save(context.Background(), "s1", resumed)

	var visited []string
	record := func(name string) NodeFunc {
		return func(ctx context.Context, s *core.State) (core.Delta, error) {
			visited = append(visited, name)
			return core.Delta{Messages: []core.Message{core.NewAssistantMessage(name, "ok")}}, nil
		}
	}

	startRouter := func(s *core.State) (string, error) {
		if top := s.ActiveAgent(); top != "" {
			return top, nil
		}
		return "primary_assistant", nil
	}

	g, err := NewBuilder().
		AddNode("primary_assistant", record("primary_assistant")).
		AddNode("tester_assistant", record("tester_assistant")).
		AddConditionalEdges("primary_assistant", staticRouter(End), []string{End}).
		AddConditionalEdges("tester_assistant", staticRouter(End), []string{End}).
		SetStartRouter(startRouter, []string{"primary_assistant", "tester_assistant"}).
		Compile(store)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if _, err := g.Invoke(context.Background(), "s1", core.NewUserMessage("continue")); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if len(visited) != 1 || visited[0] != "tester_assistant" {
		t.Fatalf("expected resume directly into tester_assistant, visited %v", visited)
	}
}

func TestInvoke_NodeErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	g, err := NewBuilder().
		AddNode("a", func(ctx context.Context, s *core.State) (core.Delta, error) {
			return core.Delta{}, boom
		}).
		AddConditionalEdges("a", staticRouter(End), []string{End}).
		SetStartRouter(staticRouter("a"), []string{"a"}).
		Compile(checkpoint.NewInMemoryStore())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if _, err := g.Invoke(context.Background(), "s1", core.NewUserMessage("go")); !errors.Is(err, boom) {
		t.Fatalf("expected node error, got %v", err)
	}
}

func TestInvoke_UndeclaredRouterTargetFails(t *testing.T) {
	// Router declared {b, End} at compile time but answers "c" at runtime.
	g, err := NewBuilder().
		AddNode("a", appendNode("a", "x")).
		AddNode("b", appendNode("b", "y")).
		AddNode("c", appendNode("c", "z")).
		AddConditionalEdges("a", staticRouter("c"), []string{"b", End}).
		AddConditionalEdges("b", staticRouter(End), []string{End}).
		AddConditionalEdges("c", staticRouter(End), []string{End}).
		SetStartRouter(staticRouter("a"), []string{"a"}).
		Compile(checkpoint.NewInMemoryStore())
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	_, err = g.Invoke(context.Background(), "s1", core.NewUserMessage("go"))
	if err == nil {
		t.Fatal("expected undeclared target error")
	}
}

func TestInvoke_MaxStepsGuard(t *testing.T) {
	g, err := NewBuilder().
		AddNode("a", appendNode("a", "x")).
		AddNode("b", appendNode("b", "y")).
		AddEdge("a", "b").
		AddEdge("b", "a").
		SetStartRouter(staticRouter("a"), []string{"a"}).
		Compile(checkpoint.NewInMemoryStore(), func(o *Options) { o.MaxSteps = 7 })
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if _, err := g.Invoke(context.Background(), "s1", core.NewUserMessage("go")); !errors.Is(err, ErrMaxStepsExceeded) {
		t.Fatalf("expected ErrMaxStepsExceeded, got %v", err)
	}
}

func TestInvoke_RouterDeterminism(t *testing.T) {
	router := lastMessageRouter(func(last core.Message) string {
		if last.HasToolCalls() {
			return "a"
		}
		return End
	})

	s := core.NewState()
	s.Append(core.Message{Role: core.RoleAssistant, ToolCalls: []core.ToolCall{{ID: "1", Name: "t"}}})

	first, _ := router(s)
	second, _ := router(s)
	if first != second {
		t.Fatalf("router not deterministic: %q vs %q", first, second)
	}
}
