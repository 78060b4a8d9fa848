package core

import "testing"

func TestApplyDialog_PushPop(t *testing.T) {
	var stack []string

	stack = ApplyDialog(stack, DialogPush("architect_assistant"))
	stack = ApplyDialog(stack, DialogPush("coder_assistant"))
	if len(stack) != 2 || stack[1] != "coder_assistant" {
		t.Fatalf("unexpected stack after pushes: %v", stack)
	}

	stack = ApplyDialog(stack, DialogPop())
	if len(stack) != 1 || stack[0] != "architect_assistant" {
		t.Fatalf("pop should remove tail only: %v", stack)
	}
}

func TestApplyDialog_PushThenPopRoundTrip(t *testing.T) {
	before := []string{"architect_assistant"}
	after := ApplyDialog(ApplyDialog(before, DialogPush("tester_assistant")), DialogPop())
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("push+pop should restore the stack: %v != %v", after, before)
	}
}

func TestApplyDialog_CountInvariant(t *testing.T) {
	pushes := []string{"a", "b", "c", "d", "e"}
	var stack []string
	for _, v := range pushes {
		stack = ApplyDialog(stack, DialogPush(v))
	}
	pops := 3
	for i := 0; i < pops; i++ {
		stack = ApplyDialog(stack, DialogPop())
	}
	if len(stack) != len(pushes)-pops {
		t.Fatalf("expected %d entries, got %d", len(pushes)-pops, len(stack))
	}
	if top := stack[len(stack)-1]; top != "b" {
		t.Fatalf("top should be most recent unpopped push, got %q", top)
	}
}

func TestApplyDialog_NoOpAndEmptyPop(t *testing.T) {
	stack := []string{"coder_assistant"}
	if got := ApplyDialog(stack, DialogNoOp()); len(got) != 1 {
		t.Fatalf("no-op must not change the stack: %v", got)
	}
	if got := ApplyDialog(nil, DialogPop()); len(got) != 0 {
		t.Fatalf("pop on empty stack must stay empty: %v", got)
	}
}

func TestApplyDialog_PushDoesNotAliasInput(t *testing.T) {
	stack := make([]string, 1, 4)
	stack[0] = "architect_assistant"
	grown := ApplyDialog(stack, DialogPush("coder_assistant"))
	grown[0] = "mutated"
	if stack[0] != "architect_assistant" {
		t.Fatal("push must not share backing array with input stack")
	}
}

func TestState_ApplyPreservesOrder(t *testing.T) {
	s := NewState()
	s.Append(NewUserMessage("hi"))
	s.Apply(Delta{
		Messages: []Message{NewAssistantMessage("primary_assistant", "hello")},
		Dialog:   DialogPush("coder_assistant"),
	})

	if len(s.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(s.Messages))
	}
	if s.Messages[0].Role != RoleUser || s.Messages[1].Role != RoleAssistant {
		t.Fatalf("messages out of order: %+v", s.Messages)
	}
	if s.ActiveAgent() != "coder_assistant" {
		t.Fatalf("unexpected active agent %q", s.ActiveAgent())
	}
}

func TestState_ActiveAgentEmptyStack(t *testing.T) {
	s := NewState()
	if s.ActiveAgent() != "" {
		t.Fatal("empty stack should mean primary assistant")
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Append(Message{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "read_file"}}})
	s.DialogState = []string{"tester_assistant"}

	clone := s.Clone()
	clone.Messages[0].ToolCalls[0].Name = "changed"
	clone.DialogState[0] = "changed"
	clone.Append(NewUserMessage("more"))

	if s.Messages[0].ToolCalls[0].Name != "read_file" {
		t.Fatal("clone shares tool call backing array")
	}
	if s.DialogState[0] != "tester_assistant" {
		t.Fatal("clone shares dialog stack backing array")
	}
	if len(s.Messages) != 1 {
		t.Fatal("clone append leaked into original")
	}
}
