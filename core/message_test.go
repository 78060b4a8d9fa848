package core

import "testing"

func TestMessage_HasText(t *testing.T) {
	if (Message{Content: "  \n\t"}).HasText() {
		t.Error("whitespace-only content should not count as text")
	}
	if !(Message{Content: "ok"}).HasText() {
		t.Error("expected text")
	}
}

func TestMessage_FirstToolCall(t *testing.T) {
	m := Message{ToolCalls: []ToolCall{{ID: "a", Name: "x"}, {ID: "b", Name: "y"}}}
	tc, ok := m.FirstToolCall()
	if !ok || tc.ID != "a" {
		t.Fatalf("unexpected first tool call: %+v", tc)
	}
	if _, ok := (Message{}).FirstToolCall(); ok {
		t.Fatal("empty message should have no tool call")
	}
}

func TestMessage_Constructors(t *testing.T) {
	u := NewUserMessage("hi")
	if u.Role != RoleUser || u.Content != "hi" {
		t.Fatalf("unexpected user message: %+v", u)
	}
	a := NewAssistantMessage("coder_assistant", "done")
	if a.Role != RoleAssistant || a.Name != "coder_assistant" {
		t.Fatalf("unexpected assistant message: %+v", a)
	}
	tm := NewToolMessage("call-1", "result")
	if tm.Role != RoleTool || tm.ToolCallID != "call-1" {
		t.Fatalf("unexpected tool message: %+v", tm)
	}
}
