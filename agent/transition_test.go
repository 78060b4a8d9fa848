package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/testutil"
	"github.com/hupe1980/agentgraph/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryNode_PushesAndFrames(t *testing.T) {
	node := NewEntryNode("Coder Assistant", "coder_assistant")

	s := testutil.NewStateBuilder().
		User("build me a REST API").
		AssistantCall("primary_assistant", "c1", tool.ToCoderAssistant, `{"request":"scaffold it"}`).
		Build()

	delta, err := node(context.Background(), s)
	require.NoError(t, err)

	s.Apply(delta)
	assert.Equal(t, []string{"coder_assistant"}, s.DialogState)

	require.Len(t, delta.Messages, 1)
	msg := delta.Messages[0]
	assert.Equal(t, core.RoleTool, msg.Role)
	assert.Equal(t, "c1", msg.ToolCallID)
	assert.Contains(t, msg.Content, "Coder Assistant")
	assert.Contains(t, msg.Content, tool.CompleteOrEscalateName)
	assert.Contains(t, msg.Content, "Do not mention who you are")
}

func TestEntryNode_RequiresToolCall(t *testing.T) {
	node := NewEntryNode("Coder Assistant", "coder_assistant")

	s := core.NewState()
	s.Append(core.NewUserMessage("hi"))

	_, err := node(context.Background(), s)
	assert.Error(t, err)
}

func TestLeaveSkillNode_PopsAndHandsBack(t *testing.T) {
	node := NewLeaveSkillNode()

	s := testutil.NewStateBuilder().
		Dialog("coder_assistant").
		AssistantCall("coder_assistant", "c9", tool.CompleteOrEscalateName, `{"cancel":true,"reason":"task complete"}`).
		Build()

	delta, err := node(context.Background(), s)
	require.NoError(t, err)

	s.Apply(delta)
	assert.Empty(t, s.DialogState)

	require.Len(t, delta.Messages, 1)
	assert.Equal(t, "c9", delta.Messages[0].ToolCallID)
	assert.Contains(t, delta.Messages[0].Content, "Resuming dialog with the primary assistant")
}

func TestLeaveSkillNode_CorrelatesToEscalateCall(t *testing.T) {
	node := NewLeaveSkillNode()

	s := testutil.NewStateBuilder().
		Dialog("tester_assistant").
		Message(core.Message{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{
				{ID: "c1", Name: "run_tests"},
				{ID: "c2", Name: tool.CompleteOrEscalateName},
			},
		}).
		Build()

	delta, err := node(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, delta.Messages, 1)
	assert.Equal(t, "c2", delta.Messages[0].ToolCallID)
}

func TestLeaveSkillNode_NoToolCallsNoMessage(t *testing.T) {
	node := NewLeaveSkillNode()

	s := testutil.NewStateBuilder().
		Dialog("architect_assistant").
		Assistant("architect_assistant", "all done").
		Build()

	delta, err := node(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, delta.Messages)

	s.Apply(delta)
	assert.Empty(t, s.DialogState)
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "Coder Assistant", FormatLabel("coder_assistant"))
	assert.Equal(t, "Primary Assistant", FormatLabel("primary_assistant"))
	assert.Equal(t, "Solo", FormatLabel("solo"))
}

func TestNodeNameHelpers(t *testing.T) {
	assert.Equal(t, "enter_coder_assistant", EntryNodeName("coder_assistant"))
	assert.Equal(t, "coder_assistant_tools", ToolsNodeName("coder_assistant"))
}
