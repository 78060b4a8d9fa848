package core

// State is the unit of persistence for one conversation thread: the
// append-only message log plus the dialog stack of currently delegated
// specialized assistants (innermost last). The primary assistant is never
// pushed; it is the implicit owner whenever the stack is empty.
type State struct {
	Messages    []Message `json:"messages"`
	DialogState []string  `json:"dialog_state,omitempty"`
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{Messages: []Message{}, DialogState: []string{}}
}

// LastMessage returns the most recent message, if any.
func (s *State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// ActiveAgent returns the specialized assistant currently owning the
// conversation, or "" when control rests with the primary assistant.
func (s *State) ActiveAgent() string {
	if len(s.DialogState) == 0 {
		return ""
	}
	return s.DialogState[len(s.DialogState)-1]
}

// Append adds messages to the log preserving arrival order.
func (s *State) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// Apply merges a node result into the state: messages are concatenated in
// arrival order, the dialog operation is reduced onto the stack.
func (s *State) Apply(d Delta) {
	s.Messages = append(s.Messages, d.Messages...)
	s.DialogState = ApplyDialog(s.DialogState, d.Dialog)
}

// Clone returns a deep copy safe for independent mutation.
func (s *State) Clone() *State {
	clone := &State{
		Messages:    make([]Message, len(s.Messages)),
		DialogState: make([]string, len(s.DialogState)),
	}
	copy(clone.Messages, s.Messages)
	copy(clone.DialogState, s.DialogState)
	for i, m := range s.Messages {
		if len(m.ToolCalls) > 0 {
			calls := make([]ToolCall, len(m.ToolCalls))
			copy(calls, m.ToolCalls)
			clone.Messages[i].ToolCalls = calls
		}
	}
	return clone
}

// Delta is the result of one node execution, merged into State by Apply.
type Delta struct {
	Messages []Message
	Dialog   DialogOp
}

type dialogOpKind int

const (
	dialogNoOp dialogOpKind = iota
	dialogPop
	dialogPush
)

// DialogOp is a tagged operation on the dialog stack. The zero value is a
// no-op, so nodes that do not touch the stack can leave Delta.Dialog unset.
type DialogOp struct {
	kind  dialogOpKind
	value string
}

// DialogNoOp leaves the stack unchanged.
func DialogNoOp() DialogOp { return DialogOp{} }

// DialogPop removes the innermost entry.
func DialogPop() DialogOp { return DialogOp{kind: dialogPop} }

// DialogPush appends the given assistant id as the new innermost entry.
func DialogPush(agent string) DialogOp { return DialogOp{kind: dialogPush, value: agent} }

// ApplyDialog reduces an operation onto a stack. Existing entries are never
// reordered; the reducer only appends to or removes from the tail. Popping
// an empty stack is a no-op.
func ApplyDialog(stack []string, op DialogOp) []string {
	switch op.kind {
	case dialogPop:
		if len(stack) == 0 {
			return stack
		}
		return stack[:len(stack)-1]
	case dialogPush:
		next := make([]string, len(stack), len(stack)+1)
		copy(next, stack)
		return append(next, op.value)
	default:
		return stack
	}
}
