package core

import (
	"errors"
	"fmt"
)

// ErrRetryExhausted is returned by an invoker when the model keeps producing
// empty output past the configured retry bound.
var ErrRetryExhausted = errors.New("model produced no usable output within retry bound")

// RoutingError reports a tool call that matched no known handoff, escalate
// or registered tool case. It is a contract violation and fatal to the run;
// routers must never silently default past it.
type RoutingError struct {
	Agent string // routing agent node
	Tool  string // offending tool call name
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing error in %s: tool call %q matches no known route", e.Agent, e.Tool)
}
