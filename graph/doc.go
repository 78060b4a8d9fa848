// Package graph implements the execution core of AgentGraph: a fixed,
// validated topology of named nodes connected by unconditional and
// data-dependent (router driven) edges, plus the engine that drives one
// session step by step, checkpointing state after every node.
//
// Topologies are assembled with a Builder and validated by Compile: every
// target a router may return must be declared and must resolve to a known
// node (or End), so misconfiguration is rejected at construction time
// rather than surfacing mid-conversation.
package graph
