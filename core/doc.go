// Package core defines the shared data model of AgentGraph: conversational
// messages with tool calls, the persisted session state, and the tagged
// dialog-stack operations nodes use to hand control between the primary
// assistant and its specialized assistants.
package core
