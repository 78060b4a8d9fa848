// Package agent provides the node implementations that drive assistants
// through the graph: the model invoker with its bounded empty-output retry
// loop, the coordinator and specialist routers, and the entry/exit
// transition handlers that move control on and off the dialog stack.
package agent
