// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing conversation state (message logs, tool
// calls, dialog stacks). These helpers are intentionally minimal and avoid
// adding third-party dependencies. They are not intended for production
// usage.
package testutil
