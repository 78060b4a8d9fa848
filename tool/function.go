package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// tool. Arguments are validated against the declared JSON schema before the
// function runs; failures surface as *ToolError with consistent codes:
//
//	VALIDATION_ERROR -> schema / argument mismatch
//	EXECUTION_ERROR  -> underlying function returned an error (non-ToolError)
//
// Custom codes are preserved if the function returns *ToolError directly.
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (any, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and function.
//
// Example:
//
//	readTool := NewFunctionTool(
//	  "read_file",
//	  "Read the contents of a file",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "path": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"path"},
//	  },
//	  func(ctx context.Context, args map[string]any) (any, error) {
//	    return os.ReadFile(args["path"].(string))
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, args map[string]any) (any, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Call validates the provided args against the declared schema then invokes
// the underlying function.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	if err := t.validate(args); err != nil {
		return nil, err
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return nil, toolErr
		}
		return nil, &ToolError{Tool: t.name, Message: err.Error(), Code: "EXECUTION_ERROR"}
	}
	return result, nil
}

func (t *FunctionTool) validate(args map[string]any) error {
	if t.parameters == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(t.parameters)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("schema validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
		}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %s", strings.Join(msgs, "; ")),
			Code:    "VALIDATION_ERROR",
			Details: msgs,
		}
	}
	return nil
}
