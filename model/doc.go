// Package model defines the boundary to external language models: the
// normalized request/response shapes, the tool definitions exposed to the
// model, and the Model interface implemented by provider adapters in the
// anthropic and openai subpackages.
package model
