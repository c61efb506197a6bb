package llm

import (
	"context"
	"encoding/json"
)

// ToolCallInput is passed to a FunctionTool's underlying function. Input
// carries the call's arguments as raw JSON text, same as what a provider
// sent on the wire.
type ToolCallInput struct {
	Input string
}

// ToolCallOutput is returned by a FunctionTool's underlying function.
type ToolCallOutput struct {
	Output string
}

// ToolFunc is the function signature for a tool call.
type ToolFunc func(ctx context.Context, input *ToolCallInput) (*ToolCallOutput, error)

// FunctionTool is a tool that is defined by a function.
type FunctionTool struct {
	fn          ToolFunc
	name        string
	description string
	schema      Schema
}

// NewFunctionTool creates a new FunctionTool.
func NewFunctionTool(fn ToolFunc) *FunctionTool {
	return &FunctionTool{fn: fn}
}

func (t *FunctionTool) WithName(name string) *FunctionTool {
	t.name = name
	return t
}

func (t *FunctionTool) WithDescription(description string) *FunctionTool {
	t.description = description
	return t
}

func (t *FunctionTool) WithSchema(schema Schema) *FunctionTool {
	t.schema = schema
	return t
}

func (t *FunctionTool) Name() string {
	return t.name
}

func (t *FunctionTool) Description() string {
	return t.description
}

func (t *FunctionTool) Schema() Schema {
	return t.schema
}

// Definition implements Tool, so a FunctionTool can be passed directly to
// WithTools alongside any other Tool implementation.
func (t *FunctionTool) Definition() *ToolDefinition {
	return &ToolDefinition{
		Name:        t.name,
		Description: t.description,
		Parameters:  t.schema,
	}
}

// Call implements Tool by wrapping the wire json.RawMessage input/string
// output shape around the typed ToolCallInput/ToolCallOutput the underlying
// function expects.
func (t *FunctionTool) Call(ctx context.Context, input json.RawMessage) (string, error) {
	out, err := t.fn(ctx, &ToolCallInput{Input: string(input)})
	if err != nil {
		return "", err
	}
	return out.Output, nil
}

// NewToolCallOutput creates a new ToolCallOutput with the given output.
func NewToolCallOutput(output string) *ToolCallOutput {
	return &ToolCallOutput{Output: output}
}
