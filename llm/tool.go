package llm

import (
	"context"
	"encoding/json"

	"github.com/forgeline/agentcore/schema"
)

type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  Schema `json:"parameters"`
}

func (t *ToolDefinition) ParametersCount() int {
	return len(t.Parameters.Properties)
}

// RawToolFunc is the function signature for a Tool built directly against
// the wire json.RawMessage input/string output shape, for callers that
// don't need FunctionTool's typed ToolCallInput/ToolCallOutput wrapper.
type RawToolFunc func(ctx context.Context, input json.RawMessage) (string, error)

type ToolChoice struct {
	Type                   string `json:"type"`
	Name                   string `json:"name,omitempty"`
	DisableParallelToolUse bool   `json:"disable_parallel_tool_use,omitempty"`
}

type Tool interface {
	Definition() *ToolDefinition
	Call(ctx context.Context, input json.RawMessage) (string, error)
}

// ToolConfiguration is implemented by tools that execute server-side inside
// the provider itself (e.g. Anthropic's computer-use, code-execution, and
// web-search tools) rather than being invoked locally through Tool.Call.
// Such a tool still needs to describe itself in the request, so
// ToolConfiguration returns the provider-specific wire representation
// instead of taking part in the local tool-call loop.
type ToolConfiguration interface {
	Name() string
	Description() string
	Schema() schema.Schema
	ToolConfiguration(providerName string) map[string]any
}

type StandardTool struct {
	def *ToolDefinition
	fn  RawToolFunc
}

func NewTool(def *ToolDefinition, fn RawToolFunc) Tool {
	return &StandardTool{def: def, fn: fn}
}

func (t *StandardTool) Definition() *ToolDefinition {
	return t.def
}

func (t *StandardTool) Call(ctx context.Context, input json.RawMessage) (string, error) {
	return t.fn(ctx, input)
}

// type Tool interface {
// 	Definition() *ToolDefinition
// 	Invoke(ctx context.Context, input json.RawMessage) (string, error)
// }

// type ToolInvocation struct {
// 	Name   string          `json:"name"`
// 	Input  json.RawMessage `json:"input"`
// 	Result string          `json:"result"`
// 	Error  error           `json:"error"`
// }
