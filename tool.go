// Package agentcore defines the core contracts shared by every package in
// this module: the Tool interface the executor dispatches through, the
// Agent/Session interfaces the driver and sub-agent scheduler implement
// against, and the Dialog interface that decouples permission prompts from
// any particular terminal UI.
package agentcore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeline/agentcore/schema"
)

// Schema and Property are aliased from the schema package so that code
// depending only on agentcore (the Tool interface) never needs a second
// import for the shape of a tool's parameters.
type Schema = schema.Schema
type Property = schema.Property

// Tool is the untyped contract the Permission Engine and Tool Executor
// operate on. Concrete tools are written against TypedTool[I] and exposed
// to the rest of the system through ToolAdapter, which implements Tool.
type Tool interface {
	Name() string
	Description() string
	Schema() *Schema
	Call(ctx context.Context, input any) (*ToolResult, error)
}

// Annotated is implemented by tools that advertise behavior hints used by
// the Permission Engine's safe-readonly-command shortcut and by UI
// surfaces summarizing a pending call.
type Annotated interface {
	Annotations() *ToolAnnotations
}

// ToolAnnotations are metadata hints about a tool's side effects.
type ToolAnnotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
	IdempotentHint  bool   `json:"idempotentHint,omitempty"`
	OpenWorldHint   bool   `json:"openWorldHint,omitempty"`
	EditHint        bool   `json:"editHint,omitempty"`
}

// ToolCallPreview summarizes a pending tool call for a permission prompt,
// e.g. "Read /etc/hosts" or "Bash: rm -rf build/".
type ToolCallPreview struct {
	Summary string
	Detail  string
}

// TypedTool is the interface concrete tools in the toolkit package
// implement. ToolAdapter wraps a TypedTool[I] so it satisfies Tool: input
// arrives as json.RawMessage from the LLM, gets decoded into I, and is
// passed to Call.
type TypedTool[I any] interface {
	Name() string
	Description() string
	Schema() *Schema
	Call(ctx context.Context, input I) (*ToolResult, error)
	Annotations() *ToolAnnotations
}

// TypedToolPreviewer is implemented by tools that can describe a call
// before it executes, so the Permission UI Protocol has something to show
// the user while a request is pending.
type TypedToolPreviewer[I any] interface {
	PreviewCall(ctx context.Context, input I) *ToolCallPreview
}

// TypedToolAdapter adapts a TypedTool[I] to the untyped Tool interface
// consumed by the executor and permission engine.
type TypedToolAdapter[I any] struct {
	tool TypedTool[I]
}

// ToolAdapter wraps a TypedTool[I] as a Tool.
func ToolAdapter[I any](tool TypedTool[I]) *TypedToolAdapter[I] {
	return &TypedToolAdapter[I]{tool: tool}
}

func (a *TypedToolAdapter[I]) Name() string        { return a.tool.Name() }
func (a *TypedToolAdapter[I]) Description() string  { return a.tool.Description() }
func (a *TypedToolAdapter[I]) Schema() *Schema       { return a.tool.Schema() }
func (a *TypedToolAdapter[I]) Annotations() *ToolAnnotations { return a.tool.Annotations() }

// Unwrap returns the underlying typed tool, useful when a caller wants to
// call PreviewCall directly without decoding input twice.
func (a *TypedToolAdapter[I]) Unwrap() TypedTool[I] { return a.tool }

func (a *TypedToolAdapter[I]) Call(ctx context.Context, input any) (*ToolResult, error) {
	typed, err := decodeToolInput[I](input)
	if err != nil {
		return NewToolResultError(fmt.Sprintf("invalid input: %s", err.Error())), nil
	}
	return a.tool.Call(ctx, typed)
}

// PreviewCall implements TypedToolPreviewer when the wrapped tool does. It
// returns nil if the wrapped tool has no preview or the input can't be
// decoded, rather than surfacing an error — previewing is best-effort and
// callers fall back to a generic summary when it returns nil.
func (a *TypedToolAdapter[I]) PreviewCall(ctx context.Context, input any) *ToolCallPreview {
	previewer, ok := a.tool.(interface {
		PreviewCall(ctx context.Context, input I) *ToolCallPreview
	})
	if !ok {
		return nil
	}
	typed, err := decodeToolInput[I](input)
	if err != nil {
		return nil
	}
	return previewer.PreviewCall(ctx, typed)
}

func decodeToolInput[I any](input any) (I, error) {
	var zero I
	switch v := input.(type) {
	case I:
		return v, nil
	case json.RawMessage:
		var out I
		if err := json.Unmarshal(v, &out); err != nil {
			return zero, err
		}
		return out, nil
	case []byte:
		var out I
		if err := json.Unmarshal(v, &out); err != nil {
			return zero, err
		}
		return out, nil
	default:
		raw, err := json.Marshal(input)
		if err != nil {
			return zero, err
		}
		var out I
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, err
		}
		return out, nil
	}
}
