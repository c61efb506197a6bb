package agentcore

import (
	"context"

	"github.com/forgeline/agentcore/llm"
)

// HookContext carries the tool and pending call a lifecycle hook is being
// invoked about. Tool is nil for hooks not scoped to a specific call
// (e.g. a session-level before/after hook).
type HookContext struct {
	Tool Tool
	Call *llm.ToolUseContent
}

// PreToolUseHook runs before a tool call executes. Returning an error
// blocks the call; the error's message is surfaced to the LLM as the
// reason it was refused. This is the extension point the Permission
// Engine installs itself through (see permission.Hook).
type PreToolUseHook func(ctx context.Context, hc *HookContext) error

// Hooks groups the lifecycle hook slices an Agent is configured with.
// Hooks within a slice run in order; the first error from PreToolUse
// short-circuits the remaining hooks and the call itself.
type Hooks struct {
	PreToolUse  []PreToolUseHook
	PostToolUse []PreToolUseHook
}
