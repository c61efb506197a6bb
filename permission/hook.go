package permission

import (
	"context"

	"github.com/forgeline/agentcore"
)

// Hook builds a PreToolUseHook that evaluates every call against config,
// prompting through dialog when a rule or mode says to ask. This is the
// one place the permission Manager is bridged onto the Hook Bus; anything
// that installs this hook gets the full Permission Engine for free.
func Hook(config *Config, dialog agentcore.Dialog) agentcore.PreToolUseHook {
	manager := NewManager(config, dialog)
	return HookFromManager(manager)
}

// HookFromManager wraps an existing Manager as a PreToolUseHook, so
// callers that need to also mutate the manager's mode or session
// allowlist at runtime (e.g. a "/plan" slash command) can keep a
// reference to it alongside the hook.
func HookFromManager(manager *Manager) agentcore.PreToolUseHook {
	return func(ctx context.Context, hc *agentcore.HookContext) error {
		if hc == nil {
			return nil
		}
		return manager.EvaluateToolUse(ctx, hc.Tool, hc.Call)
	}
}

// AuditHook builds a PreToolUseHook that never blocks a call but invokes
// record for every one, for transcript logging or metrics independent of
// the permission decision itself.
func AuditHook(record func(name string, input []byte)) agentcore.PreToolUseHook {
	return func(ctx context.Context, hc *agentcore.HookContext) error {
		if record == nil {
			return nil
		}
		name := "unknown"
		var input []byte
		if hc != nil && hc.Call != nil {
			name = hc.Call.Name
			input = hc.Call.Input
		}
		record(name, input)
		return nil
	}
}
