package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/schema"
)

var (
	_ agentcore.TypedTool[*KillShellInput]          = &KillShellTool{}
	_ agentcore.TypedToolPreviewer[*KillShellInput] = &KillShellTool{}
)

// KillShellInput is the input to the KillShell tool.
type KillShellInput struct {
	// ShellID is the background shell's ID to terminate. Required.
	ShellID string `json:"shell_id"`
}

// KillShellToolOptions configures a KillShellTool.
type KillShellToolOptions struct {
	// ShellManager tracks the background shells this tool can terminate.
	ShellManager *ShellManager
}

// KillShellTool terminates a background shell started by BashTool.
type KillShellTool struct {
	shellManager *ShellManager
}

// NewKillShellTool creates a new KillShellTool.
func NewKillShellTool(options KillShellToolOptions) *agentcore.TypedToolAdapter[*KillShellInput] {
	return agentcore.ToolAdapter(&KillShellTool{shellManager: options.ShellManager})
}

// Name returns "kill_shell" as the tool identifier.
func (t *KillShellTool) Name() string {
	return "kill_shell"
}

// Description returns detailed usage instructions for the LLM.
func (t *KillShellTool) Description() string {
	return `Terminate a background shell started with run_in_background.

Provide the shell_id of the shell to kill. Has no effect if the shell has
already finished.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *KillShellTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     schema.Object,
		Required: []string{"shell_id"},
		Properties: map[string]*schema.Property{
			"shell_id": {
				Type:        schema.String,
				Description: "The ID of the background shell to terminate.",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior. Killing a
// process is irreversible, so it's marked destructive.
func (t *KillShellTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "Kill Shell",
		ReadOnlyHint:    false,
		DestructiveHint: true,
	}
}

// PreviewCall returns a summary of the kill for permission prompts.
func (t *KillShellTool) PreviewCall(ctx context.Context, input *KillShellInput) *agentcore.ToolCallPreview {
	return &agentcore.ToolCallPreview{
		Summary: fmt.Sprintf("Kill shell %s", input.ShellID),
	}
}

// Call terminates the shell if it's still running.
func (t *KillShellTool) Call(ctx context.Context, input *KillShellInput) (*agentcore.ToolResult, error) {
	if t.shellManager == nil {
		return NewToolResultError("shell manager not configured"), nil
	}
	if input.ShellID == "" {
		return NewToolResultError("shell_id is required"), nil
	}

	info, exists := t.shellManager.Get(input.ShellID)
	if !exists {
		return NewToolResultError(fmt.Sprintf("shell not found: %s", input.ShellID)), nil
	}

	if info.Status != ShellStatusRunning {
		data, err := json.Marshal(map[string]any{"message": "shell is not running"})
		if err != nil {
			return NewToolResultError(fmt.Sprintf("error encoding response: %s", err.Error())), nil
		}
		return NewToolResultText(string(data)), nil
	}

	if err := t.shellManager.Kill(input.ShellID); err != nil {
		return NewToolResultError(fmt.Sprintf("error killing shell: %s", err.Error())), nil
	}

	data, err := json.Marshal(map[string]any{
		"status":   "killed",
		"shell_id": input.ShellID,
	})
	if err != nil {
		return NewToolResultError(fmt.Sprintf("error encoding response: %s", err.Error())), nil
	}

	return NewToolResultText(string(data)), nil
}
