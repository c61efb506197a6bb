package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/schema"
)

var (
	_ agentcore.TypedTool[*GetShellOutputInput]          = &GetShellOutputTool{}
	_ agentcore.TypedToolPreviewer[*GetShellOutputInput] = &GetShellOutputTool{}
)

// DefaultShellOutputTimeout bounds how long a blocking GetShellOutput call
// waits for the shell to finish when the caller doesn't specify one.
const DefaultShellOutputTimeout = 30 * time.Second

// GetShellOutputInput is the input to the GetShellOutput tool.
type GetShellOutputInput struct {
	// ShellID is the background shell's ID, as returned by the tool that
	// started it. Required.
	ShellID string `json:"shell_id"`

	// Block, if true (the default), waits for the shell to finish before
	// returning, up to Timeout. If false, returns the output captured so
	// far immediately.
	Block *bool `json:"block,omitempty"`

	// Timeout bounds a blocking wait, in milliseconds. Defaults to
	// DefaultShellOutputTimeout when zero.
	Timeout int `json:"timeout,omitempty"`
}

// GetShellOutputToolOptions configures a GetShellOutputTool.
type GetShellOutputToolOptions struct {
	// ShellManager tracks the background shells this tool reads from.
	ShellManager *ShellManager
}

// GetShellOutputTool retrieves the captured stdout/stderr and status of a
// background shell started by BashTool, either immediately or after
// waiting for it to finish.
type GetShellOutputTool struct {
	shellManager *ShellManager
}

// NewGetShellOutputTool creates a new GetShellOutputTool.
func NewGetShellOutputTool(options GetShellOutputToolOptions) *agentcore.TypedToolAdapter[*GetShellOutputInput] {
	return agentcore.ToolAdapter(&GetShellOutputTool{shellManager: options.ShellManager})
}

// Name returns "get_shell_output" as the tool identifier.
func (t *GetShellOutputTool) Name() string {
	return "get_shell_output"
}

// Description returns detailed usage instructions for the LLM.
func (t *GetShellOutputTool) Description() string {
	return `Retrieve the output of a background shell started with run_in_background.

Provide the shell_id returned when the shell was started. By default this blocks
until the shell finishes or timeout (milliseconds) elapses; pass block: false to
get whatever output has been captured so far without waiting.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *GetShellOutputTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     schema.Object,
		Required: []string{"shell_id"},
		Properties: map[string]*schema.Property{
			"shell_id": {
				Type:        schema.String,
				Description: "The ID of the background shell to read output from.",
			},
			"block": {
				Type:        schema.Boolean,
				Description: "Whether to wait for the shell to finish before returning. Defaults to true.",
			},
			"timeout": {
				Type:        schema.Integer,
				Description: "Maximum time to wait in milliseconds, when block is true.",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *GetShellOutputTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "Get Shell Output",
		ReadOnlyHint:    true,
		DestructiveHint: false,
	}
}

// PreviewCall returns a summary of the read for permission prompts.
func (t *GetShellOutputTool) PreviewCall(ctx context.Context, input *GetShellOutputInput) *agentcore.ToolCallPreview {
	mode := "blocking"
	if input.Block != nil && !*input.Block {
		mode = "non-blocking"
	}
	return &agentcore.ToolCallPreview{
		Summary: fmt.Sprintf("Get output of shell %s (%s)", input.ShellID, mode),
	}
}

// Call reads the shell's current output, optionally waiting for it to
// finish first.
func (t *GetShellOutputTool) Call(ctx context.Context, input *GetShellOutputInput) (*agentcore.ToolResult, error) {
	if t.shellManager == nil {
		return NewToolResultError("shell manager not configured"), nil
	}
	if input.ShellID == "" {
		return NewToolResultError("shell_id is required"), nil
	}

	block := input.Block == nil || *input.Block

	timeout := DefaultShellOutputTimeout
	if input.Timeout > 0 {
		timeout = time.Duration(input.Timeout) * time.Millisecond
	}

	stdout, stderr, info, err := t.shellManager.GetOutput(input.ShellID, block, timeout)
	if err != nil {
		return NewToolResultError(fmt.Sprintf("error getting shell output: %s", err.Error())), nil
	}

	response := map[string]any{
		"shell_id": info.ID,
		"status":   string(info.Status),
		"stdout":   stdout,
		"stderr":   stderr,
	}
	if info.ExitCode != nil {
		response["exit_code"] = *info.ExitCode
	}
	if info.Error != "" {
		response["error"] = info.Error
	}

	data, err := json.Marshal(response)
	if err != nil {
		return NewToolResultError(fmt.Sprintf("error encoding shell output: %s", err.Error())), nil
	}

	return NewToolResultText(string(data)), nil
}
