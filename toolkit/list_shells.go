package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/schema"
)

var (
	_ agentcore.TypedTool[*ListShellsInput]          = &ListShellsTool{}
	_ agentcore.TypedToolPreviewer[*ListShellsInput] = &ListShellsTool{}
)

// ListShellsInput is the input to the ListShells tool.
type ListShellsInput struct {
	// OnlyRunning, if true, restricts the listing to shells still running.
	OnlyRunning bool `json:"only_running,omitempty"`
}

// ListShellsToolOptions configures a ListShellsTool.
type ListShellsToolOptions struct {
	// ShellManager tracks the background shells this tool enumerates.
	ShellManager *ShellManager
}

// ListShellsTool enumerates background shells started by BashTool,
// optionally restricted to the ones still running.
type ListShellsTool struct {
	shellManager *ShellManager
}

// NewListShellsTool creates a new ListShellsTool.
func NewListShellsTool(options ListShellsToolOptions) *agentcore.TypedToolAdapter[*ListShellsInput] {
	return agentcore.ToolAdapter(&ListShellsTool{shellManager: options.ShellManager})
}

// Name returns "list_shells" as the tool identifier.
func (t *ListShellsTool) Name() string {
	return "list_shells"
}

// Description returns detailed usage instructions for the LLM.
func (t *ListShellsTool) Description() string {
	return `List background shells started with run_in_background.

Returns each shell's ID, command, and status. Pass only_running: true to limit
the list to shells that haven't finished yet.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *ListShellsTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type: schema.Object,
		Properties: map[string]*schema.Property{
			"only_running": {
				Type:        schema.Boolean,
				Description: "Restrict the listing to shells that are still running.",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *ListShellsTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "List Shells",
		ReadOnlyHint:    true,
		DestructiveHint: false,
	}
}

// PreviewCall returns a summary of the listing for permission prompts.
func (t *ListShellsTool) PreviewCall(ctx context.Context, input *ListShellsInput) *agentcore.ToolCallPreview {
	if input.OnlyRunning {
		return &agentcore.ToolCallPreview{Summary: "List running shells"}
	}
	return &agentcore.ToolCallPreview{Summary: "List all shells"}
}

// Call enumerates the tracked shells and returns them as JSON.
func (t *ListShellsTool) Call(ctx context.Context, input *ListShellsInput) (*agentcore.ToolResult, error) {
	if t.shellManager == nil {
		return NewToolResultError("shell manager not configured"), nil
	}

	var shells []ShellInfo
	if input.OnlyRunning {
		shells = t.shellManager.ListRunning()
	} else {
		shells = t.shellManager.List()
	}

	response := map[string]any{
		"shells": shells,
		"count":  len(shells),
	}

	data, err := json.Marshal(response)
	if err != nil {
		return NewToolResultError(fmt.Sprintf("error encoding shell list: %s", err.Error())), nil
	}

	return NewToolResultText(string(data)), nil
}
