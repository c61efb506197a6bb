// Package toolkit provides a collection of tools for AI agents to interact with
// the local filesystem, execute shell commands, and communicate with users.
//
// # Tool Categories
//
// The toolkit includes tools organized into several categories:
//
// File Operations:
//   - [ReadFileTool]: Read file contents with optional line range
//   - [WriteFileTool]: Write content to files
//   - [EditTool]: Perform exact string replacements in files
//   - [GlobTool]: Find files using glob patterns
//   - [GrepTool]: Search file contents using regular expressions
//   - [ListDirectoryTool]: List directory contents with metadata
//
// Shell Execution:
//   - [BashTool]: Execute shell commands with timeout and output capture
//   - [GetShellOutputTool]: Read output from a background shell
//   - [ListShellsTool]: Enumerate background shells
//   - [KillShellTool]: Terminate a background shell
//
// User Interaction:
//   - [AskUserTool]: Ask users questions with various input types
//
// Skills:
//   - [SkillTool]: Activate a loaded skill, optionally restricting which
//     other tools may run while it's active
//
// # Path Validation
//
// [ReadFileTool], [EditTool], [ListDirectoryTool] and [BashTool] use
// [PathValidator] to enforce workspace boundaries and prevent path traversal
// attacks when their WorkspaceDir option is set. With an empty WorkspaceDir,
// and in the other file tools, paths are not restricted this way.
//
// # Creating Tools
//
// Each tool has a constructor function (e.g., [NewBashTool], [NewEditTool])
// that accepts an options struct for configuration. Most tools return a
// [agentcore.TypedToolAdapter] that can be used directly with an agent:
//
//	bashTool := toolkit.NewBashTool(toolkit.BashToolOptions{
//	    WorkspaceDir: "/path/to/workspace",
//	    MaxOutputLength: 50000,
//	})
//
//	newAgent := driver.NewAgentFunc(llmClient)
//	agent, err := newAgent(agentcore.AgentOptions{
//	    Tools: []agentcore.Tool{bashTool},
//	})
package toolkit

import "github.com/forgeline/agentcore"

var (
	// NewToolResultError creates a tool result indicating an error occurred.
	// The error message is returned to the LLM for context about what went wrong.
	NewToolResultError = agentcore.NewToolResultError

	// NewToolResultText creates a successful tool result with text content.
	// This is the primary way tools return data to the LLM.
	NewToolResultText = agentcore.NewToolResultText
)
