// Package toolkit provides tools for AI agents.
//
// BashTool executes each command as a freshly synthesized, non-interactive
// shell invocation rather than driving a single long-lived bash process.
// Every call builds a small shell script that sources the user's rc file,
// restores any persisted environment, cds into the working directory, runs
// the command, and (optionally) snapshots the resulting cwd and environment
// so the next call in the same session can pick up where this one left off.
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/sandbox"
	"github.com/forgeline/agentcore/schema"
)

var (
	_ agentcore.TypedTool[*BashInput]          = &BashTool{}
	_ agentcore.TypedToolPreviewer[*BashInput] = &BashTool{}
)

const (
	// DefaultBashTimeout is the default timeout for bash commands (2 minutes)
	DefaultBashTimeout = 2 * time.Minute
	// MaxBashTimeout is the maximum allowed timeout (10 minutes)
	MaxBashTimeout = 10 * time.Minute
	// DefaultMaxOutputLength is the default maximum output length in characters
	DefaultMaxOutputLength = 30000

	// defaultShellID names the session used when the caller omits shell_id.
	defaultShellID = "default"

	envMarkerBanner = "---AGENTCORE-EXPORTS---"
)

// ambientEnvVars are excluded from a captured advanced-persistence snapshot
// because they are re-derived by the shell on every invocation and carrying
// them forward would fight the next call's own environment.
var ambientEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "PWD": true, "OLDPWD": true, "SHLVL": true,
	"_": true,
}

func isAmbientEnvVar(name string) bool {
	if ambientEnvVars[name] {
		return true
	}
	return strings.HasPrefix(name, "BASH_")
}

// BashInput represents the input for the bash tool.
type BashInput struct {
	// Command is the shell command to execute. Required.
	Command string `json:"command,omitempty"`
	// ShellID selects which persistent session's cwd/environment this call
	// reads from and writes back to. Defaults to a single implicit session.
	ShellID string `json:"shell_id,omitempty"`
	// Timeout in milliseconds (max 600000ms / 10 minutes, default 120000ms / 2 minutes)
	Timeout int `json:"timeout,omitempty"`
	// Description is a brief description of what the command does (5-10 words)
	Description string `json:"description,omitempty"`
	// WorkingDirectory overrides the session's current working directory for
	// this call (and becomes its new cwd once the call completes).
	WorkingDirectory string `json:"working_directory,omitempty"`
	// RunInBackground starts the command asynchronously via the shell
	// manager and returns its shell ID immediately instead of waiting.
	RunInBackground bool `json:"run_in_background,omitempty"`
	// AdvancedPersistence snapshots exported environment variables after the
	// command runs and replays them on the session's next call, in addition
	// to the working directory that is always persisted.
	AdvancedPersistence bool `json:"advanced_persistence,omitempty"`
	// DangerouslyDisableSandbox bypasses sandboxed execution for this call.
	DangerouslyDisableSandbox bool `json:"dangerously_disable_sandbox,omitempty"`
}

// shellSession holds the state a synthesized invocation needs to pick up
// where the previous call on the same shell_id left off: the working
// directory, and (when advanced persistence is in use) exported variables.
type shellSession struct {
	mu  sync.Mutex
	cwd string
	env map[string]string
}

// BashToolOptions configures the BashTool
type BashToolOptions struct {
	// WorkspaceDir is the base directory for workspace validation (if empty, paths are not restricted)
	WorkspaceDir string
	// MaxOutputLength limits the output size (default: 30000 characters)
	MaxOutputLength int
	// SandboxConfig configures sandboxing (optional)
	SandboxConfig *sandbox.Config
	// ShellManager backs run_in_background calls. If nil, a tool invoked
	// with run_in_background returns an error instead of starting one.
	ShellManager *ShellManager
	// ExtraEnv is merged into every synthesized invocation's environment.
	ExtraEnv map[string]string
}

// BashTool executes shell commands as synthesized, per-call, non-interactive
// shell invocations, multiplexed across independent shell_id sessions.
type BashTool struct {
	mu             sync.Mutex
	sessions       map[string]*shellSession
	pathValidator  *PathValidator
	workspaceDir   string
	configErr      error
	maxOutputLen   int
	sandboxManager *sandbox.Manager
	shellManager   *ShellManager
	extraEnv       map[string]string
}

// NewBashTool creates a new bash tool.
func NewBashTool(opts ...BashToolOptions) *agentcore.TypedToolAdapter[*BashInput] {
	var resolvedOpts BashToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}
	if resolvedOpts.MaxOutputLength <= 0 {
		resolvedOpts.MaxOutputLength = DefaultMaxOutputLength
	}

	var pathValidator *PathValidator
	var configErr error
	if resolvedOpts.WorkspaceDir != "" {
		pathValidator, configErr = NewPathValidator(resolvedOpts.WorkspaceDir)
	}

	var sandboxManager *sandbox.Manager
	if resolvedOpts.SandboxConfig != nil {
		sandboxManager = sandbox.NewManager(resolvedOpts.SandboxConfig)
	}

	return agentcore.ToolAdapter(&BashTool{
		sessions:       make(map[string]*shellSession),
		pathValidator:  pathValidator,
		workspaceDir:   resolvedOpts.WorkspaceDir,
		configErr:      configErr,
		maxOutputLen:   resolvedOpts.MaxOutputLength,
		sandboxManager: sandboxManager,
		shellManager:   resolvedOpts.ShellManager,
		extraEnv:       resolvedOpts.ExtraEnv,
	})
}

func (t *BashTool) Name() string {
	return "Bash"
}

func (t *BashTool) Description() string {
	desc := `Execute shell commands in a non-interactive, sandboxed shell.

Each call synthesizes a fresh, single shell invocation rather than driving a
persistent process: your rc file is sourced (failures there are ignored), the
working directory is applied, and the command runs with stdin closed.

Parameters:
- command: The shell command to run (required)
- shell_id: Selects a named session. Calls sharing a shell_id see each
  other's resulting working directory (and, with advanced_persistence,
  exported environment variables). Omit it to use one default session.
- timeout: Timeout in milliseconds (max 600000ms / 10 minutes, default 120000ms / 2 minutes)
- description: Brief description of what the command does (5-10 words)
- working_directory: Working directory for this call
- run_in_background: Start the command asynchronously; returns a shell ID to
  poll with get_shell_output instead of waiting for completion
- advanced_persistence: Also snapshot and replay exported environment
  variables across calls sharing a shell_id
- dangerously_disable_sandbox: Bypass sandboxed execution for this call

Limitations:
- No interactive commands (vim, less, password prompts)
- No GUI applications
- Large outputs may be truncated

`
	desc += fmt.Sprintf("Running on '%s' operating system.", runtime.GOOS)
	return desc
}

func (t *BashTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"command"},
		Properties: map[string]*schema.Property{
			"command": {
				Type:        "string",
				Description: "The shell command to run.",
			},
			"shell_id": {
				Type:        "string",
				Description: "Session to run in. Calls sharing a shell_id see each other's resulting working directory. Defaults to a single implicit session.",
			},
			"timeout": {
				Type:        "integer",
				Description: "Timeout in milliseconds (max 600000ms / 10 minutes). Default is 120000ms (2 minutes).",
			},
			"description": {
				Type:        "string",
				Description: "A brief description of what this command does (5-10 words).",
			},
			"working_directory": {
				Type:        "string",
				Description: "The working directory for this call.",
			},
			"run_in_background": {
				Type:        "boolean",
				Description: "Start the command asynchronously and return a shell ID immediately instead of waiting for it to finish.",
			},
			"advanced_persistence": {
				Type:        "boolean",
				Description: "Snapshot and replay exported environment variables across calls sharing a shell_id, in addition to the working directory.",
			},
			"dangerously_disable_sandbox": {
				Type:        "boolean",
				Description: "Bypass sandboxed execution for this call.",
			},
		},
	}
}

func (t *BashTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "Bash",
		ReadOnlyHint:    false,
		IdempotentHint:  false,
		DestructiveHint: true,
		OpenWorldHint:   true,
	}
}

func (t *BashTool) PreviewCall(ctx context.Context, input *BashInput) *agentcore.ToolCallPreview {
	summary := fmt.Sprintf("Run `%s`", truncateCommand(input.Command, 50))
	if input.Description != "" {
		summary = input.Description
	}
	return &agentcore.ToolCallPreview{
		Summary: summary,
	}
}

// session returns (creating if necessary) the named session's state.
func (t *BashTool) session(shellID string) *shellSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	if shellID == "" {
		shellID = defaultShellID
	}
	s, ok := t.sessions[shellID]
	if !ok {
		s = &shellSession{env: make(map[string]string)}
		t.sessions[shellID] = s
	}
	return s
}

func (t *BashTool) Call(ctx context.Context, input *BashInput) (*agentcore.ToolResult, error) {
	if t.configErr != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}

	if input.Command == "" {
		return agentcore.NewToolResultError("error: 'command' is required"), nil
	}

	if t.workspaceDir != "" && t.pathValidator == nil {
		return agentcore.NewToolResultError(fmt.Sprintf(
			"error: WorkspaceDir %q configured but path validator is not initialized", t.workspaceDir)), nil
	}

	if input.WorkingDirectory != "" && t.pathValidator != nil {
		if err := t.pathValidator.ValidateRead(input.WorkingDirectory); err != nil {
			return agentcore.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
		}
	}

	sess := t.session(input.ShellID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	workingDir := input.WorkingDirectory
	if workingDir == "" {
		workingDir = sess.cwd
	}

	timeout := DefaultBashTimeout
	if input.Timeout > 0 {
		timeout = time.Duration(input.Timeout) * time.Millisecond
		if timeout > MaxBashTimeout {
			timeout = MaxBashTimeout
		}
	}

	if input.RunInBackground {
		return t.runInBackground(ctx, input, sess, workingDir)
	}

	stdout, stderr, exitCode, err := t.runOnce(ctx, input, sess, workingDir, timeout)
	if err != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	result := map[string]interface{}{
		"stdout":      stdout,
		"stderr":      stderr,
		"return_code": exitCode,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}

	display := input.Description
	if display == "" {
		display = fmt.Sprintf("Ran `%s`", truncateCommand(input.Command, 40))
	}
	display = fmt.Sprintf("%s (exit %d)", display, exitCode)

	if exitCode != 0 {
		return agentcore.NewToolResultError(string(resultJSON)).WithDisplay(display), nil
	}
	return agentcore.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}

// runInBackground hands the synthesized script to the shell manager and
// returns its ID without waiting for completion.
func (t *BashTool) runInBackground(ctx context.Context, input *BashInput, sess *shellSession, workingDir string) (*agentcore.ToolResult, error) {
	if t.shellManager == nil {
		return agentcore.NewToolResultError("error: run_in_background is not available (no shell manager configured)"), nil
	}

	script := t.buildScript(input.Command, workingDir, sess.env, "", "")
	shell, shellArgs := shellCommand()
	shellArgs = append(shellArgs, "-c", script)

	id, err := t.shellManager.StartBackground(ctx, shell, shellArgs, input.Description, workingDir)
	if err != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("error starting background shell: %s", err.Error())), nil
	}

	display := input.Description
	if display == "" {
		display = fmt.Sprintf("Started `%s` in background", truncateCommand(input.Command, 40))
	}
	result := map[string]interface{}{"shell_id": id}
	resultJSON, _ := json.Marshal(result)
	return agentcore.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}

// runOnce synthesizes and runs a single non-interactive shell invocation,
// then installs the resulting cwd (and, under advanced persistence, the
// exported environment) back onto sess for the session's next call.
func (t *BashTool) runOnce(ctx context.Context, input *BashInput, sess *shellSession, workingDir string, timeout time.Duration) (stdout, stderr string, exitCode int, err error) {
	cwdFile, err := os.CreateTemp("", "agentcore-cwd-*")
	if err != nil {
		return "", "", -1, fmt.Errorf("failed to create cwd capture file: %w", err)
	}
	cwdFile.Close()
	defer os.Remove(cwdFile.Name())

	var envFile *os.File
	if input.AdvancedPersistence {
		envFile, err = os.CreateTemp("", "agentcore-env-*")
		if err != nil {
			return "", "", -1, fmt.Errorf("failed to create env capture file: %w", err)
		}
		envFile.Close()
		defer os.Remove(envFile.Name())
	}

	envFileName := ""
	if envFile != nil {
		envFileName = envFile.Name()
	}
	script := t.buildScript(input.Command, workingDir, sess.env, cwdFile.Name(), envFileName)

	shellName, shellArgs := shellCommand()
	shellArgs = append(shellArgs, "-c", script)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, shellName, shellArgs...)
	cmd.Env = t.buildEnviron()

	var cleanup func()
	if t.sandboxManager != nil && !input.DangerouslyDisableSandbox {
		var wrapped *exec.Cmd
		wrapped, cleanup, err = t.sandboxManager.Wrap(runCtx, cmd)
		if err != nil {
			return "", "", -1, fmt.Errorf("sandbox wrap failed: %w", err)
		}
		cmd = wrapped
	}
	if cleanup != nil {
		defer cleanup()
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = nil

	runErr := cmd.Run()

	stdout = truncateOutput(strings.TrimRight(stdoutBuf.String(), "\n"), t.maxOutputLen)
	stderr = truncateOutput(strings.TrimRight(stderrBuf.String(), "\n"), t.maxOutputLen)

	if runCtx.Err() == context.DeadlineExceeded {
		stderr = strings.TrimSpace(stderr + fmt.Sprintf("\ncommand timed out after %s", timeout))
		return stdout, stderr, -1, nil
	}

	exitCode = 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return stdout, stderr, -1, runErr
		}
	}

	t.installSessionState(sess, workingDir, cwdFile.Name(), envFileName)
	return stdout, stderr, exitCode, nil
}

// buildScript assembles the sequential step chain described in the shell
// session store design: source the rc file, replay persisted state, cd into
// the working directory, run the command with stdin closed, then capture
// the resulting cwd (and, if envFile is set, the exported environment).
// Each step tolerates its own failure except the cd step, which aborts the
// whole script on a hard failure, and the command step itself.
func (t *BashTool) buildScript(command, workingDir string, persistedEnv map[string]string, cwdFile, envFile string) string {
	var steps []string

	steps = append(steps, "{ [ -f ~/.bashrc ] && source ~/.bashrc || true; } >/dev/null 2>&1")

	for k, v := range persistedEnv {
		steps = append(steps, fmt.Sprintf("{ export %s=%s || true; } 2>/dev/null", k, shellQuote(v)))
	}

	if workingDir != "" {
		steps = append(steps, fmt.Sprintf(
			"cd %s || { echo %s >&2; exit 1; }",
			shellQuote(workingDir),
			shellQuote(fmt.Sprintf("agentcore: failed to cd into %s", workingDir))))
	}

	steps = append(steps, fmt.Sprintf("eval %s < /dev/null", shellQuote(command)))
	mainExit := "exit_code=$?"
	steps = append(steps, mainExit)

	if cwdFile != "" {
		steps = append(steps, fmt.Sprintf("pwd -P >| %s", shellQuote(cwdFile)))
	}
	if envFile != "" {
		steps = append(steps, fmt.Sprintf(
			"{ set +o posix; (set; echo %s; env) > %s; } 2>/dev/null",
			shellQuote(envMarkerBanner), shellQuote(envFile)))
	}

	steps = append(steps, "exit $exit_code")
	return strings.Join(steps, "\n")
}

// buildEnviron returns the base environment for a synthesized invocation:
// a stable, anti-color, non-interactive baseline plus any configured extras.
func (t *BashTool) buildEnviron() []string {
	base := os.Environ()
	overrides := map[string]string{
		"SHELL":            defaultShell(),
		"GIT_EDITOR":       "true",
		"CLAUDECODE":       "1",
		"NO_COLOR":         "1",
		"TERM":             "dumb",
		"CARGO_TERM_COLOR": "never",
		"CLICOLOR":         "0",
	}
	for k, v := range t.extraEnv {
		overrides[k] = v
	}

	env := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		name := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			name = kv[:idx]
		}
		if v, ok := overrides[name]; ok {
			env = append(env, name+"="+v)
			seen[name] = true
			continue
		}
		env = append(env, kv)
	}
	for name, v := range overrides {
		if !seen[name] {
			env = append(env, name+"="+v)
		}
	}
	return env
}

// installSessionState reads back the cwd (and, if present, the exported
// environment) a finished invocation captured, so the session's next call
// continues from there.
func (t *BashTool) installSessionState(sess *shellSession, previousCwd, cwdFile, envFile string) {
	if data, err := os.ReadFile(cwdFile); err == nil {
		if cwd := strings.TrimSpace(string(data)); cwd != "" {
			sess.cwd = cwd
		}
	} else if previousCwd != "" {
		sess.cwd = previousCwd
	}

	if envFile == "" {
		return
	}
	data, err := os.ReadFile(envFile)
	if err != nil {
		return
	}
	_, exportsBlock, found := strings.Cut(string(data), envMarkerBanner+"\n")
	if !found {
		return
	}
	next := make(map[string]string)
	for _, line := range strings.Split(exportsBlock, "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok || name == "" || isAmbientEnvVar(name) {
			continue
		}
		next[name] = value
	}
	sess.env = next
}

// shellCommand returns the shell binary and its leading arguments for the
// current OS.
func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/Q", "/C"}
	}
	return defaultShell(), nil
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/bash"
}

// shellQuote single-quotes s for safe inclusion in a POSIX shell command,
// escaping any embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Close stops no process, since synthesized invocations own no long-lived
// one; it clears the sessions (cwd/env state) so a reused BashTool starts
// fresh.
func (t *BashTool) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = make(map[string]*shellSession)
	return nil
}

// truncateCommand truncates a command string for display, replacing newlines with spaces
func truncateCommand(s string, maxLen int) string {
	// Remove newlines for display
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// truncateOutput truncates command output to maxLen characters, appending a
// marker. A maxLen of 0 disables truncation.
func truncateOutput(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "\n... (output truncated)"
}
