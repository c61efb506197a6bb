// Package permission provides tool permission management for agentcore agents.
//
// This package implements permission checking as a PreToolUse hook,
// including rule-based evaluation, session allowlists, and user confirmation.
//
// Example:
//
//	config := &permission.Config{
//	    Mode: permission.ModeDefault,
//	    Rules: permission.Rules{
//	        permission.AllowRule("Read"),
//	        permission.AskRule("Bash", "Execute command?"),
//	    },
//	}
//	preToolHook := permission.Hook(config, &agentcore.AutoApproveDialog{})
//
//	agent, _ := driver.New(driver.Options{
//	    AgentOptions: agentcore.AgentOptions{
//	        Hooks: agentcore.Hooks{
//	            PreToolUse: []agentcore.PreToolUseHook{preToolHook},
//	        },
//	    },
//	    LLM: llmClient,
//	})
package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/llm"
)

// Mode determines the global permission behavior.
type Mode string

const (
	// ModeDefault applies standard permission checks based on rules.
	ModeDefault Mode = "default"

	// ModePlan restricts the agent to read-only operations.
	ModePlan Mode = "plan"

	// ModeAcceptEdits auto-accepts file edit operations.
	ModeAcceptEdits Mode = "acceptEdits"

	// ModeBypassPermissions allows ALL tools without prompts.
	ModeBypassPermissions Mode = "bypassPermissions"

	// ModeDontAsk auto-denies any tool call that is not explicitly allowed
	// by a rule. This is useful for headless/automation use cases.
	ModeDontAsk Mode = "dontAsk"
)

// RuleType indicates what action a rule takes when it matches.
type RuleType string

const (
	RuleDeny  RuleType = "deny"
	RuleAllow RuleType = "allow"
	RuleAsk   RuleType = "ask"
)

// Rule defines a declarative permission rule.
type Rule struct {
	Type      RuleType
	Tool      string
	Specifier string
	Message   string

	// InputMatch is an optional custom matcher for tool input.
	InputMatch func(input any) bool
}

// String returns a human-readable representation like "allow:Bash(go test *)".
func (r Rule) String() string {
	s := string(r.Type) + ":" + r.Tool
	if r.Specifier != "" {
		s += "(" + r.Specifier + ")"
	}
	return s
}

// Rules is an ordered list of permission rules.
type Rules []Rule

// SpecifierFieldFunc extracts the specifier value from a tool call's input.
// The input is the raw JSON input from the tool call.
type SpecifierFieldFunc func(input json.RawMessage) string

// Config contains all permission-related configuration.
type Config struct {
	Mode  Mode
	Rules Rules

	// SpecifierFields maps tool names to functions that extract the specifier
	// value from tool call input. If not set, DefaultSpecifierFields is used.
	SpecifierFields map[string]SpecifierFieldFunc

	// BypassAccepted gates ModeBypassPermissions for the built-in
	// CheckCommand/CheckFileOperation algorithm: a session only skips that
	// algorithm's checks once the user has explicitly accepted running
	// without prompts, not merely by the mode being set.
	BypassAccepted bool

	// AllowedCommandPrefixes and DeniedCommandPrefixes are consulted by
	// CheckCommand ahead of the safe-readonly predicate (steps 3 and 5 of
	// the command decision algorithm).
	AllowedCommandPrefixes []string
	DeniedCommandPrefixes  []string

	// AllowedDirectories bounds the "in cwd" free pass CheckFileOperation
	// gives non-sensitive paths.
	AllowedDirectories []string

	// AlwaysAllowCommands and AlwaysDenyCommands seed the per-tool pattern
	// maps CheckCommand/CheckFileOperation consult (steps 2 and 4 of the
	// command decision algorithm).
	// ProcessPermissionDecision grows these at runtime; this field only
	// seeds the manager's starting state.
	AlwaysAllowCommands map[string][]string
	AlwaysDenyCommands  map[string][]string
}

// Behavior is the outcome of a permission decision: either terminal
// (Allow/Deny) or a request for more input (Ask/Wait), or a terminal
// decision that also teaches the manager a new pattern (AlwaysAllow/Never).
type Behavior string

const (
	BehaviorAllow       Behavior = "allow"
	BehaviorDeny        Behavior = "deny"
	BehaviorAsk         Behavior = "ask"
	BehaviorAlwaysAllow Behavior = "always_allow"
	BehaviorNever       Behavior = "never"
	BehaviorWait        Behavior = "wait"
)

// CommandCheck is the result of CheckCommand/CheckFileOperation.
type CommandCheck struct {
	Behavior Behavior
	Message  string
}

// PendingRequest describes the single outstanding Ask the manager is
// waiting on. Only one pending request exists at a time per manager - a
// new check installed while one is outstanding simply overwrites it.
type PendingRequest struct {
	Tool      string
	Kind      string // "command" or "file"
	Specifier string
	Path      string
	Operation string
}

// Decision is one entry in the manager's permission history, or the input
// to ProcessPermissionDecision when resolving a pending Ask.
type Decision struct {
	Tool      string
	Specifier string
	Behavior  Behavior
}

// Manager orchestrates the permission evaluation flow.
type Manager struct {
	mu             sync.RWMutex
	config         *Config
	dialog         agentcore.Dialog
	sessionAllowed map[string]bool

	alwaysAllow map[string][]string
	alwaysDeny  map[string][]string
	history     []Decision
	pending     *PendingRequest
}

// NewManager creates a new permission manager.
func NewManager(config *Config, dialog agentcore.Dialog) *Manager {
	if config == nil {
		config = &Config{Mode: ModeDefault}
	}
	m := &Manager{
		config:         config,
		dialog:         dialog,
		sessionAllowed: make(map[string]bool),
		alwaysAllow:    make(map[string][]string),
		alwaysDeny:     make(map[string][]string),
	}
	for tool, patterns := range config.AlwaysAllowCommands {
		m.alwaysAllow[tool] = append([]string{}, patterns...)
	}
	for tool, patterns := range config.AlwaysDenyCommands {
		m.alwaysDeny[tool] = append([]string{}, patterns...)
	}
	return m
}

// Internal decision type used between evaluateRules/evaluateMode and EvaluateToolUse.
type decision int

const (
	noDecision decision = iota
	allow
	deny
	askUser
)

// EvaluateToolUse runs the full permission evaluation flow.
// Returns nil if the tool is allowed, or an error if denied.
func (pm *Manager) EvaluateToolUse(
	ctx context.Context,
	tool agentcore.Tool,
	call *llm.ToolUseContent,
) error {
	// Check session allowlist
	if tool != nil {
		category := GetToolCategory(tool.Name())
		pm.mu.RLock()
		allowed := pm.sessionAllowed[category.Key]
		pm.mu.RUnlock()
		if allowed {
			return nil
		}
	}

	// Evaluate rules
	d, msg := pm.evaluateRules(tool, call)
	switch d {
	case deny:
		return fmt.Errorf("%s", msg)
	case allow:
		return nil
	case askUser:
		return pm.confirm(ctx, tool, call, msg)
	}

	// Check permission mode
	d, msg = pm.evaluateMode(tool, call)
	switch d {
	case deny:
		return fmt.Errorf("%s", msg)
	case allow:
		return nil
	}

	// Neither an explicit rule nor the permission mode decided this call:
	// fall back to the built-in command/file-operation algorithm before
	// asking, so always-allow/always-deny patterns, configured prefixes,
	// and the safe-readonly predicate all get a chance to avoid a prompt.
	if tool != nil {
		if check, handled := pm.checkBuiltinAlgorithm(tool, call); handled {
			switch check.Behavior {
			case BehaviorAllow:
				return nil
			case BehaviorDeny:
				return fmt.Errorf("%s", check.Message)
			}
			// BehaviorAsk: fall through to the same interactive dialog
			// used when nothing above produced a decision.
		}
	}

	// Default: ask for confirmation
	return pm.confirm(ctx, tool, call, "")
}

// checkBuiltinAlgorithm routes a Bash-category or file-category tool call
// through CheckCommand/CheckFileOperation. handled is false when the tool
// is neither (nothing in the spec's built-in algorithm applies to it, e.g.
// Glob/Grep/Task) or the call carries no extractable specifier.
func (pm *Manager) checkBuiltinAlgorithm(tool agentcore.Tool, call *llm.ToolUseContent) (CommandCheck, bool) {
	if call == nil {
		return CommandCheck{}, false
	}
	toolName := tool.Name()
	category := GetToolCategory(toolName)
	switch category.Key {
	case CategoryBash.Key:
		command := pm.extractSpecifier(toolName, call.Input)
		if command == "" {
			return CommandCheck{}, false
		}
		return pm.CheckCommand(toolName, command), true
	case CategoryEdit.Key, CategoryRead.Key:
		path := pm.extractSpecifier(toolName, call.Input)
		if path == "" {
			return CommandCheck{}, false
		}
		return pm.CheckFileOperation(toolName, path, category.Label), true
	default:
		return CommandCheck{}, false
	}
}

// CheckCommand runs the built-in command decision algorithm (§4.1):
//
//  1. Bypass mode with BypassAccepted -> Allow.
//  2. Per-tool always-deny pattern contains-match -> Deny.
//  3. Denied-command prefix -> Deny.
//  4. Per-tool always-allow pattern starts-with/"*" -> Allow.
//  5. Allowed-command prefix -> Allow.
//  6. Safe-readonly base command -> Allow.
//  7. Otherwise Ask, with a pending request recorded.
//
// Every outcome is appended to the manager's decision history.
func (pm *Manager) CheckCommand(toolName, command string) CommandCheck {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.config.Mode == ModeBypassPermissions && pm.config.BypassAccepted {
		return pm.recordLocked(toolName, command, BehaviorAllow, "")
	}
	for _, pattern := range pm.alwaysDeny[toolName] {
		if pattern == "*" || strings.Contains(command, pattern) {
			return pm.recordLocked(toolName, command, BehaviorDeny, fmt.Sprintf("%s is always denied for this session", pattern))
		}
	}
	for _, prefix := range pm.config.DeniedCommandPrefixes {
		if strings.HasPrefix(command, prefix) {
			return pm.recordLocked(toolName, command, BehaviorDeny, fmt.Sprintf("command prefix %q is denied", prefix))
		}
	}
	for _, pattern := range pm.alwaysAllow[toolName] {
		if pattern == "*" || strings.HasPrefix(command, pattern) {
			return pm.recordLocked(toolName, command, BehaviorAllow, "")
		}
	}
	for _, prefix := range pm.config.AllowedCommandPrefixes {
		if strings.HasPrefix(command, prefix) {
			return pm.recordLocked(toolName, command, BehaviorAllow, "")
		}
	}
	if isSafeReadOnlyCommand(command) {
		return pm.recordLocked(toolName, command, BehaviorAllow, "")
	}

	pm.pending = &PendingRequest{Tool: toolName, Kind: "command", Specifier: command}
	return pm.recordLocked(toolName, command, BehaviorAsk, "")
}

// CheckFileOperation runs the file-operation form of the decision
// algorithm: per-tool always-deny/always-allow patterns first, then an
// allowed-directory-prefix check that a sensitive path name never gets to
// skip (§4.1).
func (pm *Manager) CheckFileOperation(toolName, path, op string) CommandCheck {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.config.Mode == ModeBypassPermissions && pm.config.BypassAccepted {
		return pm.recordLocked(toolName, path, BehaviorAllow, "")
	}
	for _, pattern := range pm.alwaysDeny[toolName] {
		if pattern == "*" || strings.HasPrefix(path, pattern) {
			return pm.recordLocked(toolName, path, BehaviorDeny, fmt.Sprintf("%s is always denied for this session", pattern))
		}
	}
	for _, pattern := range pm.alwaysAllow[toolName] {
		if pattern == "*" || strings.HasPrefix(path, pattern) {
			return pm.recordLocked(toolName, path, BehaviorAllow, "")
		}
	}
	if !isSensitivePath(path) {
		for _, dir := range pm.config.AllowedDirectories {
			if strings.HasPrefix(path, dir) {
				return pm.recordLocked(toolName, path, BehaviorAllow, "")
			}
		}
	}

	pm.pending = &PendingRequest{Tool: toolName, Kind: "file", Specifier: path, Path: path, Operation: op}
	return pm.recordLocked(toolName, path, BehaviorAsk, "")
}

// ProcessPermissionDecision finalizes the manager's pending Ask with the
// user's choice. AlwaysAllow and Never extract a pattern from the pending
// request - the base command token for a shell command, the parent
// directory for a path - and record it in the always-allow/always-deny
// map so future CheckCommand/CheckFileOperation calls short-circuit on it.
func (pm *Manager) ProcessPermissionDecision(d Decision) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pending := pm.pending
	pm.pending = nil

	switch d.Behavior {
	case BehaviorAlwaysAllow:
		pattern := extractPattern(pending, d)
		pm.alwaysAllow[d.Tool] = append(pm.alwaysAllow[d.Tool], pattern)
		pm.history = append(pm.history, Decision{Tool: d.Tool, Specifier: pattern, Behavior: BehaviorAlwaysAllow})
		return nil
	case BehaviorNever:
		pattern := extractPattern(pending, d)
		pm.alwaysDeny[d.Tool] = append(pm.alwaysDeny[d.Tool], pattern)
		pm.history = append(pm.history, Decision{Tool: d.Tool, Specifier: pattern, Behavior: BehaviorNever})
		return fmt.Errorf("user denied tool call")
	case BehaviorAllow:
		pm.history = append(pm.history, d)
		return nil
	case BehaviorWait:
		pm.history = append(pm.history, d)
		return fmt.Errorf("user deferred tool call")
	case BehaviorDeny:
		pm.history = append(pm.history, d)
		return fmt.Errorf("user denied tool call")
	default:
		return fmt.Errorf("unknown permission decision: %s", d.Behavior)
	}
}

// History returns a copy of every decision the manager has recorded, in
// the order they were made.
func (pm *Manager) History() []Decision {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return append([]Decision{}, pm.history...)
}

// Pending returns the manager's outstanding Ask request, or nil if there
// isn't one.
func (pm *Manager) Pending() *PendingRequest {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.pending
}

// recordLocked appends a decision to the history and returns it as a
// CommandCheck. Callers must hold pm.mu.
func (pm *Manager) recordLocked(toolName, specifier string, b Behavior, message string) CommandCheck {
	pm.history = append(pm.history, Decision{Tool: toolName, Specifier: specifier, Behavior: b})
	return CommandCheck{Behavior: b, Message: message}
}

func extractPattern(pending *PendingRequest, d Decision) string {
	if pending != nil && pending.Kind == "file" {
		return filepath.Dir(pending.Path)
	}
	specifier := d.Specifier
	if pending != nil && pending.Specifier != "" {
		specifier = pending.Specifier
	}
	fields := strings.Fields(specifier)
	if len(fields) == 0 {
		return "*"
	}
	base := fields[0]
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	return base
}

var safeReadOnlyBaseCommands = map[string]bool{
	"ls":    true,
	"pwd":   true,
	"echo":  true,
	"cat":   true,
	"grep":  true,
	"find":  true,
	"which": true,
}

// isSafeReadOnlyCommand implements step 6 of the command decision
// algorithm: a hard-coded predicate over the command's base name, plus
// the read-only git subcommands.
func isSafeReadOnlyCommand(command string) bool {
	fields := strings.Fields(strings.TrimSpace(command))
	if len(fields) == 0 {
		return false
	}
	base := fields[0]
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if safeReadOnlyBaseCommands[base] {
		return true
	}
	if base == "git" && len(fields) > 1 {
		switch fields[1] {
		case "status", "diff", "log":
			return true
		}
	}
	return false
}

// isSensitivePath reports whether path's file name should never get the
// "in an allowed directory" free pass, even when it sits under one.
func isSensitivePath(path string) bool {
	base := filepath.Base(path)
	if base == ".git" {
		return true
	}
	if strings.HasPrefix(base, ".env") {
		return true
	}
	lower := strings.ToLower(base)
	for _, kw := range []string{"secret", "password", "key"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (pm *Manager) evaluateRules(tool agentcore.Tool, call *llm.ToolUseContent) (decision, string) {
	if tool == nil || call == nil {
		return noDecision, ""
	}

	pm.mu.RLock()
	var denyRules, allowRules, askRules Rules
	for _, rule := range pm.config.Rules {
		switch rule.Type {
		case RuleDeny:
			denyRules = append(denyRules, rule)
		case RuleAllow:
			allowRules = append(allowRules, rule)
		case RuleAsk:
			askRules = append(askRules, rule)
		}
	}
	pm.mu.RUnlock()

	toolName := tool.Name()

	// Check deny rules first
	for _, rule := range denyRules {
		if pm.matchRule(rule, toolName, call) {
			return deny, rule.Message
		}
	}

	// Check allow rules
	for _, rule := range allowRules {
		if pm.matchRule(rule, toolName, call) {
			return allow, ""
		}
	}

	// Check ask rules
	for _, rule := range askRules {
		if pm.matchRule(rule, toolName, call) {
			return askUser, rule.Message
		}
	}

	return noDecision, ""
}

func (pm *Manager) matchRule(rule Rule, toolName string, call *llm.ToolUseContent) bool {
	// Match tool pattern using glob
	if !MatchGlob(rule.Tool, toolName) {
		return false
	}

	// Match specifier pattern if specified
	if rule.Specifier != "" {
		specifier := pm.extractSpecifier(toolName, call.Input)
		if specifier == "" || !MatchGlob(rule.Specifier, specifier) {
			return false
		}
	}

	// Match input if specified
	if rule.InputMatch != nil {
		var input any
		if err := json.Unmarshal(call.Input, &input); err != nil {
			return false
		}
		if !rule.InputMatch(input) {
			return false
		}
	}

	return true
}

func (pm *Manager) extractSpecifier(toolName string, input json.RawMessage) string {
	pm.mu.RLock()
	specFields := pm.config.SpecifierFields
	pm.mu.RUnlock()

	// Check user-configured specifier fields first
	if specFields != nil {
		if fn, ok := specFields[toolName]; ok {
			return fn(input)
		}
	}

	// Fall back to defaults
	if fn, ok := DefaultSpecifierFields[toolName]; ok {
		return fn(input)
	}
	return ""
}

func (pm *Manager) evaluateMode(tool agentcore.Tool, call *llm.ToolUseContent) (decision, string) {
	pm.mu.RLock()
	mode := pm.config.Mode
	pm.mu.RUnlock()

	switch mode {
	case ModeBypassPermissions:
		return allow, ""

	case ModePlan:
		if tool != nil {
			annotations := tool.Annotations()
			if annotations != nil && annotations.ReadOnlyHint {
				return allow, ""
			}
		}
		return deny, "only read-only tools are allowed in plan mode"

	case ModeAcceptEdits:
		if pm.isEditOperation(tool, call) {
			return allow, ""
		}
		return noDecision, ""

	case ModeDontAsk:
		return deny, "tool not explicitly allowed (dontAsk mode)"

	default:
		return noDecision, ""
	}
}

func (pm *Manager) isEditOperation(tool agentcore.Tool, _ *llm.ToolUseContent) bool {
	if tool == nil {
		return false
	}

	annotations := tool.Annotations()
	if annotations != nil && annotations.EditHint {
		return true
	}

	toolName := tool.Name()
	editNames := []string{"Edit", "Write", "Create", "Mkdir", "Touch"}
	for _, name := range editNames {
		if MatchGlob(name, toolName) || MatchGlob("*"+name+"*", toolName) {
			return true
		}
	}
	return false
}

// confirm prompts the user for tool confirmation.
// Returns nil if approved, error if denied.
func (pm *Manager) confirm(
	ctx context.Context,
	tool agentcore.Tool,
	call *llm.ToolUseContent,
	message string,
) error {
	if pm.dialog == nil {
		return nil // no dialog = auto-allow
	}
	output, err := pm.dialog.Show(ctx, &agentcore.DialogInput{
		Confirm: true,
		Title:   tool.Name(),
		Message: message,
		Tool:    tool,
		Call:    call,
	})
	if err != nil {
		return err
	}
	if output.AllowSession {
		category := GetToolCategory(tool.Name())
		pm.AllowForSession(category.Key)
		return nil
	}
	if output.Feedback != "" {
		return agentcore.NewUserFeedback(output.Feedback)
	}
	if output.Canceled || !output.Confirmed {
		return fmt.Errorf("user denied tool call")
	}
	return nil
}

// Mode returns the current permission mode.
func (pm *Manager) Mode() Mode {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.config.Mode
}

// SetMode updates the permission mode dynamically.
func (pm *Manager) SetMode(mode Mode) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.config.Mode = mode
}

// AllowForSession marks a tool category as allowed for this session.
func (pm *Manager) AllowForSession(categoryKey string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.sessionAllowed[categoryKey] = true
}

// IsSessionAllowed checks if a tool category is allowed for this session.
func (pm *Manager) IsSessionAllowed(categoryKey string) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.sessionAllowed[categoryKey]
}

// ClearSessionAllowlist removes all session-scoped allowlist entries.
func (pm *Manager) ClearSessionAllowlist() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.sessionAllowed = make(map[string]bool)
}

// Category represents a tool's category for session allowlist purposes.
type Category struct {
	Key   string
	Label string
}

// Common tool categories.
var (
	CategoryBash   = Category{Key: "bash", Label: "bash commands"}
	CategoryEdit   = Category{Key: "edit", Label: "file edits"}
	CategoryRead   = Category{Key: "read", Label: "file reads"}
	CategorySearch = Category{Key: "search", Label: "searches"}
)

// GetToolCategory determines the category of a tool based on its name.
func GetToolCategory(toolName string) Category {
	if MatchGlob("*{Bash,Command,Shell,Exec,Run}*", toolName) {
		return CategoryBash
	}
	if MatchGlob("*{Edit,Write,Create,Mkdir,Touch}*", toolName) {
		return CategoryEdit
	}
	if MatchGlob("*Read*", toolName) {
		return CategoryRead
	}
	if MatchGlob("*{Glob,Grep,Search}*", toolName) {
		return CategorySearch
	}
	return Category{Key: toolName, Label: toolName + " operations"}
}

// DefaultSpecifierFields maps tool names to functions that extract the
// specifier value from the tool call input. These are used when
// Config.SpecifierFields does not have an entry for the tool.
var DefaultSpecifierFields = map[string]SpecifierFieldFunc{
	"Bash": func(input json.RawMessage) string {
		return jsonStringField(input, "command", "cmd", "script", "code")
	},
	"Read": func(input json.RawMessage) string {
		return jsonStringField(input, "file_path", "filePath", "path")
	},
	"Write": func(input json.RawMessage) string {
		return jsonStringField(input, "file_path", "filePath", "path")
	},
	"Edit": func(input json.RawMessage) string {
		return jsonStringField(input, "file_path", "filePath", "path")
	},
	"WebFetch": func(input json.RawMessage) string {
		return jsonStringField(input, "url")
	},
}

// jsonStringField extracts the first non-empty string value from the given
// JSON object for the specified field names.
func jsonStringField(input json.RawMessage, fields ...string) string {
	var m map[string]any
	if err := json.Unmarshal(input, &m); err != nil {
		return ""
	}
	for _, field := range fields {
		if v, ok := m[field].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Helper functions to create rules.

// DenyRule creates a deny rule for a tool pattern.
func DenyRule(toolPattern string, message string) Rule {
	return Rule{Type: RuleDeny, Tool: toolPattern, Message: message}
}

// AllowRule creates an allow rule for a tool pattern.
func AllowRule(toolPattern string) Rule {
	return Rule{Type: RuleAllow, Tool: toolPattern}
}

// AskRule creates an ask rule for a tool pattern.
func AskRule(toolPattern string, message string) Rule {
	return Rule{Type: RuleAsk, Tool: toolPattern, Message: message}
}

// DenySpecifierRule creates a deny rule for a tool with a specifier pattern.
func DenySpecifierRule(toolPattern, specifierPattern, message string) Rule {
	return Rule{Type: RuleDeny, Tool: toolPattern, Specifier: specifierPattern, Message: message}
}

// AllowSpecifierRule creates an allow rule for a tool with a specifier pattern.
func AllowSpecifierRule(toolPattern, specifierPattern string) Rule {
	return Rule{Type: RuleAllow, Tool: toolPattern, Specifier: specifierPattern}
}

// AskSpecifierRule creates an ask rule for a tool with a specifier pattern.
func AskSpecifierRule(toolPattern, specifierPattern, message string) Rule {
	return Rule{Type: RuleAsk, Tool: toolPattern, Specifier: specifierPattern, Message: message}
}
