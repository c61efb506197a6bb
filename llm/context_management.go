package llm

// ContextManagementConfig configures automatic context editing: server-side
// trimming of a conversation's tool-use history or thinking blocks once it
// grows past a threshold, so long-running agent loops don't run out of
// context window. Not all providers support this; unsupported providers
// ignore it.
type ContextManagementConfig struct {
	Edits []ContextManagementEdit `json:"edits"`
}

// ContextManagementEdit describes a single editing strategy, such as
// "clear_tool_uses_20250919" or "clear_thinking_20251015".
type ContextManagementEdit struct {
	Type            string                    `json:"type"`
	Trigger         *ContextManagementTrigger `json:"trigger,omitempty"`
	Keep            *ContextManagementKeep    `json:"keep,omitempty"`
	ClearAtLeast    *ContextManagementTrigger `json:"clear_at_least,omitempty"`
	ExcludeTools    []string                  `json:"exclude_tools,omitempty"`
	ClearToolInputs bool                      `json:"clear_tool_inputs,omitempty"`
}

// ContextManagementTrigger names the condition that activates an edit, e.g.
// {Type: "input_tokens", Value: 30000}.
type ContextManagementTrigger struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ContextManagementKeep names what an edit preserves when it runs, e.g.
// {Type: "tool_uses", Value: 3} or {Type: "thinking_turns", Value: "all"}.
type ContextManagementKeep struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// ContextManagementResponse reports what a provider actually edited for a
// given request.
type ContextManagementResponse struct {
	OriginalInputTokens int                  `json:"original_input_tokens"`
	AppliedEdits        []AppliedContextEdit `json:"applied_edits,omitempty"`
}

// AppliedContextEdit reports the effect of a single edit that ran.
type AppliedContextEdit struct {
	Type               string `json:"type"`
	ClearedToolUses    int    `json:"cleared_tool_uses,omitempty"`
	ClearedInputTokens int    `json:"cleared_input_tokens,omitempty"`
}

// WithContextManagement sets the context management configuration for a
// generate call.
func WithContextManagement(config *ContextManagementConfig) Option {
	return func(c *Config) {
		c.ContextManagement = config
	}
}
