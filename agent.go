package agentcore

import (
	"context"

	"github.com/forgeline/agentcore/llm"
)

// Agent is the contract the Sub-Agent Scheduler (the Task tool) and any
// top-level CLI host drive. An Agent owns its own Conversation Driver
// loop, tool set, and optional Session; CreateResponse runs one turn to
// completion (including any tool_use round-trips) and returns the final
// response.
type Agent interface {
	Name() string
	CreateResponse(ctx context.Context, opts ...CreateResponseOption) (*Response, error)
}

// AgentOptions configures a new Agent. Model is provider-specific
// (e.g. "claude-sonnet-4-5"). The driver package does not read it: its
// llm.StreamingLLM is supplied separately (driver.Options.LLM or the
// argument to driver.NewAgentFunc).
type AgentOptions struct {
	Name         string
	Model        string
	SystemPrompt string
	Tools        []Tool
	Session      Session
	Hooks        Hooks
	MaxIterations int
}

// NewAgentFunc is the constructor signature a driver implementation
// package exposes; it is a func type (rather than a concrete function)
// so packages that only need the Agent contract - toolkit, permission -
// never import the driver package and its provider dependencies.
type NewAgentFunc func(opts AgentOptions) (Agent, error)

// CreateResponseOptions accumulates the per-call overrides a
// CreateResponseOption applies. Values carries caller-defined metadata
// through to hooks (e.g. a request ID for audit logging).
type CreateResponseOptions struct {
	Messages []*llm.Message
	Session  Session
	Values   map[string]any
}

// CreateResponseOption mutates a CreateResponseOptions; see WithInput,
// WithMessage, WithSession, and WithValue.
type CreateResponseOption func(*CreateResponseOptions)

// WithInput adds a single user text message to the turn.
func WithInput(text string) CreateResponseOption {
	return func(o *CreateResponseOptions) {
		o.Messages = append(o.Messages, (&llm.Message{Role: llm.User}).WithText(text))
	}
}

// WithMessage adds a fully-formed message to the turn.
func WithMessage(message *llm.Message) CreateResponseOption {
	return func(o *CreateResponseOptions) {
		o.Messages = append(o.Messages, message)
	}
}

// WithSession overrides the agent's configured session for this call only.
func WithSession(session Session) CreateResponseOption {
	return func(o *CreateResponseOptions) {
		o.Session = session
	}
}

// WithValue attaches caller-defined metadata visible to hooks via
// CreateResponseOptions.Values.
func WithValue(key string, value any) CreateResponseOption {
	return func(o *CreateResponseOptions) {
		if o.Values == nil {
			o.Values = make(map[string]any)
		}
		o.Values[key] = value
	}
}

// ResponseItemType discriminates the union stored in ResponseItem.
type ResponseItemType string

const (
	ResponseItemTypeMessage  ResponseItemType = "message"
	ResponseItemTypeToolCall ResponseItemType = "tool_call"
)

// ResponseItem is one entry of a Response's transcript: either an
// assistant/tool message or a record of a tool invocation and its result.
type ResponseItem struct {
	Type       ResponseItemType   `json:"type"`
	Message    *llm.Message       `json:"message,omitempty"`
	ToolCallID string             `json:"tool_call_id,omitempty"`
	ToolName   string             `json:"tool_name,omitempty"`
	ToolResult *ToolResult        `json:"tool_result,omitempty"`
	Usage      *llm.Usage         `json:"usage,omitempty"`
}

// Response is the result of a completed CreateResponse call: the full
// sequence of messages and tool calls the Conversation Driver produced
// while satisfying the turn, in order.
type Response struct {
	ID         string          `json:"id"`
	Items      []*ResponseItem `json:"items"`
	StopReason string          `json:"stop_reason,omitempty"`
	Usage      *llm.Usage      `json:"usage,omitempty"`
}

// OutputText concatenates the text of every assistant message item, the
// form a caller (e.g. the Task tool reporting a sub-agent's result) wants
// when it doesn't care about the turn-by-turn tool detail.
func (r *Response) OutputText() string {
	var out string
	for _, item := range r.Items {
		if item.Type == ResponseItemTypeMessage && item.Message != nil && item.Message.Role == llm.Assistant {
			out += item.Message.Text()
		}
	}
	return out
}

// ToolCalls collects every tool_call item's synthesized llm.ToolCall (ID
// and name only).
func (r *Response) ToolCalls() []*llm.ToolCall {
	var calls []*llm.ToolCall
	for _, item := range r.Items {
		if item.Type == ResponseItemTypeToolCall {
			calls = append(calls, &llm.ToolCall{ID: item.ToolCallID, Name: item.ToolName})
		}
	}
	return calls
}

// SubagentDefinition describes a named sub-agent type the Task tool can
// instantiate (e.g. "general-purpose", "Explore", "Plan"): its system
// prompt, the subset of the parent's tools it is allowed to use, and the
// model it defaults to absent an explicit override.
type SubagentDefinition struct {
	Name         string
	Description  string
	SystemPrompt string
	Tools        []string
	Model        string
}
