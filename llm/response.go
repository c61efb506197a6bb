package llm

// Response is the generated response from an LLM. Matches the Anthropic
// response format documented here:
// https://docs.anthropic.com/en/api/messages#response-content
//
// Every LLM provider implementation must transform its responses into
// this type.
type Response struct {
	ID           string    `json:"id"`
	Model        string    `json:"model"`
	Role         Role      `json:"role"`
	Content      []Content `json:"content"`
	StopReason   string    `json:"stop_reason"`
	StopSequence *string   `json:"stop_sequence,omitempty"`
	Type         string    `json:"type"`
	Usage        Usage     `json:"usage"`
}

// ResponseOptions carries the fields a provider has on hand once it has
// finished parsing a completion (streamed or not) into the package's common
// Content/ToolCall shapes. ToolCalls is accepted for providers that have
// already extracted them, but NewResponse does not store it separately —
// Response.ToolCalls() derives the same information from Content on demand,
// so there is exactly one place tool calls live.
type ResponseOptions struct {
	ID           string
	Model        string
	Role         Role
	StopReason   string
	StopSequence *string
	Usage        Usage
	ToolCalls    []ToolCall
	Message      *Message
}

// NewResponse builds a Response from a provider's parsed completion.
func NewResponse(opts ResponseOptions) *Response {
	var content []Content
	if opts.Message != nil {
		content = opts.Message.Content
	}
	return &Response{
		ID:           opts.ID,
		Model:        opts.Model,
		Role:         opts.Role,
		Content:      content,
		StopReason:   opts.StopReason,
		StopSequence: opts.StopSequence,
		Usage:        opts.Usage,
	}
}

// Message extracts and returns the message from the response.
func (r *Response) Message() *Message {
	return &Message{
		ID:      r.ID,
		Role:    r.Role,
		Content: r.Content,
	}
}

// ToolCalls extracts and returns all tool calls from the response.
func (r *Response) ToolCalls() []*ToolCall {
	var toolCalls []*ToolCall
	for _, content := range r.Content {
		if toolUse, ok := content.(*ToolUseContent); ok {
			toolCalls = append(toolCalls, &ToolCall{
				ID:    toolUse.ID,            // e.g. "toolu_01A09q90qw90lq917835lq9"
				Name:  toolUse.Name,          // tool name e.g. "get_weather"
				Input: string(toolUse.Input), // tool call input (JSON as text)
			})
		}
	}
	return toolCalls
}
