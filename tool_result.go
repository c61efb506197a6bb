package agentcore

// ToolResultContentType identifies the kind of content a tool result
// carries, mirroring Anthropic's tool_result content block union.
type ToolResultContentType string

const (
	ToolResultContentTypeText  ToolResultContentType = "text"
	ToolResultContentTypeImage ToolResultContentType = "image"
	ToolResultContentTypeAudio ToolResultContentType = "audio"
)

// ToolResultContent is a single block of a tool's result.
type ToolResultContent struct {
	Type        ToolResultContentType `json:"type"`
	Text        string                `json:"text,omitempty"`
	Data        string                `json:"data,omitempty"`
	MimeType    string                `json:"mimeType,omitempty"`
	Annotations map[string]any        `json:"annotations,omitempty"`
}

// ToolResult is what every Tool.Call returns: one or more content blocks,
// an error flag the LLM uses to distinguish failures from data, and an
// optional Display string the Permission UI Protocol and transcript
// renderer show instead of the raw content (e.g. a diff instead of the
// whole file).
type ToolResult struct {
	Content []*ToolResultContent `json:"content"`
	IsError bool                 `json:"isError,omitempty"`
	Display string               `json:"-"`
}

// WithDisplay attaches a human-facing summary to a result and returns the
// receiver, so call sites can chain it onto the constructor.
func (r *ToolResult) WithDisplay(display string) *ToolResult {
	r.Display = display
	return r
}

// Text concatenates the text content blocks of the result.
func (r *ToolResult) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type == ToolResultContentTypeText {
			out += c.Text
		}
	}
	return out
}

// NewToolResultText builds a successful, text-only result.
func NewToolResultText(text string) *ToolResult {
	return &ToolResult{
		Content: []*ToolResultContent{{Type: ToolResultContentTypeText, Text: text}},
	}
}

// NewToolResultError builds a failed result. The message is returned to
// the LLM as the tool's output so it has context for what went wrong.
func NewToolResultError(message string) *ToolResult {
	return &ToolResult{
		Content: []*ToolResultContent{{Type: ToolResultContentTypeText, Text: message}},
		IsError: true,
	}
}

// NewToolResultImage builds a result carrying base64-encoded image data.
func NewToolResultImage(data, mimeType string) *ToolResult {
	return &ToolResult{
		Content: []*ToolResultContent{{Type: ToolResultContentTypeImage, Data: data, MimeType: mimeType}},
	}
}
