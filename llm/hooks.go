package llm

import "context"

// Hook types for different LLM events
type HookType string

const (
	BeforeGenerate HookType = "before_generate"
	AfterGenerate  HookType = "after_generate"
	OnError        HookType = "on_error"
	BeforeStream   HookType = "before_stream"
	OnStreamChunk  HookType = "on_stream_chunk"
	AfterStream    HookType = "after_stream"
)

// HookContext contains information passed to hooks
type HookContext struct {
	Type     HookType
	Messages []*Message
	Config   *GenerateConfig
	Response *Response // Only set for AfterGenerate and OnStreamChunk
	Error    error     // Only set for OnError
	Stream   Stream    // Only set for stream-related hooks
}

// HookFunc is a function that gets called during LLM operations. Returning
// an error from a BeforeGenerate or BeforeStream hook aborts the request.
type HookFunc func(ctx context.Context, hookCtx *HookContext) error

// Hook pairs a HookFunc with the event type it fires on.
type Hook struct {
	Type HookType
	Func HookFunc
}

// Hooks is an ordered list of hooks; several hooks may share a HookType and
// all of them fire, in registration order.
type Hooks []Hook
