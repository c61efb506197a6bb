package llm

import "context"

// StreamingLLM is the contract the Conversation Driver consumes. Every
// provider package in llm/providers implements this interface uniformly,
// so the driver never branches on provider identity.
type StreamingLLM interface {
	// Name identifies the provider and model, e.g. "anthropic-claude-3-7-sonnet".
	Name() string

	// Generate sends a non-streaming chat request and returns the complete
	// response.
	Generate(ctx context.Context, messages []*Message, opts ...Option) (*Response, error)

	// Stream sends a chat request and returns a lazy, non-restartable
	// sequence of events. The final event of a successful stream carries
	// the complete Response.
	Stream(ctx context.Context, messages []*Message, opts ...Option) (StreamIterator, error)

	// SupportsStreaming reports whether Stream is implemented natively by
	// the provider, as opposed to being simulated on top of Generate.
	SupportsStreaming() bool
}
