package agentcore

import (
	"context"

	"github.com/forgeline/agentcore/llm"
)

// Session is the contract the session package's Session type implements:
// conversation history an Agent can read and append to across calls. An
// Agent configured without a Session is stateless — every CreateResponse
// call starts from just the messages passed in that call.
type Session interface {
	ID() string
	Messages(ctx context.Context) ([]*llm.Message, error)
	SaveTurn(ctx context.Context, messages []*llm.Message, usage *llm.Usage) error
	Title() string
	SetTitle(title string)
	Metadata() map[string]any
	SetMetadata(key string, value any)
	EventCount() int
	TotalUsage() *llm.Usage
}
