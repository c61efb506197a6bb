package agentcore

import (
	"context"

	"github.com/forgeline/agentcore/llm"
)

// DialogOption is one choice offered in a select/multiselect DialogInput.
type DialogOption struct {
	Value       string
	Label       string
	Description string
}

// DialogInput describes a single permission or question prompt to show the
// user. Confirm/Options/MultiSelect are mutually exclusive prompt shapes;
// which one is set tells the Dialog implementation how to render itself.
type DialogInput struct {
	Title       string
	Message     string
	Confirm     bool
	Options     []DialogOption
	MultiSelect bool
	Default     string

	// Tool and Call identify the pending tool invocation this prompt is
	// gating, so a Dialog implementation can render tool-specific detail
	// (a diff, a command line) alongside the question.
	Tool Tool
	Call *llm.ToolUseContent
}

// DialogOutput is the user's answer to a DialogInput.
type DialogOutput struct {
	Confirmed    bool
	Canceled     bool
	AllowSession bool
	Feedback     string
	Text         string
	Values       []string
}

// Dialog decouples the Permission Engine and the AskUserQuestion tool from
// any particular terminal or UI implementation. The Permission UI Protocol
// is this one method: a request goes out, a decision comes back, and
// everything above it is free to run headless (Dialog: nil), always-allow,
// always-deny, or backed by a real terminal prompt.
type Dialog interface {
	Show(ctx context.Context, input *DialogInput) (*DialogOutput, error)
}

// AutoApproveDialog answers every prompt as confirmed/yes, for
// non-interactive runs (CI, scripted agents) that opted into
// ModeAcceptEdits or ModeBypassPermissions and should never block on a
// human.
type AutoApproveDialog struct{}

func (AutoApproveDialog) Show(ctx context.Context, input *DialogInput) (*DialogOutput, error) {
	out := &DialogOutput{Confirmed: true}
	if len(input.Options) > 0 {
		out.Values = []string{input.Options[0].Value}
	}
	return out, nil
}

// DenyAllDialog answers every prompt as declined, useful for tests that
// assert a code path never proceeds without explicit approval.
type DenyAllDialog struct{}

func (DenyAllDialog) Show(ctx context.Context, input *DialogInput) (*DialogOutput, error) {
	return &DialogOutput{Confirmed: false}, nil
}
