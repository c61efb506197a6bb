package toolkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/schema"
	"github.com/forgeline/agentcore/skill"
)

var (
	_ agentcore.TypedTool[*SkillToolInput]          = &SkillTool{}
	_ agentcore.TypedToolPreviewer[*SkillToolInput] = &SkillTool{}
)

// SkillToolInput is the input to the Skill tool.
type SkillToolInput struct {
	// Skill is the name of the skill to activate. Required.
	Skill string `json:"skill"`

	// Args is freeform text passed through to the skill's instructions,
	// e.g. what to focus the review on.
	Args string `json:"args,omitempty"`
}

// SkillToolOptions configures a SkillTool.
type SkillToolOptions struct {
	// Loader provides the set of skills available to activate.
	Loader *skill.Loader
}

// SkillTool activates a named skill, surfacing its instructions to the
// LLM and, while active, restricting which other tools may be called to
// whatever the skill's allowed-tools list permits.
type SkillTool struct {
	loader *skill.Loader

	mu     sync.Mutex
	active *skill.Skill
}

// NewSkillTool creates a new SkillTool wrapping the given loader.
func NewSkillTool(options SkillToolOptions) *agentcore.TypedToolAdapter[*SkillToolInput] {
	return agentcore.ToolAdapter(&SkillTool{loader: options.Loader})
}

// Name returns "Skill" as the tool identifier.
func (t *SkillTool) Name() string {
	return "Skill"
}

// Description lists the currently loaded skills so the LLM knows what's
// available to activate.
func (t *SkillTool) Description() string {
	names := t.loader.ListSkillNames()
	if len(names) == 0 {
		return "Execute a skill to activate specialized instructions.\n\nNo skills are currently available."
	}

	var b strings.Builder
	b.WriteString("Execute a skill to activate specialized instructions for the current task.\n\n")
	b.WriteString("Available skills:\n")
	for _, name := range names {
		s, _ := t.loader.GetSkill(name)
		b.WriteString(fmt.Sprintf("- %s: %s\n", s.Name, s.Description))
	}
	return b.String()
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *SkillTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     schema.Object,
		Required: []string{"skill"},
		Properties: map[string]*schema.Property{
			"skill": {
				Type:        schema.String,
				Description: "The name of the skill to activate.",
			},
			"args": {
				Type:        schema.String,
				Description: "Optional arguments to pass to the skill's instructions.",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior. Skill is
// read-only: it changes which tools are allowed, not filesystem state.
func (t *SkillTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "Skill",
		ReadOnlyHint:    true,
		DestructiveHint: false,
	}
}

// PreviewCall returns a summary of the activation for permission prompts.
func (t *SkillTool) PreviewCall(ctx context.Context, input *SkillToolInput) *agentcore.ToolCallPreview {
	return &agentcore.ToolCallPreview{
		Summary: fmt.Sprintf("Activate skill %q", input.Skill),
	}
}

// Call activates the named skill, making its instructions and, if any,
// tool restrictions the active set until ClearActiveSkill is called or a
// different skill is activated.
func (t *SkillTool) Call(ctx context.Context, input *SkillToolInput) (*agentcore.ToolResult, error) {
	if t.loader.SkillCount() == 0 {
		return NewToolResultError("No skills are currently available."), nil
	}

	if input.Skill == "" {
		return NewToolResultError("skill name is required"), nil
	}

	s, ok := t.loader.GetSkill(input.Skill)
	if !ok {
		names := t.loader.ListSkillNames()
		return NewToolResultError(fmt.Sprintf(
			"skill %q not found. Available skills: %s",
			input.Skill, strings.Join(names, ", "),
		)), nil
	}

	t.mu.Lock()
	t.active = s
	t.mu.Unlock()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Skill Activated: %s\n\n", s.Name))
	b.WriteString(s.Instructions)
	if len(s.AllowedTools) > 0 {
		b.WriteString(fmt.Sprintf("\n\nTool Restrictions: only %s may be used while this skill is active.",
			strings.Join(s.AllowedTools, ", ")))
	}
	if input.Args != "" {
		b.WriteString(fmt.Sprintf("\n\nArguments: %s", input.Args))
	}

	return NewToolResultText(b.String()), nil
}

// GetActiveSkill returns the currently active skill, or nil if none.
func (t *SkillTool) GetActiveSkill() *skill.Skill {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// ClearActiveSkill deactivates the current skill, lifting any tool
// restriction it imposed.
func (t *SkillTool) ClearActiveSkill() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
}

// IsToolAllowed reports whether toolName may run given the currently
// active skill. The Skill tool itself is always allowed, so a restricted
// skill can still be cleared or swapped for another.
func (t *SkillTool) IsToolAllowed(toolName string) bool {
	if toolName == t.Name() {
		return true
	}
	active := t.GetActiveSkill()
	if active == nil {
		return true
	}
	return active.IsToolAllowed(toolName)
}
