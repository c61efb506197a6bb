// Package driver implements the Conversation Driver: the bounded loop that
// turns one CreateResponse call into a sequence of LLM requests and tool
// dispatches. It is the concrete agentcore.Agent implementation; every
// other package in this module (toolkit, permission, session) depends
// only on the agentcore.Agent contract so they never import this package
// or its provider dependencies.
package driver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/llm"
	"github.com/google/uuid"
)

// DefaultMaxIterations bounds how many request/tool-dispatch round trips a
// single CreateResponse call can make before the driver gives up and
// returns with the max-iterations marker appended.
const DefaultMaxIterations = 10

const (
	driverMaxTokens     = 4096
	driverTemperature   = 0.7
	maxIterationsNotice = "[Agent reached maximum iterations]"
	cancelledNotice     = "[Agent execution cancelled by user]"
)

// Driver is the concrete agentcore.Agent: one conversation's LLM client,
// tool set, and hooks, bound together by CreateResponse's loop.
type Driver struct {
	name          string
	llm           llm.StreamingLLM
	systemPrompt  string
	tools         []agentcore.Tool
	toolsByName   map[string]agentcore.Tool
	session       agentcore.Session
	hooks         agentcore.Hooks
	maxIterations int
}

// Options is agentcore.AgentOptions plus the LLM client the driver needs
// to actually make requests - AgentOptions alone doesn't carry one, since
// the agentcore package must stay free of provider dependencies.
type Options struct {
	agentcore.AgentOptions
	LLM llm.StreamingLLM
}

// New builds a Driver from Options.
func New(opts Options) (agentcore.Agent, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("driver: LLM client is required")
	}
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	name := opts.Name
	if name == "" {
		name = "agent"
	}
	byName := make(map[string]agentcore.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		byName[t.Name()] = t
	}
	return &Driver{
		name:          name,
		llm:           opts.LLM,
		systemPrompt:  opts.SystemPrompt,
		tools:         opts.Tools,
		toolsByName:   byName,
		session:       opts.Session,
		hooks:         opts.Hooks,
		maxIterations: maxIterations,
	}, nil
}

// NewAgentFunc binds llmClient into an agentcore.NewAgentFunc, the shape
// callers that only hold an agentcore.AgentOptions (e.g. the Task tool's
// AgentFactory) need to construct a real driver without importing this
// package's Options type directly.
func NewAgentFunc(llmClient llm.StreamingLLM) agentcore.NewAgentFunc {
	return func(opts agentcore.AgentOptions) (agentcore.Agent, error) {
		return New(Options{AgentOptions: opts, LLM: llmClient})
	}
}

func (d *Driver) Name() string { return d.name }

// CreateResponse runs the bounded conversation loop: build a request from
// session history plus this call's new messages, send it, dispatch any
// tool_use blocks in the reply back through the Tool Executor, and feed
// the results back in as the next request's input. Stops when the model
// returns a stop reason other than tool_use (and the reply carries no
// ToolUseContent either - both checks are kept deliberately, since
// providers aren't fully consistent about setting stop_reason), when the
// iteration cap trips, or when ctx is canceled.
func (d *Driver) CreateResponse(ctx context.Context, opts ...agentcore.CreateResponseOption) (*agentcore.Response, error) {
	var ro agentcore.CreateResponseOptions
	for _, opt := range opts {
		opt(&ro)
	}

	session := d.session
	if ro.Session != nil {
		session = ro.Session
	}

	var history []*llm.Message
	if session != nil {
		h, err := session.Messages(ctx)
		if err != nil {
			return nil, fmt.Errorf("driver: loading session history: %w", err)
		}
		history = h
	}

	messages := append(append([]*llm.Message{}, history...), ro.Messages...)
	var turnMessages []*llm.Message
	turnMessages = append(turnMessages, ro.Messages...)

	resp := &agentcore.Response{ID: uuid.New().String()}
	totalUsage := &llm.Usage{}

	llmTools := make([]llm.Tool, 0, len(d.tools))
	for _, t := range d.tools {
		llmTools = append(llmTools, &toolDefinitionAdapter{tool: t})
	}

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			assistantMsg := llm.NewAssistantTextMessage(cancelledNotice)
			messages = append(messages, assistantMsg)
			turnMessages = append(turnMessages, assistantMsg)
			resp.Items = append(resp.Items, &agentcore.ResponseItem{
				Type:    agentcore.ResponseItemTypeMessage,
				Message: assistantMsg,
			})
			resp.StopReason = "cancelled"
			break
		}

		if iteration >= d.maxIterations {
			assistantMsg := llm.NewAssistantTextMessage(maxIterationsNotice)
			messages = append(messages, assistantMsg)
			turnMessages = append(turnMessages, assistantMsg)
			resp.Items = append(resp.Items, &agentcore.ResponseItem{
				Type:    agentcore.ResponseItemTypeMessage,
				Message: assistantMsg,
			})
			resp.StopReason = "max_iterations"
			break
		}

		genOpts := []llm.Option{
			llm.WithMaxTokens(driverMaxTokens),
			llm.WithTemperature(driverTemperature),
		}
		if d.systemPrompt != "" {
			genOpts = append(genOpts, llm.WithSystemPrompt(d.systemPrompt))
		}
		if len(llmTools) > 0 {
			genOpts = append(genOpts, llm.WithTools(llmTools...))
		}

		response, err := d.llm.Generate(ctx, messages, genOpts...)
		if err != nil {
			return nil, fmt.Errorf("driver: generate: %w", err)
		}

		assistantMsg := response.Message()
		messages = append(messages, assistantMsg)
		turnMessages = append(turnMessages, assistantMsg)

		usage := response.Usage
		resp.Items = append(resp.Items, &agentcore.ResponseItem{
			Type:    agentcore.ResponseItemTypeMessage,
			Message: assistantMsg,
			Usage:   &usage,
		})
		totalUsage.Add(&usage)
		resp.StopReason = response.StopReason

		toolUses := collectToolUses(assistantMsg)
		if response.StopReason != "tool_use" && len(toolUses) == 0 {
			break
		}

		results := make([]*llm.ToolResultContent, 0, len(toolUses))
		for _, tu := range toolUses {
			result := d.runTool(ctx, tu)
			resp.Items = append(resp.Items, &agentcore.ResponseItem{
				Type:       agentcore.ResponseItemTypeToolCall,
				ToolCallID: tu.ID,
				ToolName:   tu.Name,
				ToolResult: result,
			})
			results = append(results, &llm.ToolResultContent{
				ToolUseID: tu.ID,
				Content:   result.Text(),
				IsError:   result.IsError,
			})
		}

		toolResultMsg := llm.NewToolResultMessage(results)
		messages = append(messages, toolResultMsg)
		turnMessages = append(turnMessages, toolResultMsg)
	}

	resp.Usage = totalUsage

	if session != nil {
		if err := session.SaveTurn(ctx, turnMessages, totalUsage); err != nil {
			return nil, fmt.Errorf("driver: saving turn: %w", err)
		}
	}

	return resp, nil
}

// runTool looks up the named tool, runs PreToolUse/PostToolUse hooks
// (the Permission Engine installs itself as a PreToolUse hook, see
// permission.Hook), and returns the tool's result, or an error result if
// the tool is unknown, a hook blocks the call, or the call itself fails.
func (d *Driver) runTool(ctx context.Context, call *llm.ToolUseContent) *agentcore.ToolResult {
	tool, ok := d.toolsByName[call.Name]
	if !ok {
		return agentcore.NewToolResultError(fmt.Sprintf("unknown tool: %s", call.Name))
	}

	hc := &agentcore.HookContext{Tool: tool, Call: call}
	for _, hook := range d.hooks.PreToolUse {
		if err := hook(ctx, hc); err != nil {
			return agentcore.NewToolResultError(err.Error())
		}
	}

	input := call.Input
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	result, err := tool.Call(ctx, input)
	if err != nil {
		return agentcore.NewToolResultError(err.Error())
	}
	if result == nil {
		result = agentcore.NewToolResultText("")
	}

	for _, hook := range d.hooks.PostToolUse {
		// Post-hooks observe but never block; any error is swallowed.
		_ = hook(ctx, hc)
	}

	return result
}

func collectToolUses(msg *llm.Message) []*llm.ToolUseContent {
	var out []*llm.ToolUseContent
	for _, c := range msg.Content {
		if tu, ok := c.(*llm.ToolUseContent); ok {
			out = append(out, tu)
		}
	}
	return out
}

// toolDefinitionAdapter exposes an agentcore.Tool as an llm.Tool so it can
// be passed to llm.WithTools. Call is never invoked: providers only read
// Definition() to describe the tool on the wire, and the driver dispatches
// the actual call itself via runTool.
type toolDefinitionAdapter struct {
	tool agentcore.Tool
}

func (a *toolDefinitionAdapter) Definition() *llm.ToolDefinition {
	return &llm.ToolDefinition{
		Name:        a.tool.Name(),
		Description: a.tool.Description(),
		Parameters:  convertSchema(a.tool.Schema()),
	}
}

func (a *toolDefinitionAdapter) Call(ctx context.Context, input json.RawMessage) (string, error) {
	return "", fmt.Errorf("driver: %s dispatched through the Tool Executor, not llm.Tool.Call", a.tool.Name())
}

func convertSchema(s *agentcore.Schema) llm.Schema {
	if s == nil {
		return llm.Schema{Type: "object"}
	}
	out := llm.Schema{
		Type:     s.Type,
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*llm.SchemaProperty, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertProperty(prop)
		}
	}
	return out
}

func convertProperty(p *agentcore.Property) *llm.SchemaProperty {
	if p == nil {
		return nil
	}
	out := &llm.SchemaProperty{
		Type:        p.Type,
		Description: p.Description,
		Enum:        p.Enum,
		Required:    p.Required,
	}
	if p.Items != nil {
		out.Items = convertProperty(p.Items)
	}
	if len(p.Properties) > 0 {
		out.Properties = make(map[string]*llm.SchemaProperty, len(p.Properties))
		for name, sub := range p.Properties {
			out.Properties[name] = convertProperty(sub)
		}
	}
	return out
}
