package toolkit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/forgeline/agentcore"
	"github.com/forgeline/agentcore/llm"
	"github.com/forgeline/agentcore/schema"
	"github.com/forgeline/agentcore/session"
	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// synthesisTemplate is appended to the synthesis driver's prompt after the
// == AGENT i RESPONSE == transcript of every parallel agent's output.
const synthesisTemplate = `Synthesize the agent responses above into a single, cohesive answer. Follow these steps:
1. Identify where the agents agree and treat that as high-confidence.
2. Note any contradictions between agents and resolve them using the most specific or best-supported evidence.
3. Merge complementary findings so no unique insight from any agent is lost.
4. Discard redundant or clearly incorrect content.
5. Produce one unified response in the format the original task asked for.`

// parallelAnalysisSuffix is appended to a parallel task's prompt so each
// agent produces a response detailed enough for the synthesis pass to work
// with, rather than a terse one-liner.
const parallelAnalysisSuffix = "\nProvide a thorough and complete analysis."

// TaskRecord stores information about a running or completed task
type TaskRecord struct {
	ID           string
	Description  string
	SubagentType string
	Status       TaskStatus
	Output       string
	Error        error
	StartTime    time.Time
	EndTime      time.Time
	done         chan struct{}
}

// TaskRegistry manages running and completed tasks
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*TaskRecord
}

// NewTaskRegistry creates a new task registry
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[string]*TaskRecord),
	}
}

// Register adds a new task to the registry
func (r *TaskRegistry) Register(record *TaskRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[record.ID] = record
}

// Get retrieves a task by ID
func (r *TaskRegistry) Get(id string) (*TaskRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.tasks[id]
	return record, ok
}

// List returns all task IDs
func (r *TaskRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tasks))
	for id := range r.tasks {
		ids = append(ids, id)
	}
	return ids
}

// AgentFactory creates a sub-agent for a task. def is the looked-up
// SubagentDefinition for subagentType (nil if the caller didn't register
// one), parentTools is the tool set the new agent is allowed to inherit
// (the factory decides how much of that to actually grant based on
// def.Tools), and transcript is the agentcore.Session the new agent's
// driver should read history from and persist turns to - a fresh, empty
// session for a new task, or one already populated with a prior run's
// messages when resuming.
type AgentFactory func(ctx context.Context, subagentType string, def *agentcore.SubagentDefinition, parentTools []agentcore.Tool, transcript agentcore.Session) (agentcore.Agent, error)

// --- TaskTool ---

var _ agentcore.TypedTool[*TaskToolInput] = &TaskTool{}

// TaskToolInput is the input for the TaskTool
type TaskToolInput struct {
	Prompt             string `json:"prompt"`
	Description        string `json:"description"`
	SubagentType       string `json:"subagent_type"`
	Model              string `json:"model,omitempty"`
	RunInBackground    bool   `json:"run_in_background,omitempty"`
	Resume             string `json:"resume,omitempty"`
	ParallelTasksCount int    `json:"parallel_tasks_count,omitempty"`
}

// TaskToolOptions configures a new TaskTool
type TaskToolOptions struct {
	// Registry is the shared task registry
	Registry *TaskRegistry

	// AgentFactory creates agents for task execution
	AgentFactory AgentFactory

	// Store is the Resume/State Store: every sub-agent's transcript is
	// opened from it under the task's ID before the agent runs, and
	// resumed from it (by the resume parameter's agent ID) instead of
	// reusing the prior in-memory Agent object.
	Store session.Store

	// Definitions maps a subagent_type name to its SubagentDefinition.
	// Unrecognized types are passed to AgentFactory with a nil
	// definition, leaving it free to apply a generic default.
	Definitions map[string]*agentcore.SubagentDefinition

	// ParentTools is the tool set available to the agent that owns this
	// TaskTool, passed through to AgentFactory so it can restrict a
	// sub-agent to a subset (per its SubagentDefinition.Tools).
	ParentTools []agentcore.Tool

	// DefaultTimeout is the default timeout for synchronous task execution
	DefaultTimeout time.Duration
}

// TaskTool launches specialized agents for complex, multi-step tasks
type TaskTool struct {
	registry       *TaskRegistry
	agentFactory   AgentFactory
	store          session.Store
	definitions    map[string]*agentcore.SubagentDefinition
	parentTools    []agentcore.Tool
	defaultTimeout time.Duration
}

// NewTaskTool creates a new TaskTool
func NewTaskTool(opts TaskToolOptions) *TaskTool {
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = 10 * time.Minute
	}
	return &TaskTool{
		registry:       opts.Registry,
		agentFactory:   opts.AgentFactory,
		store:          opts.Store,
		definitions:    opts.Definitions,
		parentTools:    opts.ParentTools,
		defaultTimeout: opts.DefaultTimeout,
	}
}

func (t *TaskTool) Name() string {
	return "Task"
}

func (t *TaskTool) Description() string {
	return `Launch a specialized agent to handle complex, multi-step tasks autonomously.

The Task tool launches agents that autonomously handle complex tasks. Each agent type has specific capabilities and tools available to it.

Usage notes:
- Always include a short description (3-5 words) summarizing what the agent will do
- Launch multiple agents concurrently whenever possible to maximize performance
- Set parallel_tasks_count above 1 to fan the same prompt out to that many agents and have their responses synthesized into one answer
- When the agent is done, it will return a single message back to you
- You can run agents in the background using run_in_background parameter
- Agents can be resumed using the resume parameter by passing the agent ID from a previous invocation
- Provide clear, detailed prompts so the agent can work autonomously`
}

func (t *TaskTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type: "object",
		Required: []string{
			"prompt",
			"description",
			"subagent_type",
		},
		Properties: map[string]*schema.Property{
			"prompt": {
				Type:        "string",
				Description: "The task for the agent to perform. Provide detailed instructions.",
			},
			"description": {
				Type:        "string",
				Description: "A short (3-5 word) description of the task.",
			},
			"subagent_type": {
				Type:        "string",
				Description: "The type of specialized agent to use (e.g., general-purpose, Explore, Plan).",
			},
			"model": {
				Type:        "string",
				Description: "Optional model name: sonnet, opus, or haiku. Accepted but not passed to AgentFactory, so the sub-agent's model is set by the factory and the subagent definition.",
				Enum:        []any{"sonnet", "opus", "haiku"},
			},
			"run_in_background": {
				Type:        "boolean",
				Description: "Set to true to run this agent in the background. Use TaskOutput to read the output later.",
			},
			"resume": {
				Type:        "string",
				Description: "Optional agent ID to resume from. If provided, the agent continues from the previous execution transcript.",
			},
			"parallel_tasks_count": {
				Type:        "integer",
				Description: "Number of agents to run concurrently on the same prompt, with their outputs synthesized into one response. Defaults to 1.",
			},
		},
	}
}

func (t *TaskTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "Task",
		ReadOnlyHint:    false,
		DestructiveHint: false,
		IdempotentHint:  false,
		OpenWorldHint:   true,
	}
}

func (t *TaskTool) Call(ctx context.Context, input *TaskToolInput) (*agentcore.ToolResult, error) {
	if input.Prompt == "" {
		return agentcore.NewToolResultError("prompt is required"), nil
	}
	if input.Description == "" {
		return agentcore.NewToolResultError("description is required"), nil
	}
	if input.SubagentType == "" && input.Resume == "" {
		return agentcore.NewToolResultError("subagent_type is required"), nil
	}

	// Handle resume: seed a brand new agent with the transcript stored
	// under the resumed ID rather than reusing the prior in-memory Agent,
	// so resuming works even across process restarts (anything the Store
	// implementation persists to, not just this process's memory).
	if input.Resume != "" {
		prior, ok := t.registry.Get(input.Resume)
		if !ok {
			return agentcore.NewToolResultError(fmt.Sprintf("task %s not found", input.Resume)), nil
		}
		transcript, err := t.store.Open(ctx, prior.ID)
		if err != nil {
			return agentcore.NewToolResultError(fmt.Sprintf("loading transcript for %s: %s", input.Resume, err.Error())), nil
		}
		agent, err := t.agentFactory(ctx, prior.SubagentType, t.definitions[prior.SubagentType], t.parentTools, transcript)
		if err != nil {
			return agentcore.NewToolResultError(fmt.Sprintf("failed to create agent: %s", err.Error())), nil
		}
		return t.executeSingle(ctx, input, agent, prior.ID, prior.SubagentType)
	}

	if input.ParallelTasksCount > 1 {
		return t.executeParallel(ctx, input)
	}

	taskID := fmt.Sprintf("task_%s", uuid.New().String()[:8])
	transcript, err := t.store.Open(ctx, taskID)
	if err != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("opening transcript: %s", err.Error())), nil
	}
	agent, err := t.agentFactory(ctx, input.SubagentType, t.definitions[input.SubagentType], t.parentTools, transcript)
	if err != nil {
		return agentcore.NewToolResultError(fmt.Sprintf("failed to create agent: %s", err.Error())), nil
	}
	return t.executeSingle(ctx, input, agent, taskID, input.SubagentType)
}

// executeSingle runs one agent against input.Prompt, through the
// background/synchronous-timeout harness shared with the parallel path.
func (t *TaskTool) executeSingle(ctx context.Context, input *TaskToolInput, agent agentcore.Agent, taskID, subagentType string) (*agentcore.ToolResult, error) {
	work := func(ctx context.Context) (string, error) {
		message := &llm.Message{Role: llm.User}
		message.Content = append(message.Content, &llm.TextContent{Text: input.Prompt})
		response, err := agent.CreateResponse(ctx, agentcore.WithMessage(message))
		if err != nil {
			return "", err
		}
		return response.OutputText(), nil
	}
	return t.run(ctx, input, taskID, subagentType, work)
}

// executeParallel fans input.Prompt out to ParallelTasksCount independent
// agents, each with its own transcript, then runs one synthesis agent over
// their combined output. A failing agent doesn't abort the others - its
// slot is reported inline and synthesis proceeds with what succeeded.
func (t *TaskTool) executeParallel(ctx context.Context, input *TaskToolInput) (*agentcore.ToolResult, error) {
	n := input.ParallelTasksCount
	taskID := fmt.Sprintf("task_%s", uuid.New().String()[:8])

	work := func(ctx context.Context) (string, error) {
		outputs := make([]string, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				subID := fmt.Sprintf("%s_agent%d", taskID, i+1)
				transcript, err := t.store.Open(ctx, subID)
				if err != nil {
					outputs[i] = fmt.Sprintf("[agent %d failed to open transcript: %s]", i+1, err.Error())
					return
				}
				agent, err := t.agentFactory(ctx, input.SubagentType, t.definitions[input.SubagentType], t.parentTools, transcript)
				if err != nil {
					outputs[i] = fmt.Sprintf("[agent %d failed to start: %s]", i+1, err.Error())
					return
				}
				message := &llm.Message{Role: llm.User}
				message.Content = append(message.Content, &llm.TextContent{Text: input.Prompt + parallelAnalysisSuffix})
				response, err := agent.CreateResponse(ctx, agentcore.WithMessage(message))
				if err != nil {
					outputs[i] = fmt.Sprintf("[agent %d failed: %s]", i+1, err.Error())
					return
				}
				outputs[i] = response.OutputText()
			}(i)
		}
		wg.Wait()

		var sections strings.Builder
		for i, out := range outputs {
			fmt.Fprintf(&sections, "--- Agent %d ---\n%s\n\n", i+1, out)
		}

		var synthesisInput strings.Builder
		synthesisInput.WriteString("The following are independent agent responses to the same task:\n\n")
		for i, out := range outputs {
			fmt.Fprintf(&synthesisInput, "== AGENT %d RESPONSE ==\n%s\n\n", i+1, out)
		}
		synthesisInput.WriteString(synthesisTemplate)
		synthesisInput.WriteString("\n\nOriginal task:\n")
		synthesisInput.WriteString(input.Prompt)

		synthesisTranscript, err := t.store.Open(ctx, taskID+"_synthesis")
		if err != nil {
			return sections.String(), fmt.Errorf("opening synthesis transcript: %w", err)
		}
		synthesisAgent, err := t.agentFactory(ctx, input.SubagentType, t.definitions[input.SubagentType], t.parentTools, synthesisTranscript)
		if err != nil {
			return sections.String(), fmt.Errorf("starting synthesis agent: %w", err)
		}
		synthesisResponse, err := synthesisAgent.CreateResponse(ctx, agentcore.WithInput(synthesisInput.String()))
		if err != nil {
			return sections.String(), fmt.Errorf("synthesis failed: %w", err)
		}

		return sections.String() + "\nSynthesis:\n" + synthesisResponse.OutputText(), nil
	}

	return t.run(ctx, input, taskID, input.SubagentType, work)
}

// run registers a TaskRecord for taskID and drives work through either the
// background or synchronous-with-timeout path, shared by both the single
// and parallel execution flows.
func (t *TaskTool) run(ctx context.Context, input *TaskToolInput, taskID, subagentType string, work func(ctx context.Context) (string, error)) (*agentcore.ToolResult, error) {
	record := &TaskRecord{
		ID:           taskID,
		Description:  input.Description,
		SubagentType: subagentType,
		Status:       TaskStatusRunning,
		StartTime:    time.Now(),
		done:         make(chan struct{}),
	}
	t.registry.Register(record)

	executeFunc := func(ctx context.Context) {
		defer close(record.done)
		output, err := work(ctx)
		record.EndTime = time.Now()
		if err != nil {
			record.Status = TaskStatusFailed
			record.Error = err
			record.Output = fmt.Sprintf("Task failed: %s", err.Error())
		} else {
			record.Status = TaskStatusCompleted
			record.Output = output
		}
	}

	if input.RunInBackground {
		go executeFunc(ctx)
		return agentcore.NewToolResultText(fmt.Sprintf("Task started in background. Task ID: %s\nUse TaskOutput to retrieve results.", taskID)), nil
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, t.defaultTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		executeFunc(timeoutCtx)
		close(done)
	}()

	select {
	case <-done:
		if record.Status == TaskStatusFailed {
			return agentcore.NewToolResultError(record.Output), nil
		}
		return agentcore.NewToolResultText(fmt.Sprintf("Agent ID: %s\n\n%s", taskID, record.Output)), nil
	case <-timeoutCtx.Done():
		record.Status = TaskStatusFailed
		record.Error = timeoutCtx.Err()
		return agentcore.NewToolResultError(fmt.Sprintf("Task timed out after %s. Task ID: %s", t.defaultTimeout, taskID)), nil
	}
}

func (t *TaskTool) ShouldReturnResult() bool {
	return true
}

// --- TaskOutputTool ---

var _ agentcore.TypedTool[*TaskOutputToolInput] = &TaskOutputTool{}

// TaskOutputToolInput is the input for the TaskOutputTool
type TaskOutputToolInput struct {
	TaskID  string `json:"task_id"`
	Block   *bool  `json:"block,omitempty"`
	Timeout int    `json:"timeout,omitempty"`
}

// TaskOutputToolOptions configures a new TaskOutputTool
type TaskOutputToolOptions struct {
	// Registry is the shared task registry
	Registry *TaskRegistry
}

// TaskOutputTool retrieves output from running or completed tasks
type TaskOutputTool struct {
	registry *TaskRegistry
}

// NewTaskOutputTool creates a new TaskOutputTool
func NewTaskOutputTool(opts TaskOutputToolOptions) *TaskOutputTool {
	return &TaskOutputTool{
		registry: opts.Registry,
	}
}

func (t *TaskOutputTool) Name() string {
	return "TaskOutput"
}

func (t *TaskOutputTool) Description() string {
	return `Retrieves output from a running or completed agent task started by the Task tool.

- Takes a task_id parameter identifying the task
- Returns the task output along with status information
- Use block=true (default) to wait for task completion
- Use block=false for non-blocking check of current status
- Task IDs are returned by the Task tool
- Only Task tool tasks are found; background shell IDs are not`
}

func (t *TaskOutputTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"task_id"},
		Properties: map[string]*schema.Property{
			"task_id": {
				Type:        "string",
				Description: "The task ID to get output from.",
			},
			"block": {
				Type:        "boolean",
				Description: "Whether to wait for completion. Defaults to true.",
			},
			"timeout": {
				Type:        "number",
				Description: "Max wait time in milliseconds. Defaults to 30000, max 600000.",
			},
		},
	}
}

func (t *TaskOutputTool) Annotations() *agentcore.ToolAnnotations {
	return &agentcore.ToolAnnotations{
		Title:           "TaskOutput",
		ReadOnlyHint:    true,
		DestructiveHint: false,
		IdempotentHint:  true,
		OpenWorldHint:   false,
	}
}

func (t *TaskOutputTool) Call(ctx context.Context, input *TaskOutputToolInput) (*agentcore.ToolResult, error) {
	if input.TaskID == "" {
		return agentcore.NewToolResultError("task_id is required"), nil
	}

	record, ok := t.registry.Get(input.TaskID)
	if !ok {
		return agentcore.NewToolResultError(fmt.Sprintf("task %s not found", input.TaskID)), nil
	}

	// Default to blocking
	block := true
	if input.Block != nil {
		block = *input.Block
	}

	// Default timeout 30 seconds, max 10 minutes
	timeout := 30 * time.Second
	if input.Timeout > 0 {
		timeout = time.Duration(input.Timeout) * time.Millisecond
		if timeout > 10*time.Minute {
			timeout = 10 * time.Minute
		}
	}

	if !block {
		return t.formatTaskStatus(record), nil
	}

	// Wait for completion with timeout
	select {
	case <-record.done:
		return t.formatTaskStatus(record), nil
	case <-time.After(timeout):
		return t.formatTaskStatus(record), nil
	case <-ctx.Done():
		return agentcore.NewToolResultError("context cancelled while waiting for task"), nil
	}
}

func (t *TaskOutputTool) formatTaskStatus(record *TaskRecord) *agentcore.ToolResult {
	status := fmt.Sprintf("Task ID: %s\nDescription: %s\nStatus: %s\nStarted: %s\n",
		record.ID,
		record.Description,
		record.Status,
		record.StartTime.Format(time.RFC3339),
	)

	if record.Status == TaskStatusCompleted || record.Status == TaskStatusFailed {
		status += fmt.Sprintf("Ended: %s\nDuration: %s\n",
			record.EndTime.Format(time.RFC3339),
			record.EndTime.Sub(record.StartTime).Round(time.Millisecond),
		)
	}

	if record.Output != "" {
		status += fmt.Sprintf("\nOutput:\n%s", record.Output)
	}

	if record.Error != nil {
		status += fmt.Sprintf("\nError: %s", record.Error.Error())
	}

	return agentcore.NewToolResultText(status)
}

func (t *TaskOutputTool) ShouldReturnResult() bool {
	return true
}
