// Package application runs personas against a chat model and the tool
// catalog, alone or as a sequential squad.
package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/agent-squad/domain/agent"
	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

// DefaultMaxIterations bounds the model/tool round trips of one task.
const DefaultMaxIterations = 10

// finalAnswerPrompt is sent on the last iteration, with tools withheld.
const finalAnswerPrompt = "You have reached the maximum number of tool uses. " +
	"Using the information gathered so far, give your best final answer now."

// AgentConfig configures one persona-driven agent.
type AgentConfig struct {
	Persona       agent.Persona
	Provider      planner.Provider
	Catalog       *tool.Catalog
	Model         string
	Temperature   *float64
	MaxTokens     int
	MaxIterations int
}

// Agent plays one persona: it sends the task to the model, runs the tools
// the model asks for and feeds the results back until the model answers.
type Agent struct {
	persona       agent.Persona
	provider      planner.Provider
	catalog       *tool.Catalog
	model         string
	temperature   *float64
	maxTokens     int
	maxIterations int
}

// Result is the outcome of one agent execution.
type Result struct {
	Output     string
	Iterations int
	ToolCalls  int
	Usage      planner.Usage
	Duration   time.Duration
}

// NewAgent creates an agent. The persona's tool list narrows the catalog;
// an empty list keeps every tool.
func NewAgent(cfg AgentConfig) (*Agent, error) {
	if cfg.Provider == nil {
		return nil, ErrNoProvider
	}
	if err := cfg.Persona.Validate(); err != nil {
		return nil, err
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = tool.EmptyCatalog()
	}

	a := &Agent{
		persona:       cfg.Persona,
		provider:      cfg.Provider,
		catalog:       catalog.Filter(cfg.Persona.Tools...),
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		maxIterations: cfg.MaxIterations,
	}
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	return a, nil
}

// Persona returns the persona this agent plays.
func (a *Agent) Persona() agent.Persona {
	return a.persona
}

// Tools returns the names of the tools offered to the model.
func (a *Agent) Tools() []string {
	return a.catalog.Names()
}

// Execute works on prompt until the model gives an answer without tool
// calls. Tool failures reach the model as text; only provider failures and
// cancellation are returned as errors.
func (a *Agent) Execute(ctx context.Context, prompt string) (Result, error) {
	start := time.Now()
	messages := []planner.Message{
		{Role: planner.RoleSystem, Content: a.persona.SystemPrompt()},
		{Role: planner.RoleUser, Content: prompt},
	}
	offered := planner.ToolsFromCatalog(a.catalog)

	var result Result
	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Iterations = iteration

		req := planner.CompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
			Tools:       offered,
		}
		last := iteration == a.maxIterations
		if last && iteration > 1 {
			req.Tools = nil
			req.Messages = append(append([]planner.Message(nil), messages...),
				planner.Message{Role: planner.RoleUser, Content: finalAnswerPrompt})
		}

		resp, err := a.provider.Complete(ctx, req)
		if err != nil {
			logging.Error().
				Add(logging.Role(a.persona.Role)).
				Add(logging.Iteration(iteration)).
				Add(logging.ErrorField(err)).
				Msg("completion failed")
			return result, fmt.Errorf("%s: completion failed: %w", a.persona.Role, err)
		}
		result.Usage = result.Usage.Add(resp.Usage)

		calls := resp.Message.ToolCalls
		if len(calls) == 0 || req.Tools == nil {
			result.Output = strings.TrimSpace(resp.Message.Content)
			result.Duration = time.Since(start)
			logging.Debug().
				Add(logging.Role(a.persona.Role)).
				Add(logging.Iteration(iteration)).
				Add(logging.Count(result.ToolCalls)).
				Add(logging.Duration(result.Duration)).
				Msg("agent answered")
			return result, nil
		}

		messages = append(messages, planner.Message{
			Role:      planner.RoleAssistant,
			Content:   resp.Message.Content,
			ToolCalls: calls,
		})
		for _, call := range calls {
			result.ToolCalls++
			messages = append(messages, planner.Message{
				Role:       planner.RoleTool,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    a.invoke(ctx, call),
			})
		}
	}

	result.Duration = time.Since(start)
	return result, fmt.Errorf("%s: %w (%d)", a.persona.Role, ErrMaxIterations, a.maxIterations)
}

// invoke runs one requested tool call against the catalog.
func (a *Agent) invoke(ctx context.Context, call planner.ToolCall) string {
	name := call.Function.Name
	input, err := tool.DecodeInput(call.Function.Arguments)
	if err != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
	}

	start := time.Now()
	out := a.catalog.Invoke(ctx, name, input)
	logging.Debug().
		Add(logging.Role(a.persona.Role)).
		Add(logging.ToolName(name)).
		Add(logging.Duration(time.Since(start))).
		Add(logging.Failed(strings.HasPrefix(out, "Error"))).
		Msg("tool invoked")
	return out
}
