package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
)

// ErrScriptExhausted indicates a scripted provider ran out of responses.
var ErrScriptExhausted = errors.New("script exhausted")

// ScriptStep is one canned model turn.
type ScriptStep struct {
	// Response is returned when Err is nil.
	Response CompletionResponse

	// Err is returned instead of a response.
	Err error

	// Expect optionally checks the request before answering.
	Expect func(CompletionRequest) error
}

// Answer returns a step with a final text answer.
func Answer(content string) ScriptStep {
	return ScriptStep{Response: CompletionResponse{
		Message:      Message{Role: RoleAssistant, Content: content},
		FinishReason: "stop",
	}}
}

// CallTool returns a step requesting one tool call with the given input.
func CallTool(id, name, input string) ScriptStep {
	args, _ := json.Marshal(map[string]string{tool.InputField: input})
	return ScriptStep{Response: CompletionResponse{
		Message: Message{
			Role: RoleAssistant,
			ToolCalls: []ToolCall{{
				ID:       id,
				Type:     "function",
				Function: FunctionCall{Name: name, Arguments: string(args)},
			}},
		},
		FinishReason: "tool_calls",
	}}
}

// ScriptedProvider replays a fixed sequence of model turns for deterministic
// tests and offline runs.
type ScriptedProvider struct {
	mu       sync.Mutex
	steps    []ScriptStep
	index    int
	requests []CompletionRequest
}

// NewScriptedProvider creates a scripted provider with the given steps.
func NewScriptedProvider(steps ...ScriptStep) *ScriptedProvider {
	return &ScriptedProvider{steps: steps}
}

// Name returns the provider name.
func (p *ScriptedProvider) Name() string {
	return "scripted"
}

// Complete returns the next scripted response.
func (p *ScriptedProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return CompletionResponse{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.index >= len(p.steps) {
		return CompletionResponse{}, fmt.Errorf("%w after %d steps", ErrScriptExhausted, len(p.steps))
	}

	step := p.steps[p.index]
	p.index++

	if step.Expect != nil {
		if err := step.Expect(req); err != nil {
			return CompletionResponse{}, fmt.Errorf("step %d: %w", p.index-1, err)
		}
	}
	if step.Err != nil {
		return CompletionResponse{}, step.Err
	}
	return step.Response, nil
}

// Requests returns the requests received so far.
func (p *ScriptedProvider) Requests() []CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CompletionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

// Remaining returns the number of unused steps.
func (p *ScriptedProvider) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.steps) - p.index
}

// Reset rewinds the script.
func (p *ScriptedProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = 0
	p.requests = nil
}
