package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIProvider implements the Provider interface for OpenAI-compatible
// chat completion endpoints.
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	model       string
	temperature *float64
	maxTokens   int
	client      *http.Client
}

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string        // Required: OpenAI API key
	BaseURL     string        // Default: https://api.openai.com
	Model       string        // e.g., "gpt-4", "gpt-4o"
	Temperature *float64      // Used when a request leaves it unset
	MaxTokens   int           // Used when a request leaves it unset
	Timeout     time.Duration // Default: 120s
	HTTPClient  *http.Client  // Overrides the default client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config OpenAIConfig) *OpenAIProvider {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &OpenAIProvider{
		apiKey:      config.APIKey,
		baseURL:     baseURL,
		model:       config.Model,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		client:      client,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// openAIChatRequest represents the OpenAI chat completions API request.
type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Tools       []Tool          `json:"tools,omitempty"`
	ToolChoice  string          `json:"tool_choice,omitempty"`
}

// openAIMessage keeps content as a pointer: assistant turns that only call
// tools carry a null content.
type openAIMessage struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// openAIChatResponse represents the OpenAI chat completions API response.
type openAIChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage     `json:"usage"`
	Error *APIError `json:"error,omitempty"`
}

func toOpenAIMessage(msg Message) openAIMessage {
	out := openAIMessage{
		Role:       msg.Role,
		ToolCalls:  msg.ToolCalls,
		ToolCallID: msg.ToolCallID,
		Name:       msg.Name,
	}
	if msg.Content != "" || len(msg.ToolCalls) == 0 {
		content := msg.Content
		out.Content = &content
	}
	return out
}

// Complete implements the Provider interface.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	messages := make([]openAIMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = toOpenAIMessage(msg)
	}

	model := req.Model
	if model == "" {
		model = p.model
	}
	temperature := req.Temperature
	if temperature == nil {
		temperature = p.temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	openAIReq := openAIChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Tools:       req.Tools,
	}
	if len(req.Tools) > 0 {
		openAIReq.ToolChoice = "auto"
	}

	body, err := json.Marshal(openAIReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	var openAIResp openAIChatResponse
	decodeErr := json.Unmarshal(respBody, &openAIResp)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Type: "http_error", Message: strings.TrimSpace(string(respBody))}
		if decodeErr == nil && openAIResp.Error != nil {
			apiErr = openAIResp.Error
			apiErr.StatusCode = resp.StatusCode
		}
		return CompletionResponse{}, fmt.Errorf("openai error (status %d): %w", resp.StatusCode, apiErr)
	}
	if decodeErr != nil {
		return CompletionResponse{}, fmt.Errorf("failed to parse response: %w", decodeErr)
	}
	if openAIResp.Error != nil {
		return CompletionResponse{}, fmt.Errorf("openai error: %w", openAIResp.Error)
	}
	if len(openAIResp.Choices) == 0 {
		return CompletionResponse{}, fmt.Errorf("no choices in response")
	}

	choice := openAIResp.Choices[0]
	msg := Message{
		Role:      choice.Message.Role,
		ToolCalls: choice.Message.ToolCalls,
	}
	if choice.Message.Content != nil {
		msg.Content = *choice.Message.Content
	}

	return CompletionResponse{
		ID:           openAIResp.ID,
		Model:        openAIResp.Model,
		Message:      msg,
		FinishReason: choice.FinishReason,
		Usage:        openAIResp.Usage,
	}, nil
}
