package planner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
)

func TestNewOpenAIProvider(t *testing.T) {
	t.Parallel()

	t.Run("creates provider with defaults", func(t *testing.T) {
		t.Parallel()

		provider := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4"})
		if provider.baseURL != "https://api.openai.com" {
			t.Errorf("BaseURL = %s, want https://api.openai.com", provider.baseURL)
		}
		if provider.client.Timeout != 120*time.Second {
			t.Errorf("Timeout = %v, want 120s", provider.client.Timeout)
		}
		if provider.Name() != "openai" {
			t.Errorf("Name() = %s, want openai", provider.Name())
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		provider := NewOpenAIProvider(OpenAIConfig{BaseURL: "https://proxy.local/"})
		if provider.baseURL != "https://proxy.local" {
			t.Errorf("BaseURL = %s", provider.baseURL)
		}
	})
}

func TestOpenAIProvider_CompleteWithTools(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Authorization header not set correctly")
		}

		var req struct {
			Model       string          `json:"model"`
			Temperature *float64        `json:"temperature"`
			ToolChoice  string          `json:"tool_choice"`
			Messages    []openAIMessage `json:"messages"`
			Tools       []struct {
				Type     string `json:"type"`
				Function struct {
					Name       string          `json:"name"`
					Parameters json.RawMessage `json:"parameters"`
				} `json:"function"`
			} `json:"tools"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4" || req.Temperature == nil || *req.Temperature != 0.7 {
			t.Errorf("model = %s, temperature = %v", req.Model, req.Temperature)
		}
		if req.ToolChoice != "auto" || len(req.Tools) != 1 {
			t.Errorf("tool_choice = %q, tools = %d", req.ToolChoice, len(req.Tools))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Tools[0].Function.Name != "echo" || !strings.Contains(string(req.Tools[0].Function.Parameters), `"input"`) {
			t.Errorf("tool = %+v", req.Tools[0])
		}
		if last := req.Messages[len(req.Messages)-1]; last.Role != RoleTool || last.ToolCallID != "call_0" {
			t.Errorf("last message = %+v", last)
		}
		if prev := req.Messages[1]; prev.Content != nil {
			t.Errorf("tool-calling assistant content should be null, got %q", *prev.Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "echo", "arguments": "{\"input\":\"hi\"}"}}]
				}
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	echo := tool.NewBuilder("echo").WithDescription("Echo input").
		WithHandler(func(_ context.Context, in string) (string, error) { return in, nil }).MustBuild()
	catalog, _ := tool.NewCatalog(echo)

	defaultTemperature := 0.7
	provider := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4", Temperature: &defaultTemperature})
	resp, err := provider.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "say hi"},
			{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_0", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"input":"x"}`}}}},
			{Role: RoleTool, ToolCallID: "call_0", Content: "x"},
		},
		Tools: ToolsFromCatalog(catalog),
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.FinishReason != "tool_calls" || len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	call := resp.Message.ToolCalls[0]
	if call.Function.Name != "echo" || call.Function.Arguments != `{"input":"hi"}` {
		t.Errorf("tool call = %+v", call)
	}
	if resp.Message.Content != "" {
		t.Errorf("Content = %q, want empty", resp.Message.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
		wantMsg   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"type":"rate_limit","message":"slow down"}}`, true, "slow down"},
		{"server error plain body", http.StatusBadGateway, `bad gateway`, true, "bad gateway"},
		{"bad key", http.StatusUnauthorized, `{"error":{"type":"invalid_request_error","message":"Incorrect API key","code":"invalid_api_key"}}`, false, "invalid_api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewOpenAIProvider(OpenAIConfig{BaseURL: server.URL})
			_, err := provider.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			if err == nil {
				t.Fatal("Complete() error = nil")
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not an APIError", err)
			}
			if apiErr.Retryable() != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", apiErr.Retryable(), tt.retryable)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	_, err := NewOpenAIProvider(OpenAIConfig{BaseURL: server.URL}).Complete(context.Background(), CompletionRequest{})
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("Complete() error = %v", err)
	}
}

func TestOpenAIProvider_Temperature(t *testing.T) {
	t.Parallel()

	zero := 0.0
	configured := 0.7

	tests := []struct {
		name       string
		configured *float64
		requested  *float64
		want       *float64
	}{
		{"explicit zero is sent", &configured, &zero, &zero},
		{"request overrides provider", &zero, &configured, &configured},
		{"provider default fills unset request", &zero, nil, &zero},
		{"unset everywhere is omitted", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sent := make(chan map[string]json.RawMessage, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("decode request: %v", err)
				}
				sent <- body
				_, _ = w.Write([]byte(`{"id":"x","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`))
			}))
			defer server.Close()

			provider := NewOpenAIProvider(OpenAIConfig{BaseURL: server.URL, Model: "gpt-4", Temperature: tt.configured})
			if _, err := provider.Complete(context.Background(), CompletionRequest{Temperature: tt.requested}); err != nil {
				t.Fatalf("Complete() error = %v", err)
			}

			raw, ok := (<-sent)["temperature"]
			if tt.want == nil {
				if ok {
					t.Errorf("temperature = %s, want omitted", raw)
				}
				return
			}
			var got float64
			if !ok || json.Unmarshal(raw, &got) != nil || got != *tt.want {
				t.Errorf("temperature = %s, want %v", raw, *tt.want)
			}
		})
	}
}
