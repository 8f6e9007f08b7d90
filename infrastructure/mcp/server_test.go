package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/mcp-go/testutil"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/mcp"
)

func testCatalog(t *testing.T) *tool.Catalog {
	t.Helper()

	echo := tool.NewBuilder("echo").
		WithDescription("Echo the input").
		ReadOnly().
		WithHandler(func(_ context.Context, in string) (string, error) { return "echo: " + in, nil }).
		MustBuild()
	fail := tool.NewBuilder("fail").
		WithDescription("Always fails").
		WithHandler(func(_ context.Context, _ string) (string, error) {
			return "", tool.Malformed("Input must be in format 'owner/repo:path/to/file'")
		}).
		MustBuild()

	c, err := tool.NewCatalog(echo, fail)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewCatalogServer(t *testing.T) {
	t.Parallel()

	t.Run("exposes catalog tools", func(t *testing.T) {
		t.Parallel()

		srv := mcp.NewCatalogServer(mcp.ServerConfig{
			Name:    "test-server",
			Version: "1.0.0",
			Catalog: testCatalog(t),
		})
		if srv.Server() == nil {
			t.Fatal("Server() returned nil")
		}
		names := srv.Tools()
		if len(names) != 2 || names[0] != "echo" || names[1] != "fail" {
			t.Errorf("Tools() = %v", names)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()

		srv := mcp.NewCatalogServer(mcp.ServerConfig{
			Name:         "test-server",
			Version:      "1.0.0",
			Catalog:      tool.EmptyCatalog(),
			Instructions: "No tools configured.",
		})
		if len(srv.Tools()) != 0 {
			t.Errorf("Tools() = %v, want none", srv.Tools())
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		t.Parallel()

		srv := mcp.NewCatalogServer(mcp.ServerConfig{Name: "test-server", Version: "1.0.0"})
		if len(srv.Tools()) != 0 {
			t.Errorf("Tools() = %v, want none", srv.Tools())
		}
	})
}

func TestCatalogServer_InputSchema(t *testing.T) {
	t.Parallel()

	srv := mcp.NewCatalogServer(mcp.ServerConfig{Name: "test-server", Version: "1.0.0", Catalog: testCatalog(t)})
	tc := testutil.NewTestClient(t, srv.Server())
	defer tc.Close()

	tools, err := tc.ListTools()
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("ListTools() returned %d tools, want 2", len(tools))
	}

	for _, listed := range tools {
		raw, err := json.Marshal(listed["inputSchema"])
		if err != nil {
			t.Fatalf("marshal inputSchema: %v", err)
		}
		var schema struct {
			Type       string `json:"type"`
			Properties map[string]struct {
				Type string `json:"type"`
			} `json:"properties"`
			Required []string `json:"required"`
		}
		if err := json.Unmarshal(raw, &schema); err != nil {
			t.Fatalf("unmarshal inputSchema %s: %v", raw, err)
		}

		name := listed["name"]
		if schema.Type != "object" {
			t.Errorf("%v inputSchema type = %q, want object (%s)", name, schema.Type, raw)
		}
		if got := schema.Properties[tool.InputField].Type; got != "string" {
			t.Errorf("%v input property type = %q, want string", name, got)
		}
		if len(schema.Required) != 1 || schema.Required[0] != tool.InputField {
			t.Errorf("%v required = %v, want [input]", name, schema.Required)
		}
	}
}

func TestCatalogServer_CallTool(t *testing.T) {
	t.Parallel()

	srv := mcp.NewCatalogServer(mcp.ServerConfig{Name: "test-server", Version: "1.0.0", Catalog: testCatalog(t)})
	tc := testutil.NewTestClient(t, srv.Server())
	defer tc.Close()

	tests := []struct {
		name    string
		tool    string
		args    any
		want    string
		wantErr bool
	}{
		{"envelope", "echo", map[string]any{"input": "octocat/Hello-World"}, "echo: octocat/Hello-World", false},
		{"bare string", "echo", "query", "echo: query", false},
		{"tool error stays content", "fail", map[string]any{"input": "x"}, "Error: Input must be in format 'owner/repo:path/to/file'", false},
		{"missing input", "echo", map[string]any{"query": "x"}, "", true},
		{"unknown tool", "nope", map[string]any{"input": "x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.CallTool(tt.tool, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CallTool() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CallTool() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArguments_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    string
		wantErr error
	}{
		{"envelope", `{"input":"octocat/Hello-World:README"}`, "octocat/Hello-World:README", nil},
		{"bare string", `"language:go"`, "language:go", nil},
		{"missing input", `{}`, "", tool.ErrNoInputField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var args mcp.Arguments
			err := json.Unmarshal([]byte(tt.data), &args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
			if args.Input != tt.want {
				t.Errorf("Input = %q, want %q", args.Input, tt.want)
			}
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()

		var args mcp.Arguments
		if err := json.Unmarshal([]byte(`{`), &args); err == nil {
			t.Error("Unmarshal() expected error")
		}
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)
	echo, _ := c.Get("echo")

	got, err := mcp.Handler(echo)(context.Background(), mcp.Arguments{Input: "octocat/Hello-World"})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if got != "echo: octocat/Hello-World" {
		t.Errorf("Handler() = %q", got)
	}
}

func TestCatalogServer_Use(t *testing.T) {
	t.Parallel()

	srv := mcp.NewCatalogServer(mcp.ServerConfig{Name: "test-server", Version: "1.0.0", Catalog: tool.EmptyCatalog()})
	srv.Use()
}
