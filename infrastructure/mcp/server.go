package mcp

import (
	"context"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
)

// CatalogServer wraps an MCP server exposing a tool catalog.
type CatalogServer struct {
	srv     *mcpgo.Server
	catalog *tool.Catalog
	info    mcpgo.ServerInfo
}

// ServerConfig configures a catalog MCP server.
type ServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Catalog holds the tools to expose.
	Catalog *tool.Catalog

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string
}

// NewCatalogServer creates an MCP server that exposes every catalog tool.
func NewCatalogServer(cfg ServerConfig) *CatalogServer {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &CatalogServer{
		srv:     mcpgo.NewServer(info, opts...),
		catalog: cfg.Catalog,
		info:    info,
	}
	for _, t := range cfg.Catalog.Tools() {
		s.srv.Tool(t.Name()).
			Description(t.Description()).
			Handler(Handler(t))
	}
	return s
}

// Arguments is the MCP argument object shared by every catalog tool. A bare
// JSON string is accepted in place of the object.
type Arguments struct {
	Input string `json:"input" jsonschema:"required,description=Single string input in the format given by the tool description"`
}

// UnmarshalJSON decodes either {"input": "..."} or a bare string.
func (a *Arguments) UnmarshalJSON(data []byte) error {
	input, err := tool.DecodeInput(string(data))
	if err != nil {
		return err
	}
	a.Input = input
	return nil
}

// Handler adapts a catalog tool to an mcp-go handler. A tool's own error
// strings are returned as ordinary content.
func Handler(t tool.Tool) func(ctx context.Context, args Arguments) (string, error) {
	return func(ctx context.Context, args Arguments) (string, error) {
		logging.Debug().
			Add(logging.Component("mcp")).
			Add(logging.ToolName(t.Name())).
			Msg("tool call")
		return t.Invoke(ctx, args.Input), nil
	}
}

// Server returns the underlying mcp-go server.
func (s *CatalogServer) Server() *mcpgo.Server {
	return s.srv
}

// Tools returns the names of the exposed tools.
func (s *CatalogServer) Tools() []string {
	return s.catalog.Names()
}

// Use adds middleware to the server.
func (s *CatalogServer) Use(middlewares ...mcpserver.Middleware) {
	s.srv.Use(middlewares...)
}

// ServeStdio runs the server over stdin/stdout.
func (s *CatalogServer) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Count(s.catalog.Len())).
		Msg("serving tools over stdio")
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

// ServeHTTP runs the server over HTTP with SSE.
func (s *CatalogServer) ServeHTTP(ctx context.Context, addr string, opts ...mcpgo.HTTPOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("addr", addr)).
		Msg("serving tools over http")
	return mcpgo.ServeHTTP(ctx, s.srv, addr, opts...)
}
