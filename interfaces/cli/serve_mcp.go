package cli

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-squad/infrastructure/mcp"
)

// newServeMCPCmd creates the serve-mcp command.
func (a *App) newServeMCPCmd() *cobra.Command {
	var (
		repository string
		httpAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Expose the GitHub tools over the Model Context Protocol",
		Long: `Serve the tool catalog to MCP clients, over stdio by default or over
HTTP with --http. Logs go to stderr so stdio stays clean.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx, repository)
			if err != nil {
				return err
			}
			defer s.close(ctx)

			instructions := "Tools take a single string argument named input."
			if s.catalog.IsEmpty() {
				instructions = "No GitHub credentials are configured; no tools are available."
			}
			srv := mcp.NewCatalogServer(mcp.ServerConfig{
				Name:         "agent-squad",
				Version:      Version,
				Catalog:      s.catalog,
				Description:  "GitHub repository tools",
				Instructions: instructions,
			})
			if httpAddr != "" {
				return srv.ServeHTTP(ctx, httpAddr)
			}
			return srv.ServeStdio(ctx)
		},
	}

	cmd.Flags().StringVarP(&repository, "repository", "r", "", "Default repository in format 'owner/repo'")
	cmd.Flags().StringVar(&httpAddr, "http", "", "Serve over HTTP on this address instead of stdio")
	return cmd
}
