package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const rule = "============================================================"

// newToolsCmd creates the tools command.
func (a *App) newToolsCmd() *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available GitHub tools",
		Long: `List the tools of the catalog built from the configured credentials.

A personal access token yields the eight read tools; GitHub App credentials
add create_github_issue. Without credentials the catalog is empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), repository)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			if s.catalog.IsEmpty() {
				fmt.Fprintf(a.stdout, "No GitHub tools available (credentials: %s, state: %s)\n",
					s.source.Kind(), s.builder.State())
				return nil
			}

			fmt.Fprintln(a.stdout, "Available GitHub Tools:")
			fmt.Fprintln(a.stdout, rule)
			for i, t := range s.catalog.Tools() {
				mode := "read-only"
				if !t.Annotations().ReadOnly {
					mode = "mutating"
				}
				fmt.Fprintf(a.stdout, "\n%d. %s (%s)\n", i+1, t.Name(), mode)
				fmt.Fprintf(a.stdout, "   %s\n", strings.ReplaceAll(t.Description(), "\n", "\n   "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repository, "repository", "r", "", "Default repository in format 'owner/repo'")
	return cmd
}

// newInvokeCmd creates the invoke command.
func (a *App) newInvokeCmd() *cobra.Command {
	var repository string

	cmd := &cobra.Command{
		Use:   "invoke <tool> <input>",
		Short: "Invoke one tool directly",
		Long: `Invoke a catalog tool with a single string input and print its result.

Examples:
  squad invoke get_github_repo_info octocat/Hello-World
  squad invoke read_github_file octocat/Hello-World:README
  squad invoke list_github_issues ""  -r octocat/Hello-World`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), repository)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			fmt.Fprintln(a.stdout, s.catalog.Invoke(cmd.Context(), args[0], args[1]))
			return nil
		},
	}

	cmd.Flags().StringVarP(&repository, "repository", "r", "", "Default repository in format 'owner/repo'")
	return cmd
}
