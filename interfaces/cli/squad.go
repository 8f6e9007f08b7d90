package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-squad/application"
	infraconfig "github.com/felixgeelhaar/agent-squad/infrastructure/config"
)

// squadOptions holds options for the squad command.
type squadOptions struct {
	project    string
	repository string
	timeout    time.Duration
	jsonOutput bool
}

// newSquadCmd creates the squad command.
func (a *App) newSquadCmd() *cobra.Command {
	opts := &squadOptions{}

	cmd := &cobra.Command{
		Use:   "squad <project description>",
		Short: "Run the whole squad on a project",
		Long: `Run every task of the squad in order. Each task's output is handed to the
next task as context.

Examples:
  squad squad "Build a REST API for a todo list"
  squad squad -c my-squad.yaml --json "Add OAuth login"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.project = args[0]
			return a.runSquad(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repository, "repository", "r", "", "GitHub repository in format 'owner/repo' (overrides configuration)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Execution timeout")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run as JSON")

	return cmd
}

// runSquad kicks off the configured crew.
func (a *App) runSquad(ctx context.Context, opts *squadOptions) error {
	s, err := a.open(ctx, opts.repository)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	squad, err := infraconfig.Squad(s.config)
	if err != nil {
		return err
	}
	provider, err := a.chatProvider(s)
	if err != nil {
		return err
	}

	crew, err := application.NewCrew(application.CrewConfig{
		Squad:         squad,
		Provider:      provider,
		Catalog:       s.catalog,
		Model:         s.config.LLM.Model,
		Temperature:   s.config.LLM.Temperature,
		MaxTokens:     s.config.LLM.MaxTokens,
		MaxIterations: s.config.MaxIterations,
	})
	if err != nil {
		return err
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if !opts.jsonOutput {
		fmt.Fprintf(a.stdout, "Starting %s for: %s\n", squad.Name, opts.project)
		fmt.Fprintf(a.stdout, "Members: %s\n", strings.Join(squad.Roles(), ", "))
		fmt.Fprintln(a.stdout, rule)
	}

	run, runErr := crew.Kickoff(ctx, opts.project)

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			return err
		}
		return runErr
	}

	for _, res := range run.Results {
		fmt.Fprintf(a.stdout, "\n## %s (%s)\n\n", res.Task, res.Role)
		fmt.Fprintln(a.stdout, res.Output)
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, rule)
	fmt.Fprintf(a.stdout, "Run ID: %s\n", run.ID)
	fmt.Fprintf(a.stdout, "Status: %s\n", run.Status)
	fmt.Fprintf(a.stdout, "Duration: %s\n", run.Duration().Round(time.Millisecond))
	return runErr
}
