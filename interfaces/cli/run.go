package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agent-squad/application"
	"github.com/felixgeelhaar/agent-squad/domain/agent"
	infraconfig "github.com/felixgeelhaar/agent-squad/infrastructure/config"
)

// ErrNoTask indicates run was called without a task.
var ErrNoTask = errors.New("no task specified")

// runOptions holds options for the run command.
type runOptions struct {
	task       string
	repository string
	role       string
	timeout    time.Duration
	jsonOutput bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a single agent on a task",
		Long: `Run one persona (the Developer by default) on a natural-language task.

The agent calls the chat model, invokes GitHub tools as the model requests
and prints the final answer.

Examples:
  squad run "List the open issues in the repository"
  squad run "Read the README.md file" -r owner/repo
  squad run "Create an issue titled \"Bug Report\" with description \"Found a bug\""`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return ErrNoTask
			}
			opts.task = args[0]
			return a.runTask(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repository, "repository", "r", "", "GitHub repository in format 'owner/repo' (overrides configuration)")
	cmd.Flags().StringVar(&opts.role, "role", "Developer", "Persona from the squad configuration to run")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Execution timeout")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}

// runTask executes one agent on opts.task.
func (a *App) runTask(ctx context.Context, opts *runOptions) error {
	s, err := a.open(ctx, opts.repository)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	squad, err := infraconfig.Squad(s.config)
	if err != nil {
		return err
	}
	persona, ok := squad.Persona(opts.role)
	if !ok {
		return fmt.Errorf("%w: %s", agent.ErrUnknownRole, opts.role)
	}

	provider, err := a.chatProvider(s)
	if err != nil {
		return err
	}

	ag, err := application.NewAgent(application.AgentConfig{
		Persona:       persona,
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
		fmt.Fprintf(a.stdout, "Executing task: %s\n", opts.task)
		fmt.Fprintln(a.stdout, rule)
	}

	res, err := ag.Execute(ctx, opts.task)
	if err != nil {
		return fmt.Errorf("error executing task: %w", err)
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"role":       persona.Role,
			"task":       opts.task,
			"output":     res.Output,
			"iterations": res.Iterations,
			"tool_calls": res.ToolCalls,
			"tokens":     res.Usage.TotalTokens,
			"duration":   res.Duration.String(),
		})
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, rule)
	fmt.Fprintln(a.stdout, "Result:")
	fmt.Fprintln(a.stdout, res.Output)
	return nil
}
