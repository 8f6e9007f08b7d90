package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/agent-squad/domain/config"
	infraconfig "github.com/felixgeelhaar/agent-squad/infrastructure/config"
)

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a squad configuration file",
		Long: `Validate a squad configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Required fields (name, version, agents, tasks)
  - Task assignments to known agent roles
  - Resilience, logging and tracing settings
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  squad validate -c squad.yaml

  # Strict validation (fail on missing env vars)
  squad validate -c squad.yaml --strict

  # Validate the built-in squad
  squad validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := infraconfig.NewLoaderWithOptions(
				infraconfig.WithLookup(infraconfig.LookupFunc(a.lookup)),
				infraconfig.WithStrictEnv(strict),
			)

			load := loader.LoadDefault
			if a.global.configPath != "" {
				load = func() (*domainconfig.SquadConfig, error) { return loader.LoadFile(a.global.configPath) }
			}
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			squad, err := infraconfig.Squad(cfg)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
			fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
			fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
			if cfg.Description != "" {
				fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
			}

			fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
			fmt.Fprintf(a.stdout, "  Process: %s\n", cfg.Process)
			fmt.Fprintf(a.stdout, "  Model: %s (%s)\n", cfg.LLM.Model, cfg.LLM.Provider)
			fmt.Fprintf(a.stdout, "  Max iterations: %d\n", cfg.MaxIterations)
			fmt.Fprintf(a.stdout, "  Agents: %d\n", len(squad.Personas))
			for _, p := range squad.Personas {
				fmt.Fprintf(a.stdout, "    - %s\n", p.Role)
			}
			fmt.Fprintf(a.stdout, "  Tasks: %d\n", len(squad.Tasks))
			for _, t := range squad.Tasks {
				fmt.Fprintf(a.stdout, "    - %s (%s)\n", t.Name, t.Role)
			}
			if cfg.Resilience.Retry.Enabled {
				fmt.Fprintf(a.stdout, "  Retry: %d attempts\n", cfg.Resilience.Retry.MaxAttempts)
			}
			if cfg.Resilience.CircuitBreaker.Enabled {
				fmt.Fprintf(a.stdout, "  Circuit breaker: opens after %d failures\n", cfg.Resilience.CircuitBreaker.Threshold)
			}
			fmt.Fprintf(a.stdout, "  Tracing: %s\n", cfg.Tracing.Exporter)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Enable strict validation (fail on missing env vars)")
	return cmd
}
