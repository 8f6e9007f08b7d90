// Package cli provides the command-line interface of agent-squad.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	agentsquad "github.com/felixgeelhaar/agent-squad"
	"github.com/felixgeelhaar/agent-squad/domain/credential"
	"github.com/felixgeelhaar/agent-squad/infrastructure/github"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

// Version information set at build time.
var (
	Version   = agentsquad.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	global globalOptions

	lookup      credential.LookupFunc
	catalogOpts []github.BuilderOption
	provider    planner.Provider
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: credential.EnvLookup,
	}

	app.root = &cobra.Command{
		Use:   "squad",
		Short: "LLM agents working on GitHub repositories",
		Long: `agent-squad runs a small team of LLM-driven personas (Project Manager,
Tech Lead, Developer, Tester) against a chat model and a catalog of GitHub
repository tools.

GitHub access comes from GITHUB_TOKEN, or GITHUB_APP_ID, GITHUB_APP_PRIVATE_KEY
and GITHUB_REPOSITORY for a GitHub App. Without credentials the tool catalog
is empty. The chat model needs OPENAI_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.initLogging(nil)
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.global.configPath, "config", "c", "", "Path to squad configuration file (default: built-in squad)")
	flags.StringVar(&app.global.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&app.global.logFormat, "log-format", "", "Log format: console or json")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newValidateCmd(),
		app.newCheckConfigCmd(),
		app.newToolsCmd(),
		app.newInvokeCmd(),
		app.newRunCmd(),
		app.newSquadCmd(),
		app.newServeMCPCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithEnv replaces the process environment used for ${VAR} expansion and
// credential resolution.
func (a *App) WithEnv(lookup credential.LookupFunc) *App {
	a.lookup = lookup
	return a
}

// WithCatalogOptions adds options to the GitHub catalog builder.
func (a *App) WithCatalogOptions(opts ...github.BuilderOption) *App {
	a.catalogOpts = append(a.catalogOpts, opts...)
	return a
}

// WithProvider replaces the chat model. Resilience and tracing still apply.
func (a *App) WithProvider(p planner.Provider) *App {
	a.provider = p
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "agent-squad version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
