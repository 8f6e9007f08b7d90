package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domainconfig "github.com/felixgeelhaar/agent-squad/domain/config"
	"github.com/felixgeelhaar/agent-squad/domain/credential"
)

// ErrNoGitHubCredentials indicates neither a token nor app credentials are set.
var ErrNoGitHubCredentials = errors.New("GITHUB_TOKEN or GitHub App credentials are required")

// newCheckConfigCmd creates the check-config command.
func (a *App) newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Check that credentials are configured",
		Long: `Report which credentials are configured, with secrets masked.

No network call is made: a token that is set but invalid still passes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.stdout, "Checking configuration...")

			cfg, err := a.loadConfig()
			if err != nil {
				fmt.Fprintf(a.stdout, "✗ Configuration error: %v\n", err)
				return err
			}
			lookup := a.credentialLookup(cfg, "")
			get := func(key string) string {
				v, _ := lookup(key)
				return v
			}
			src := credential.Resolve(lookup)

			repository := get(credential.KeyRepository)
			if repository == "" {
				repository = "Not set"
			}
			appID := get(credential.KeyAppID)
			if appID == "" {
				appID = "Not set"
			}

			err = checkCredentials(cfg, src)
			if err != nil {
				fmt.Fprintf(a.stdout, "✗ Configuration error: %v\n", err)
			} else {
				fmt.Fprintln(a.stdout, "✓ Configuration is valid!")
			}
			fmt.Fprintf(a.stdout, "  - OpenAI API Key: %s\n", credential.Redact(cfg.LLM.APIKey))
			fmt.Fprintf(a.stdout, "  - Model: %s\n", cfg.LLM.Model)
			fmt.Fprintf(a.stdout, "  - GitHub Token: %s\n", credential.Redact(get(credential.KeyToken)))
			fmt.Fprintf(a.stdout, "  - GitHub App ID: %s\n", appID)
			fmt.Fprintf(a.stdout, "  - GitHub App Private Key: %s\n", credential.Redact(get(credential.KeyAppPrivateKey)))
			fmt.Fprintf(a.stdout, "  - Default Repository: %s\n", repository)
			fmt.Fprintf(a.stdout, "  - Credential Source: %s\n", src.Kind())
			return err
		},
	}
}

func checkCredentials(cfg *domainconfig.SquadConfig, src credential.Source) error {
	if cfg.LLM.APIKey == "" {
		return domainconfig.ErrMissingAPIKey
	}
	if src.Kind() == credential.KindNone {
		return ErrNoGitHubCredentials
	}
	return nil
}
