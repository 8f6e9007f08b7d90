package config

import (
	"fmt"

	"github.com/felixgeelhaar/agent-squad/domain/agent"
	domainconfig "github.com/felixgeelhaar/agent-squad/domain/config"
	"github.com/felixgeelhaar/agent-squad/domain/credential"
)

// Squad converts the agents and tasks of cfg into a validated squad.
func Squad(cfg *domainconfig.SquadConfig) (agent.Squad, error) {
	s := agent.Squad{
		Name:     cfg.Name,
		Personas: make([]agent.Persona, 0, len(cfg.Agents)),
		Tasks:    make([]agent.Task, 0, len(cfg.Tasks)),
	}
	for _, a := range cfg.Agents {
		s.Personas = append(s.Personas, agent.Persona{
			Role:            a.Role,
			Goal:            a.Goal,
			Backstory:       a.Backstory,
			AllowDelegation: a.AllowDelegation,
			Tools:           a.Tools,
		})
	}
	for _, t := range cfg.Tasks {
		s.Tasks = append(s.Tasks, agent.Task{
			Name:           t.Name,
			Description:    t.Description,
			ExpectedOutput: t.ExpectedOutput,
			Role:           t.Agent,
		})
	}
	if err := s.Validate(); err != nil {
		return agent.Squad{}, fmt.Errorf("invalid squad %q: %w", cfg.Name, err)
	}
	return s, nil
}

// CredentialLookup resolves GitHub credentials from the config file first
// and env second.
func CredentialLookup(cfg domainconfig.GitHubConfig, env credential.LookupFunc) credential.LookupFunc {
	fromFile := credential.MapLookup(map[string]string{
		credential.KeyToken:         cfg.Token,
		credential.KeyRepository:    cfg.Repository,
		credential.KeyAppID:         cfg.AppID,
		credential.KeyAppPrivateKey: cfg.PrivateKey,
	})
	return credential.Chain(fromFile, env)
}
