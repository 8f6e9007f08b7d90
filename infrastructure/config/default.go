package config

import _ "embed"

// defaultSquadYAML is the built-in IT squad.
//
//go:embed default_squad.yaml
var defaultSquadYAML []byte

// DefaultSquadYAML returns a copy of the built-in squad definition.
func DefaultSquadYAML() []byte {
	out := make([]byte, len(defaultSquadYAML))
	copy(out, defaultSquadYAML)
	return out
}
