// Package agentsquad provides the version information for agent-squad.
package agentsquad

// Version is the current version of agent-squad.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
