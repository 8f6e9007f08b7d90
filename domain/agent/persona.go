// Package agent models the personas of a squad, the tasks they perform and
// the record of a squad run.
package agent

import (
	"fmt"
	"strings"
)

// Persona is a role-play identity given to the chat model.
type Persona struct {
	Role      string `json:"role" yaml:"role"`
	Goal      string `json:"goal" yaml:"goal"`
	Backstory string `json:"backstory" yaml:"backstory"`

	// AllowDelegation lets the persona hand work to other members.
	AllowDelegation bool `json:"allow_delegation,omitempty" yaml:"allow_delegation,omitempty"`

	// Tools restricts the catalog to these names. Empty means every tool.
	Tools []string `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// Validate checks the persona for required fields.
func (p Persona) Validate() error {
	if strings.TrimSpace(p.Role) == "" {
		return ErrEmptyRole
	}
	return nil
}

// SystemPrompt renders the persona as the system message of a conversation.
func (p Persona) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.", p.Role)
	if p.Backstory != "" {
		b.WriteString(" ")
		b.WriteString(p.Backstory)
	}
	if p.Goal != "" {
		fmt.Fprintf(&b, "\n\nYour personal goal is: %s", p.Goal)
	}
	b.WriteString("\n\nUse the available tools to gather facts before answering. " +
		"Tool results are plain text; a result starting with \"Error\" means the call failed.")
	return b.String()
}
