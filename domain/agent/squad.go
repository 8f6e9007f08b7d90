package agent

import (
	"fmt"
)

// Squad is a set of personas and the ordered tasks they execute.
type Squad struct {
	Name     string
	Personas []Persona
	Tasks    []Task
}

// Persona returns the persona playing role.
func (s Squad) Persona(role string) (Persona, bool) {
	for _, p := range s.Personas {
		if p.Role == role {
			return p, true
		}
	}
	return Persona{}, false
}

// Roles returns persona roles in definition order.
func (s Squad) Roles() []string {
	roles := make([]string, len(s.Personas))
	for i, p := range s.Personas {
		roles[i] = p.Role
	}
	return roles
}

// Validate checks that roles are unique and every task has a performer.
func (s Squad) Validate() error {
	seen := make(map[string]bool, len(s.Personas))
	for i, p := range s.Personas {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("persona %d: %w", i, err)
		}
		if seen[p.Role] {
			return fmt.Errorf("%w: %s", ErrDuplicateRole, p.Role)
		}
		seen[p.Role] = true
	}

	if len(s.Tasks) == 0 {
		return ErrNoTasks
	}
	for i, t := range s.Tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d (%s): %w", i, t.Name, err)
		}
		if !seen[t.Role] {
			return fmt.Errorf("task %d (%s): %w: %s", i, t.Name, ErrUnknownRole, t.Role)
		}
	}
	return nil
}
