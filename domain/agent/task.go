package agent

import (
	"strings"
)

// ProjectPlaceholder is replaced by the project description when a squad is
// run.
const ProjectPlaceholder = "{{project}}"

// Task is one unit of work assigned to a persona.
type Task struct {
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`

	// Role names the persona that performs the task.
	Role string `json:"agent" yaml:"agent"`
}

// Validate checks the task for required fields.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyTask
	}
	if strings.TrimSpace(t.Role) == "" {
		return ErrEmptyRole
	}
	return nil
}

// Prompt renders the task for the model. project fills ProjectPlaceholder;
// context carries the output of earlier tasks and is appended when present.
func (t Task) Prompt(project, context string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(strings.ReplaceAll(t.Description, ProjectPlaceholder, project)))
	if t.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected output: ")
		b.WriteString(t.ExpectedOutput)
	}
	if context = strings.TrimSpace(context); context != "" {
		b.WriteString("\n\nThis is the context you are working with:\n")
		b.WriteString(context)
	}
	return b.String()
}
