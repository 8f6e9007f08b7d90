package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the YAML path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates squad configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *SquadConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateLLM(config)
	v.validateGitHub(config)
	roles := v.validateAgents(config)
	v.validateTasks(config, roles)
	v.validateResilience(config)
	v.validateObservability(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *SquadConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Process != "" && config.Process != DefaultProcess {
		v.addError("process", fmt.Sprintf("unsupported process: %s", config.Process))
	}
	if config.MaxIterations < 0 {
		v.addError("max_iterations", "max_iterations must be non-negative")
	}
}

func (v *Validator) validateLLM(config *SquadConfig) {
	if config.LLM.Provider != "" && config.LLM.Provider != DefaultProvider {
		v.addError("llm.provider", fmt.Sprintf("unsupported provider: %s", config.LLM.Provider))
	}
	if t := config.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		v.addError("llm.temperature", "temperature must be between 0 and 2")
	}
	if config.LLM.MaxTokens < 0 {
		v.addError("llm.max_tokens", "max_tokens must be non-negative")
	}
	if config.LLM.Timeout < 0 {
		v.addError("llm.timeout", "timeout must be non-negative")
	}
}

func (v *Validator) validateGitHub(config *SquadConfig) {
	if repo := config.GitHub.Repository; repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			v.addError("github.repository", fmt.Sprintf("expected 'owner/repo', got %q", repo))
		}
	}
	if (config.GitHub.AppID == "") != (config.GitHub.PrivateKey == "") {
		v.addError("github", "app_id and private_key must be set together")
	}
}

func (v *Validator) validateAgents(config *SquadConfig) map[string]bool {
	roles := make(map[string]bool, len(config.Agents))
	if len(config.Agents) == 0 {
		v.addError("agents", "at least one agent is required")
	}
	for i, a := range config.Agents {
		path := fmt.Sprintf("agents[%d]", i)
		if strings.TrimSpace(a.Role) == "" {
			v.addError(path+".role", "role is required")
			continue
		}
		if roles[a.Role] {
			v.addError(path+".role", fmt.Sprintf("duplicate role: %s", a.Role))
		}
		roles[a.Role] = true
		if a.Goal == "" {
			v.addError(path+".goal", "goal is required")
		}
	}
	return roles
}

func (v *Validator) validateTasks(config *SquadConfig, roles map[string]bool) {
	if len(config.Tasks) == 0 {
		v.addError("tasks", "at least one task is required")
	}
	for i, t := range config.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if strings.TrimSpace(t.Description) == "" {
			v.addError(path+".description", "description is required")
		}
		if t.Agent == "" {
			v.addError(path+".agent", "agent is required")
		} else if !roles[t.Agent] {
			v.addError(path+".agent", fmt.Sprintf("unknown agent role: %s", t.Agent))
		}
	}
}

func (v *Validator) validateResilience(config *SquadConfig) {
	r := config.Resilience
	if r.Timeout < 0 {
		v.addError("resilience.timeout", "timeout must be non-negative")
	}
	if r.Retry.Enabled {
		if r.Retry.MaxAttempts < 0 {
			v.addError("resilience.retry.max_attempts", "max_attempts must be non-negative")
		}
		if r.Retry.Multiplier != 0 && r.Retry.Multiplier < 1 {
			v.addError("resilience.retry.multiplier", "multiplier must be at least 1")
		}
	}
	if r.CircuitBreaker.Enabled && r.CircuitBreaker.Threshold < 0 {
		v.addError("resilience.circuit_breaker.threshold", "threshold must be non-negative")
	}
}

func (v *Validator) validateObservability(config *SquadConfig) {
	switch config.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		v.addError("logging.level", fmt.Sprintf("invalid level: %s", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "", "console", "json":
	default:
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", config.Logging.Format))
	}
	switch config.Tracing.Exporter {
	case "", "none", "stdout":
	case "otlp":
		if config.Tracing.Endpoint == "" {
			v.addError("tracing.endpoint", "endpoint is required for the otlp exporter")
		}
	default:
		v.addError("tracing.exporter", fmt.Sprintf("invalid exporter: %s", config.Tracing.Exporter))
	}
	if config.Tracing.SampleRate < 0 || config.Tracing.SampleRate > 1 {
		v.addError("tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}
