// Package config provides domain models for squad configuration.
package config

import "time"

// SquadConfig represents the complete squad configuration.
type SquadConfig struct {
	// Name is a human-readable name for this squad.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the squad's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Process is the task execution order. Only "sequential" is supported.
	Process string `json:"process,omitempty" yaml:"process,omitempty"`
	// MaxIterations caps model round trips per task.
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`

	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	GitHub     GitHubConfig     `json:"github,omitempty" yaml:"github,omitempty"`
	Agents     []AgentConfig    `json:"agents" yaml:"agents"`
	Tasks      []TaskConfig     `json:"tasks" yaml:"tasks"`
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	Logging    LoggingConfig    `json:"logging,omitempty" yaml:"logging,omitempty"`
	Tracing    TracingConfig    `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// LLMConfig configures the chat model.
type LLMConfig struct {
	// Provider selects the backend (openai).
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Model is the model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	// APIKey authenticates with the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Temperature controls sampling randomness. Nil means the default; an
	// explicit 0 requests deterministic output.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	// Timeout bounds a single completion request.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// GitHubConfig configures repository access. Values left empty fall back to
// the GITHUB_* environment variables.
type GitHubConfig struct {
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`
	AppID      string `json:"app_id,omitempty" yaml:"app_id,omitempty"`
	PrivateKey string `json:"private_key,omitempty" yaml:"private_key,omitempty"`
	// BaseURL points at GitHub Enterprise.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// AgentConfig defines one persona.
type AgentConfig struct {
	Role            string   `json:"role" yaml:"role"`
	Goal            string   `json:"goal" yaml:"goal"`
	Backstory       string   `json:"backstory" yaml:"backstory"`
	AllowDelegation bool     `json:"allow_delegation,omitempty" yaml:"allow_delegation,omitempty"`
	Tools           []string `json:"tools,omitempty" yaml:"tools,omitempty"`
}

// TaskConfig defines one task.
type TaskConfig struct {
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`
	// Agent is the role of the persona performing the task.
	Agent string `json:"agent" yaml:"agent"`
}

// ResilienceConfig contains resilience settings for model calls.
type ResilienceConfig struct {
	// Timeout is the overall budget for one model call including retries.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Retry configures retry behavior.
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
	// CircuitBreaker configures circuit breaker behavior.
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker,omitempty" yaml:"circuit_breaker,omitempty"`
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// Enabled enables retry.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// MaxAttempts is the maximum retry attempts.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// Enabled enables circuit breaker.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Threshold is consecutive failures before opening.
	Threshold int `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Timeout is how long the circuit stays open.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	// Exporter is none, stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	// SampleRate is the fraction of traces kept.
	SampleRate float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	// Insecure disables TLS towards the collector.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`
}

// Defaults for unset fields.
const (
	DefaultProcess       = "sequential"
	DefaultProvider      = "openai"
	DefaultModel         = "gpt-4"
	DefaultTemperature   = 0.7
	DefaultMaxIterations = 10
)

// ApplyDefaults fills unset fields.
func (c *SquadConfig) ApplyDefaults() {
	if c.Process == "" {
		c.Process = DefaultProcess
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.Temperature == nil {
		temperature := DefaultTemperature
		c.LLM.Temperature = &temperature
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = Duration(60 * time.Second)
	}
	if c.Resilience.Retry.Enabled {
		if c.Resilience.Retry.MaxAttempts == 0 {
			c.Resilience.Retry.MaxAttempts = 3
		}
		if c.Resilience.Retry.InitialDelay == 0 {
			c.Resilience.Retry.InitialDelay = Duration(time.Second)
		}
		if c.Resilience.Retry.Multiplier == 0 {
			c.Resilience.Retry.Multiplier = 2
		}
	}
	if c.Resilience.CircuitBreaker.Enabled {
		if c.Resilience.CircuitBreaker.Threshold == 0 {
			c.Resilience.CircuitBreaker.Threshold = 5
		}
		if c.Resilience.CircuitBreaker.Timeout == 0 {
			c.Resilience.CircuitBreaker.Timeout = Duration(30 * time.Second)
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "none"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1
	}
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
