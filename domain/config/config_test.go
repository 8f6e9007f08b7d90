package config

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func validConfig() *SquadConfig {
	return &SquadConfig{
		Name: "squad",
		Agents: []AgentConfig{
			{Role: "Developer", Goal: "build"},
		},
		Tasks: []TaskConfig{
			{Name: "impl", Description: "Build it", Agent: "Developer"},
		},
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Resilience.Retry.Enabled = true
	cfg.ApplyDefaults()

	if cfg.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, want %d", cfg.MaxIterations, DefaultMaxIterations)
	}
	if cfg.LLM.Model != DefaultModel || cfg.LLM.Provider != DefaultProvider {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Resilience.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Resilience.Retry.MaxAttempts)
	}
	if cfg.Resilience.CircuitBreaker.Threshold != 0 {
		t.Error("disabled circuit breaker should not get defaults")
	}
	if cfg.Tracing.Exporter != "none" {
		t.Errorf("Tracing.Exporter = %s", cfg.Tracing.Exporter)
	}
	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != DefaultTemperature {
		t.Errorf("LLM.Temperature = %v, want %v", cfg.LLM.Temperature, DefaultTemperature)
	}
}

func TestApplyDefaults_KeepsZeroTemperature(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	zero := 0.0
	cfg.LLM.Temperature = &zero
	cfg.ApplyDefaults()

	if cfg.LLM.Temperature == nil || *cfg.LLM.Temperature != 0 {
		t.Errorf("LLM.Temperature = %v, want 0", cfg.LLM.Temperature)
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *SquadConfig)
		wantErr string
	}{
		{"valid", func(*SquadConfig) {}, ""},
		{"missing name", func(c *SquadConfig) { c.Name = "" }, "name: name is required"},
		{"bad process", func(c *SquadConfig) { c.Process = "hierarchical" }, "unsupported process"},
		{"negative iterations", func(c *SquadConfig) { c.MaxIterations = -1 }, "max_iterations"},
		{"bad provider", func(c *SquadConfig) { c.LLM.Provider = "acme" }, "unsupported provider"},
		{"bad temperature", func(c *SquadConfig) { v := 3.0; c.LLM.Temperature = &v }, "llm.temperature"},
		{"zero temperature", func(c *SquadConfig) { v := 0.0; c.LLM.Temperature = &v }, ""},
		{"bad repository", func(c *SquadConfig) { c.GitHub.Repository = "octocat" }, "github.repository"},
		{"half app", func(c *SquadConfig) { c.GitHub.AppID = "1" }, "app_id and private_key"},
		{"no agents", func(c *SquadConfig) { c.Agents = nil }, "at least one agent"},
		{"duplicate role", func(c *SquadConfig) {
			c.Agents = append(c.Agents, AgentConfig{Role: "Developer", Goal: "x"})
		}, "duplicate role"},
		{"unknown task agent", func(c *SquadConfig) { c.Tasks[0].Agent = "Tester" }, "unknown agent role"},
		{"no tasks", func(c *SquadConfig) { c.Tasks = nil }, "at least one task"},
		{"bad log level", func(c *SquadConfig) { c.Logging.Level = "loud" }, "logging.level"},
		{"otlp without endpoint", func(c *SquadConfig) { c.Tracing.Exporter = "otlp" }, "tracing.endpoint"},
		{"bad multiplier", func(c *SquadConfig) {
			c.Resilience.Retry = RetryConfig{Enabled: true, Multiplier: 0.5}
		}, "multiplier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			errs := NewValidator().Validate(cfg)

			if tt.wantErr == "" {
				if errs.HasErrors() {
					t.Errorf("Validate() = %v", errs)
				}
				return
			}
			if !errs.HasErrors() {
				t.Fatalf("Validate() returned no errors, want %q", tt.wantErr)
			}
			if !strings.Contains(errs.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want it to contain %q", errs, tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	if got := (ValidationErrors{}).Error(); got != "no validation errors" {
		t.Errorf("empty = %q", got)
	}
	errs := ValidationErrors{{Path: "a", Message: "x"}, {Message: "y"}}
	if got := errs.Error(); got != "2 validation errors:\n  - a: x\n  - y" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDuration_Unmarshal(t *testing.T) {
	t.Parallel()

	var fromJSON struct {
		D Duration `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"1m30s"}`), &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if fromJSON.D.Duration() != 90*time.Second {
		t.Errorf("JSON duration = %v", fromJSON.D.Duration())
	}

	var fromYAML struct {
		D Duration `yaml:"d"`
	}
	if err := yaml.Unmarshal([]byte("d: 250ms\n"), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if fromYAML.D.Duration() != 250*time.Millisecond {
		t.Errorf("YAML duration = %v", fromYAML.D.Duration())
	}

	if err := yaml.Unmarshal([]byte("d: soon\n"), &fromYAML); err == nil {
		t.Error("invalid duration should fail")
	}
}
