package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/agent-squad/domain/config"
	"github.com/felixgeelhaar/agent-squad/domain/credential"
)

const squadYAML = `
name: mini
version: "1.0"
llm:
  model: ${MODEL:-gpt-4o-mini}
  api_key: ${KEY}
  timeout: 30s
github:
  repository: octocat/Hello-World
agents:
  - role: Developer
    goal: build things
    tools: [read_github_file]
tasks:
  - name: impl
    agent: Developer
    description: Build {{project}}
`

func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "squad.yaml")
	if err := os.WriteFile(path, []byte(squadYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := NewLoaderWithOptions(WithLookup(mapLookup(map[string]string{"KEY": "sk-test"})))
	cfg, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Name != "mini" {
		t.Errorf("Name = %s", cfg.Name)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout.Duration() != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.LLM.Timeout.Duration())
	}
	if cfg.MaxIterations != domainconfig.DefaultMaxIterations {
		t.Errorf("MaxIterations = %d, defaults not applied", cfg.MaxIterations)
	}
	if got := cfg.Agents[0].Tools; len(got) != 1 || got[0] != "read_github_file" {
		t.Errorf("Tools = %v", got)
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "squad.txt")
	_ = os.WriteFile(txt, []byte("x"), 0o644)
	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("name: [unclosed"), 0o644)
	invalid := filepath.Join(dir, "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("name: x\nagents: []\ntasks: []\n"), 0o644)

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), domainconfig.ErrConfigNotFound},
		{"directory", dir, domainconfig.ErrInvalidFormat},
		{"extension", txt, domainconfig.ErrUnsupportedFormat},
		{"syntax", bad, domainconfig.ErrInvalidFormat},
		{"validation", invalid, domainconfig.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadFile(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoader_LoadJSON(t *testing.T) {
	t.Parallel()

	content := `{"name":"j","agents":[{"role":"Tester","goal":"test"}],"tasks":[{"description":"Test","agent":"Tester"}]}`
	cfg, err := NewLoader().LoadString(content, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Agents[0].Role != "Tester" {
		t.Errorf("Role = %s", cfg.Agents[0].Role)
	}
}

func TestLoader_LoadDefault(t *testing.T) {
	t.Parallel()

	loader := NewLoaderWithOptions(WithLookup(mapLookup(nil)))
	cfg, err := loader.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}

	squad, err := Squad(cfg)
	if err != nil {
		t.Fatalf("Squad() error = %v", err)
	}
	want := []string{"Project Manager", "Tech Lead", "Developer", "Tester"}
	if got := strings.Join(squad.Roles(), ","); got != strings.Join(want, ",") {
		t.Errorf("Roles() = %s", got)
	}
	if len(squad.Tasks) != 4 {
		t.Fatalf("len(Tasks) = %d, want 4", len(squad.Tasks))
	}
	if !strings.Contains(squad.Tasks[0].Description, "{{project}}") {
		t.Error("planning task should reference the project placeholder")
	}
	if cfg.LLM.Model != "gpt-4" {
		t.Errorf("Model = %s, want gpt-4", cfg.LLM.Model)
	}
	if !cfg.Resilience.Retry.Enabled {
		t.Error("default squad should retry model calls")
	}
}

func TestDefaultSquadYAML_IsCopy(t *testing.T) {
	t.Parallel()

	a := DefaultSquadYAML()
	a[0] = '#'
	if DefaultSquadYAML()[0] == '#' {
		t.Error("DefaultSquadYAML() must return a copy")
	}
}

func TestCredentialLookup(t *testing.T) {
	t.Parallel()

	env := credential.MapLookup(map[string]string{
		credential.KeyToken:      "env-token",
		credential.KeyRepository: "env/repo",
	})
	lookup := CredentialLookup(domainconfig.GitHubConfig{Repository: "file/repo"}, env)

	src, ok := credential.Resolve(lookup).(credential.PersonalAccessToken)
	if !ok {
		t.Fatalf("Resolve() = %T, want PersonalAccessToken", credential.Resolve(lookup))
	}
	if src.Token != "env-token" {
		t.Errorf("Token = %q, want env fallback", src.Token)
	}
	if src.Repository != "file/repo" {
		t.Errorf("Repository = %q, want file value", src.Repository)
	}
}
