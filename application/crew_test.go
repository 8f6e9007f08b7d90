package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-squad/domain/agent"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

func testSquad() agent.Squad {
	return agent.Squad{
		Name: "test",
		Personas: []agent.Persona{
			{Role: "Project Manager", Goal: "Plan the work"},
			{Role: "Developer", Goal: "Build it"},
		},
		Tasks: []agent.Task{
			{Name: "planning", Description: "Plan {{project}}", ExpectedOutput: "A plan", Role: "Project Manager"},
			{Name: "implementation", Description: "Implement the plan", ExpectedOutput: "Code", Role: "Developer"},
		},
	}
}

func TestNewCrew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewCrew(CrewConfig{Squad: testSquad()}); !errors.Is(err, ErrNoProvider) {
		t.Errorf("without provider: error = %v", err)
	}

	squad := testSquad()
	squad.Tasks[1].Role = "Tester"
	_, err := NewCrew(CrewConfig{Squad: squad, Provider: planner.NewScriptedProvider()})
	if !errors.Is(err, agent.ErrUnknownRole) {
		t.Errorf("unknown role: error = %v, want ErrUnknownRole", err)
	}

	_, err = NewCrew(CrewConfig{Squad: agent.Squad{Personas: testSquad().Personas}, Provider: planner.NewScriptedProvider()})
	if !errors.Is(err, agent.ErrNoTasks) {
		t.Errorf("no tasks: error = %v, want ErrNoTasks", err)
	}
}

func TestCrew_Kickoff(t *testing.T) {
	t.Parallel()

	provider := planner.NewScriptedProvider(
		planner.Answer("1. Write the CLI"),
		planner.CallTool("call_1", "echo", "main.go"),
		planner.Answer("Implemented."),
	)
	crew, err := NewCrew(CrewConfig{
		Squad:    testSquad(),
		Provider: provider,
		Catalog:  testCatalog(t),
		Model:    "gpt-4",
		NewID:    func() string { return "run-1" },
	})
	if err != nil {
		t.Fatalf("NewCrew() error = %v", err)
	}

	run, err := crew.Kickoff(context.Background(), "a todo app")
	if err != nil {
		t.Fatalf("Kickoff() error = %v", err)
	}
	if run.ID != "run-1" || run.Project != "a todo app" {
		t.Errorf("run = %s/%s", run.ID, run.Project)
	}
	if run.Status != agent.RunStatusCompleted {
		t.Errorf("Status = %s, want completed", run.Status)
	}
	if len(run.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(run.Results))
	}
	if run.Results[0].Role != "Project Manager" || run.Results[0].Output != "1. Write the CLI" {
		t.Errorf("first result = %+v", run.Results[0])
	}
	if run.Results[1].ToolCalls != 1 || run.Results[1].Iterations != 2 {
		t.Errorf("second result = %+v", run.Results[1])
	}
	if run.Final() != "Implemented." {
		t.Errorf("Final() = %q", run.Final())
	}

	reqs := provider.Requests()
	first := reqs[0].Messages[1].Content
	if !strings.HasPrefix(first, "Plan a todo app") || !strings.Contains(first, "This is the expected output: A plan") {
		t.Errorf("planning prompt = %q", first)
	}
	if strings.Contains(first, "This is the context you are working with") {
		t.Error("first task should have no context")
	}
	second := reqs[1].Messages[1].Content
	if !strings.Contains(second, "This is the context you are working with:\n1. Write the CLI") {
		t.Errorf("implementation prompt = %q", second)
	}
	if !strings.Contains(reqs[1].Messages[0].Content, "You are Developer.") {
		t.Errorf("system prompt = %q", reqs[1].Messages[0].Content)
	}
}

func TestCrew_KickoffFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream down")
	provider := planner.NewScriptedProvider(
		planner.Answer("plan"),
		planner.ScriptStep{Err: boom},
	)
	crew, err := NewCrew(CrewConfig{Squad: testSquad(), Provider: provider})
	if err != nil {
		t.Fatal(err)
	}

	run, err := crew.Kickoff(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Fatalf("Kickoff() error = %v, want %v", err, boom)
	}
	if run.Status != agent.RunStatusFailed {
		t.Errorf("Status = %s, want failed", run.Status)
	}
	if len(run.Results) != 1 {
		t.Errorf("Results = %d, want 1", len(run.Results))
	}
	if !strings.Contains(run.Error, "task implementation") {
		t.Errorf("Error = %q", run.Error)
	}
}

func TestCrew_DefaultRunID(t *testing.T) {
	t.Parallel()

	provider := planner.NewScriptedProvider(planner.Answer("a"), planner.Answer("b"))
	crew, err := NewCrew(CrewConfig{Squad: testSquad(), Provider: provider})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := crew.Agent("Developer"); !ok {
		t.Error("Agent(Developer) missing")
	}

	run, err := crew.Kickoff(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("run ID %q is not a UUID: %v", run.ID, err)
	}
}

func TestCrew_Cancelled(t *testing.T) {
	t.Parallel()

	crew, err := NewCrew(CrewConfig{Squad: testSquad(), Provider: planner.NewScriptedProvider()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := crew.Kickoff(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Kickoff() error = %v", err)
	}
	if run.Status != agent.RunStatusFailed || len(run.Results) != 0 {
		t.Errorf("run = %s with %d results", run.Status, len(run.Results))
	}
}
