package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-squad/domain/agent"
	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

// CrewConfig contains configuration for a crew.
type CrewConfig struct {
	Squad         agent.Squad
	Provider      planner.Provider
	Catalog       *tool.Catalog
	Model         string
	Temperature   *float64
	MaxTokens     int
	MaxIterations int

	// NewID generates run identifiers. Defaults to random UUIDs.
	NewID func() string
}

// Crew runs a squad's tasks one after another, handing each task's output
// to the next as context.
type Crew struct {
	squad  agent.Squad
	agents map[string]*Agent
	newID  func() string
}

// NewCrew validates the squad and builds one agent per persona.
func NewCrew(config CrewConfig) (*Crew, error) {
	if config.Provider == nil {
		return nil, ErrNoProvider
	}
	if err := config.Squad.Validate(); err != nil {
		return nil, fmt.Errorf("invalid squad: %w", err)
	}

	c := &Crew{
		squad:  config.Squad,
		agents: make(map[string]*Agent, len(config.Squad.Personas)),
		newID:  config.NewID,
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}

	for _, p := range config.Squad.Personas {
		a, err := NewAgent(AgentConfig{
			Persona:       p,
			Provider:      config.Provider,
			Catalog:       config.Catalog,
			Model:         config.Model,
			Temperature:   config.Temperature,
			MaxTokens:     config.MaxTokens,
			MaxIterations: config.MaxIterations,
		})
		if err != nil {
			return nil, fmt.Errorf("persona %s: %w", p.Role, err)
		}
		c.agents[p.Role] = a
	}
	return c, nil
}

// Agent returns the agent playing role.
func (c *Crew) Agent(role string) (*Agent, bool) {
	a, ok := c.agents[role]
	return a, ok
}

// Kickoff runs every task for project in order. The returned run is never
// nil; on failure it is marked failed and holds the results so far.
func (c *Crew) Kickoff(ctx context.Context, project string) (*agent.Run, error) {
	run := agent.NewRun(c.newID(), project)
	run.Start()

	logging.Info().
		Add(logging.RunID(run.ID)).
		Add(logging.Str("squad", c.squad.Name)).
		Add(logging.Count(len(c.squad.Tasks))).
		Msg("run started")

	for _, task := range c.squad.Tasks {
		if err := ctx.Err(); err != nil {
			return c.fail(run, task, err)
		}

		a, ok := c.agents[task.Role]
		if !ok {
			return c.fail(run, task, fmt.Errorf("%w: %s", agent.ErrUnknownRole, task.Role))
		}

		logging.Info().
			Add(logging.RunID(run.ID)).
			Add(logging.Task(task.Name)).
			Add(logging.Role(task.Role)).
			Msg("task started")

		res, err := a.Execute(ctx, task.Prompt(project, run.Context()))
		if err != nil {
			return c.fail(run, task, err)
		}

		if err := run.Record(agent.TaskResult{
			Task:       task.Name,
			Role:       task.Role,
			Output:     res.Output,
			Iterations: res.Iterations,
			ToolCalls:  res.ToolCalls,
			Duration:   res.Duration,
		}); err != nil {
			return run, err
		}

		logging.Info().
			Add(logging.RunID(run.ID)).
			Add(logging.Task(task.Name)).
			Add(logging.Iteration(res.Iterations)).
			Add(logging.Duration(res.Duration)).
			Msg("task completed")
	}

	run.Complete()
	logging.Info().
		Add(logging.RunID(run.ID)).
		Add(logging.Duration(run.Duration())).
		Msg("run completed")
	return run, nil
}

func (c *Crew) fail(run *agent.Run, task agent.Task, err error) (*agent.Run, error) {
	err = fmt.Errorf("task %s: %w", task.Name, err)
	run.Fail(err)
	logging.Error().
		Add(logging.RunID(run.ID)).
		Add(logging.Task(task.Name)).
		Add(logging.ErrorField(err)).
		Add(logging.Duration(run.Duration())).
		Msg("run failed")
	return run, err
}
