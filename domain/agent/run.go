package agent

import (
	"strings"
	"time"
)

// RunStatus represents the current status of a squad run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// TaskResult is the output of one task.
type TaskResult struct {
	Task       string        `json:"task"`
	Role       string        `json:"role"`
	Output     string        `json:"output"`
	Iterations int           `json:"iterations"`
	ToolCalls  int           `json:"tool_calls"`
	Duration   time.Duration `json:"duration"`
}

// Run records one sequential execution of a squad.
type Run struct {
	ID        string       `json:"id"`
	Project   string       `json:"project"`
	Status    RunStatus    `json:"status"`
	Results   []TaskResult `json:"results"`
	StartTime time.Time    `json:"start_time"`
	EndTime   time.Time    `json:"end_time,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// NewRun creates a pending run.
func NewRun(id, project string) *Run {
	return &Run{
		ID:      id,
		Project: project,
		Status:  RunStatusPending,
		Results: make([]TaskResult, 0),
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Record appends a task result.
func (r *Run) Record(result TaskResult) error {
	if r.IsTerminal() {
		return ErrRunTerminated
	}
	r.Results = append(r.Results, result)
	return nil
}

// Complete marks the run as successfully finished.
func (r *Run) Complete() {
	r.Status = RunStatusCompleted
	r.EndTime = time.Now()
}

// Fail marks the run as failed.
func (r *Run) Fail(err error) {
	r.Status = RunStatusFailed
	r.EndTime = time.Now()
	if err != nil {
		r.Error = err.Error()
	}
}

// IsTerminal reports whether the run has finished.
func (r *Run) IsTerminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// Duration returns the run duration, up to now if still running.
func (r *Run) Duration() time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Final returns the output of the last task.
func (r *Run) Final() string {
	if len(r.Results) == 0 {
		return ""
	}
	return r.Results[len(r.Results)-1].Output
}

// Context renders earlier task outputs as context for the next task.
func (r *Run) Context() string {
	parts := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if strings.TrimSpace(res.Output) == "" {
			continue
		}
		parts = append(parts, res.Output)
	}
	return strings.Join(parts, "\n\n")
}
