package statemachine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/statekit"
)

// ErrAlreadyResolved indicates a second outcome was reported to a lifecycle.
var ErrAlreadyResolved = errors.New("catalog lifecycle already resolved")

// Lifecycle tracks one catalog construction from unresolved to a terminal
// state. There are no retries: once terminal it stays terminal.
type Lifecycle struct {
	mu     sync.Mutex
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewLifecycle creates and starts a lifecycle in StateUnresolved.
func NewLifecycle() (*Lifecycle, error) {
	machine, err := NewCatalogMachine()
	if err != nil {
		return nil, fmt.Errorf("build catalog machine: %w", err)
	}

	ctx := &Context{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()

	return &Lifecycle{interp: interp, ctx: ctx}, nil
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return State(l.interp.State().Value)
}

// Outcome returns a copy of the recorded outcome.
func (l *Lifecycle) Outcome() Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Outcome{Source: l.ctx.Source, Tools: l.ctx.Tools, Reason: l.ctx.Reason}
}

// Authenticated records a successful construction with tools entries. A
// zero-sized catalog is not an authenticated outcome and leaves the
// lifecycle unresolved.
func (l *Lifecycle) Authenticated(source string, tools int) error {
	return l.send(EventAuthenticated, Outcome{Source: source, Tools: tools})
}

// Rejected records a failed construction.
func (l *Lifecycle) Rejected(source, reason string) error {
	return l.send(EventRejected, Outcome{Source: source, Reason: reason})
}

// NoCredentials records that no credential source was configured.
func (l *Lifecycle) NoCredentials() error {
	return l.send(EventNoCredentials, Outcome{Source: "none"})
}

func (l *Lifecycle) send(event statekit.EventType, outcome Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.interp.Done() {
		return fmt.Errorf("%w: in state %s", ErrAlreadyResolved, l.interp.State().Value)
	}
	l.interp.Send(statekit.Event{Type: event, Payload: outcome})
	if State(l.interp.State().Value) == StateUnresolved {
		return fmt.Errorf("event %s not accepted in state %s", event, StateUnresolved)
	}
	return nil
}
