// Package statemachine provides the statekit integration for the catalog
// builder lifecycle.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// State is a catalog lifecycle state.
type State string

// Lifecycle states. Every state except StateUnresolved is terminal.
const (
	StateUnresolved      State = "unresolved"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
	StateNoCredentials   State = "no_credentials"
)

// IsTerminal reports whether s is a final state.
func (s State) IsTerminal() bool {
	switch s {
	case StateAuthenticated, StateUnauthenticated, StateNoCredentials:
		return true
	default:
		return false
	}
}

// Events accepted by the catalog machine.
const (
	EventAuthenticated statekit.EventType = "AUTHENTICATED"
	EventRejected      statekit.EventType = "REJECTED"
	EventNoCredentials statekit.EventType = "NO_CREDENTIALS"
)

// Context carries the outcome of catalog construction through the machine.
type Context struct {
	// Source is the credential kind that produced the outcome.
	Source string
	// Tools is the size of the resulting catalog.
	Tools int
	// Reason explains an unauthenticated outcome.
	Reason string
}

// Outcome is the payload of a terminal event.
type Outcome struct {
	Source string
	Tools  int
	Reason string
}

// NewCatalogMachine creates the catalog lifecycle statechart.
func NewCatalogMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("catalog").
		WithInitial(statekit.StateID(StateUnresolved)).
		WithContext(&Context{}).
		WithAction("recordOutcome", recordOutcome).
		WithGuard("hasTools", guardHasTools).
		State(statekit.StateID(StateUnresolved)).
			On(EventAuthenticated).Target(statekit.StateID(StateAuthenticated)).Guard("hasTools").Do("recordOutcome").
			On(EventRejected).Target(statekit.StateID(StateUnauthenticated)).Do("recordOutcome").
			On(EventNoCredentials).Target(statekit.StateID(StateNoCredentials)).Do("recordOutcome").
			Done().
		State(statekit.StateID(StateAuthenticated)).
			Final().
			Done().
		State(statekit.StateID(StateUnauthenticated)).
			Final().
			Done().
		State(statekit.StateID(StateNoCredentials)).
			Final().
			Done().
		Build()
}

// recordOutcome copies the event payload into the machine context.
func recordOutcome(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if o, ok := event.Payload.(Outcome); ok {
		(*ctx).Source = o.Source
		(*ctx).Tools = o.Tools
		(*ctx).Reason = o.Reason
	}
}

// guardHasTools rejects an authenticated outcome that carries no tools.
func guardHasTools(_ *Context, event statekit.Event) bool {
	o, ok := event.Payload.(Outcome)
	return ok && o.Tools > 0
}
