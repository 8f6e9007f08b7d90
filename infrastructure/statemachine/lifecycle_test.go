package statemachine

import (
	"errors"
	"testing"
)

func TestNewCatalogMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewCatalogMachine()
	if err != nil {
		t.Fatalf("NewCatalogMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewCatalogMachine() returned nil machine")
	}
}

func TestState_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  bool
	}{
		{StateUnresolved, false},
		{StateAuthenticated, true},
		{StateUnauthenticated, true},
		{StateNoCredentials, true},
		{State("custom"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			if got := tt.state.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLifecycle_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report func(l *Lifecycle) error
		want   State
		tools  int
	}{
		{
			name:   "authenticated",
			report: func(l *Lifecycle) error { return l.Authenticated("personal_access_token", 8) },
			want:   StateAuthenticated,
			tools:  8,
		},
		{
			name:   "rejected",
			report: func(l *Lifecycle) error { return l.Rejected("personal_access_token", "401 Bad credentials") },
			want:   StateUnauthenticated,
		},
		{
			name:   "no credentials",
			report: func(l *Lifecycle) error { return l.NoCredentials() },
			want:   StateNoCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := NewLifecycle()
			if err != nil {
				t.Fatalf("NewLifecycle() error = %v", err)
			}
			if l.State() != StateUnresolved {
				t.Fatalf("initial State() = %s, want %s", l.State(), StateUnresolved)
			}

			if err := tt.report(l); err != nil {
				t.Fatalf("report error = %v", err)
			}
			if l.State() != tt.want {
				t.Errorf("State() = %s, want %s", l.State(), tt.want)
			}
			if l.Outcome().Tools != tt.tools {
				t.Errorf("Outcome().Tools = %d, want %d", l.Outcome().Tools, tt.tools)
			}
		})
	}
}

func TestLifecycle_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	l, err := NewLifecycle()
	if err != nil {
		t.Fatalf("NewLifecycle() error = %v", err)
	}
	if err := l.NoCredentials(); err != nil {
		t.Fatalf("NoCredentials() error = %v", err)
	}

	err = l.Authenticated("app", 9)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("second outcome error = %v, want ErrAlreadyResolved", err)
	}
	if l.State() != StateNoCredentials {
		t.Errorf("State() = %s, want %s", l.State(), StateNoCredentials)
	}
}

func TestLifecycle_AuthenticatedWithoutTools(t *testing.T) {
	t.Parallel()

	l, err := NewLifecycle()
	if err != nil {
		t.Fatalf("NewLifecycle() error = %v", err)
	}
	if err := l.Authenticated("personal_access_token", 0); err == nil {
		t.Error("Authenticated(0) should be refused")
	}
	if l.State() != StateUnresolved {
		t.Errorf("State() = %s, want %s", l.State(), StateUnresolved)
	}
	if err := l.Rejected("personal_access_token", "empty catalog"); err != nil {
		t.Fatalf("Rejected() error = %v", err)
	}
	if got := l.Outcome().Reason; got != "empty catalog" {
		t.Errorf("Outcome().Reason = %q", got)
	}
}
