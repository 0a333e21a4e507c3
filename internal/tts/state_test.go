package tts

import "testing"

var allStates = []State{StateUninitialized, StateLocalEngineReady, StateModelLoaded, StateReady, StateFailed}

func TestNewStateMachine_InitialStateIsUninitialized(t *testing.T) {
	sm := NewStateMachine()
	if sm.Current() != StateUninitialized {
		t.Fatalf("expected initial state Uninitialized, got %s", sm.Current())
	}
}

func TestValidTransition_Table(t *testing.T) {
	legal := map[[2]State]bool{
		{StateUninitialized, StateLocalEngineReady}: true,
		{StateUninitialized, StateModelLoaded}:      true,
		{StateUninitialized, StateFailed}:           true,
		{StateModelLoaded, StateReady}:              true,
		{StateModelLoaded, StateFailed}:             true,
	}

	for _, from := range allStates {
		for _, to := range allStates {
			want := legal[[2]State{from, to}]
			if got := validTransition(from, to); got != want {
				t.Errorf("validTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStateMachine_ModelPath(t *testing.T) {
	sm := NewStateMachine()
	if !sm.Transition(StateModelLoaded) {
		t.Fatal("Uninitialized → ModelLoaded should be valid")
	}
	if !sm.Transition(StateReady) {
		t.Fatal("ModelLoaded → Ready should be valid")
	}
	if sm.Transition(StateFailed) {
		t.Error("Ready is terminal")
	}
	if sm.Current() != StateReady {
		t.Errorf("expected Ready, got %s", sm.Current())
	}
}

func TestStateMachine_TerminalStates(t *testing.T) {
	for _, s := range allStates {
		if s.Terminal() != (s == StateLocalEngineReady || s == StateReady || s == StateFailed) {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
	}

	sm := NewStateMachine()
	sm.Transition(StateLocalEngineReady)
	for _, to := range allStates {
		if sm.Transition(to) {
			t.Errorf("LocalEngineReady → %s should be invalid", to)
		}
	}
}

func TestStateMachine_OnChangeCallback(t *testing.T) {
	sm := NewStateMachine()

	var calledFrom, calledTo State
	callCount := 0
	sm.SetOnChange(func(from, to State) {
		calledFrom = from
		calledTo = to
		callCount++
	})

	sm.Transition(StateModelLoaded)
	sm.Transition(StateLocalEngineReady) // invalid
	if callCount != 1 {
		t.Fatalf("expected onChange called once, got %d", callCount)
	}
	if calledFrom != StateUninitialized || calledTo != StateModelLoaded {
		t.Errorf("expected callback with Uninitialized→ModelLoaded, got %s→%s", calledFrom, calledTo)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateLocalEngineReady, "LocalEngineReady"},
		{StateModelLoaded, "ModelLoaded"},
		{StateReady, "Ready"},
		{StateFailed, "Failed"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
