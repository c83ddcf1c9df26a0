package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateNotStarted

	next, err := Transition(s, EventStart)
	require.NoError(t, err)
	require.Equal(t, StateActive, next)

	next, err = Transition(next, EventTick)
	require.NoError(t, err)
	require.Equal(t, StateActive, next)

	next, err = Transition(next, EventAdvance)
	require.NoError(t, err)
	require.Equal(t, StateActive, next)

	next, err = Transition(next, EventFinish)
	require.NoError(t, err)
	require.Equal(t, StateEnded, next)
}

func TestTransitionRestartFromAnyStateGoesNotStarted(t *testing.T) {
	states := []State{StateNotStarted, StateActive, StateEnded}
	for _, state := range states {
		next, err := Transition(state, EventRestart)
		require.NoError(t, err)
		require.Equal(t, StateNotStarted, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "not started tick invalid", state: StateNotStarted, event: EventTick, want: StateNotStarted, wantErr: true},
		{name: "not started advance invalid", state: StateNotStarted, event: EventAdvance, want: StateNotStarted, wantErr: true},
		{name: "not started finish invalid", state: StateNotStarted, event: EventFinish, want: StateNotStarted, wantErr: true},
		{name: "active start invalid", state: StateActive, event: EventStart, want: StateActive, wantErr: true},
		{name: "ended start invalid", state: StateEnded, event: EventStart, want: StateEnded, wantErr: true},
		{name: "ended tick invalid", state: StateEnded, event: EventTick, want: StateEnded, wantErr: true},
		{name: "ended advance invalid", state: StateEnded, event: EventAdvance, want: StateEnded, wantErr: true},
		{name: "ended finish invalid", state: StateEnded, event: EventFinish, want: StateEnded, wantErr: true},
		{name: "ended restart valid", state: StateEnded, event: EventRestart, want: StateNotStarted, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventRestart)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
