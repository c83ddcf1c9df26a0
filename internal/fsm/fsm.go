// Package fsm defines the interview session lifecycle states and transitions.
package fsm

import "fmt"

type State string

type Event string

const (
	StateNotStarted State = "not_started"
	StateActive     State = "active"
	StateEnded      State = "ended"
)

const (
	EventStart   Event = "start"
	EventTick    Event = "tick"
	EventAdvance Event = "advance"
	EventFinish  Event = "finish"
	EventRestart Event = "restart"
)

// Transition returns the state reached by applying event to current.
func Transition(current State, event Event) (State, error) {
	switch current {
	case StateNotStarted, StateActive, StateEnded:
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}

	if event == EventRestart {
		return StateNotStarted, nil
	}

	switch current {
	case StateNotStarted:
		switch event {
		case EventStart:
			return StateActive, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateActive:
		switch event {
		case EventTick, EventAdvance:
			return StateActive, nil
		case EventFinish:
			return StateEnded, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, invalidTransition(current, event)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
