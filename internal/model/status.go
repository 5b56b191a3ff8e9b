package model

import "fmt"

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRunning    Phase = "running"
	PhaseCancelling Phase = "cancelling"
	PhaseFinished   Phase = "finished"
	PhaseError      Phase = "error"
)

// Finished and Error are terminal per job; both return the manager to Idle.
var allowedTransitions = map[Phase]map[Phase]bool{
	PhaseIdle: {
		PhaseRunning: true,
	},
	PhaseRunning: {
		PhaseCancelling: true,
		PhaseFinished:   true,
		PhaseError:      true,
	},
	PhaseCancelling: {
		PhaseCancelling: true, // repeated cancel requests are idempotent
		PhaseFinished:   true,
		PhaseError:      true,
	},
	PhaseFinished: {
		PhaseIdle: true,
	},
	PhaseError: {
		PhaseIdle: true,
	},
}

func IsKnownPhase(phase Phase) bool {
	_, ok := allowedTransitions[phase]
	return ok
}

func CanTransition(from, to Phase) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func Transition(from, to Phase) (Phase, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("invalid phase transition: %q -> %q", from, to)
	}
	return to, nil
}
