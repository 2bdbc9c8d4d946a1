package onboarding

import (
	"errors"
	"strings"
	"time"
)

// Step is one stage of first-run orientation.
type Step string

const (
	StepNotStarted           Step = "not_started"
	StepOrientationComplete  Step = "orientation_complete"
	StepFirstSessionStarted  Step = "first_session_started"
	StepFirstSessionComplete Step = "first_session_complete"
	StepProgressConfirmed    Step = "progress_confirmed"
	StepProOffered           Step = "pro_offered"
	StepCompleted            Step = "completed"
)

var ErrUnknownStep = errors.New("unknown onboarding step")

// Steps lists every step in order. Transitions only ever move one place right.
var Steps = []Step{
	StepNotStarted,
	StepOrientationComplete,
	StepFirstSessionStarted,
	StepFirstSessionComplete,
	StepProgressConfirmed,
	StepProOffered,
	StepCompleted,
}

func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Advance returns the next step. Completed stays completed.
func Advance(current Step) (Step, error) {
	i := current.index()
	if i < 0 {
		return "", ErrUnknownStep
	}
	if i == len(Steps)-1 {
		return current, nil
	}
	return Steps[i+1], nil
}

// ParseStep accepts a step name case-insensitively. Empty means not started.
func ParseStep(s string) (Step, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StepNotStarted, nil
	}
	step := Step(s)
	if step.index() < 0 {
		return "", ErrUnknownStep
	}
	return step, nil
}

// State is held by the client; the server never stores it.
type State struct {
	Step      Step      `json:"step"`
	LastNiche string    `json:"last_niche,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Next advances st and stamps it with now.
func (st State) Next(now time.Time) (State, error) {
	step, err := Advance(st.Step)
	if err != nil {
		return st, err
	}
	return State{Step: step, LastNiche: st.LastNiche, UpdatedAt: now.UTC()}, nil
}

func (s Step) Done() bool { return s == StepCompleted }
