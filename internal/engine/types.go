package engine

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// State is the terminal state of one patch in a forward run.
type State string

const (
	StateAlreadyApplied State = "already-applied"
	StateApplied        State = "applied"
	StateFailed         State = "failed"
)

// Strategy names how an applied patch got into the tree.
type Strategy string

const (
	// StrategyStrict is exact-context application. The applier never
	// produces it: whitespace tolerance is folded into the first attempt.
	StrategyStrict             Strategy = "strict"
	StrategyWhitespaceTolerant Strategy = "whitespace-tolerant"
	StrategyThreeWayMerge      Strategy = "three-way-merge"
)

// Outcome is the result of running one patch through the applier.
type Outcome struct {
	Patch    string
	State    State
	Strategy Strategy // set only when State is StateApplied
	Stderr   string   // last failing attempt, set only when State is StateFailed
}

// ApplyFailure records that every strategy was exhausted for a patch.
type ApplyFailure struct {
	Patch  string
	Stderr string
}

func (e *ApplyFailure) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s: failed to apply", e.Patch)
	}
	return fmt.Sprintf("%s: failed to apply: %s", e.Patch, msg)
}

// ToolInvocationError reports that the patch tool could not be launched.
// It is folded into the outcome like any other failed attempt.
type ToolInvocationError struct {
	Patch string
	Op    string
	Err   error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Patch, e.Op, e.Err)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// PreconditionError reports that the run cannot start at all.
type PreconditionError struct {
	Path string
	Err  error
	Hint string
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("source tree not found at %s: %v", e.Path, e.Err)
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// BatchReport aggregates the outcomes of one forward run.
type BatchReport struct {
	Outcomes       []Outcome
	Applied        int
	AlreadyApplied int
	Failed         int
	FailedPatches  []string
}

// Add records an outcome.
func (r *BatchReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.State {
	case StateApplied:
		r.Applied++
	case StateAlreadyApplied:
		r.AlreadyApplied++
	case StateFailed:
		r.Failed++
		r.FailedPatches = append(r.FailedPatches, o.Patch)
	}
}

// Total is the number of patches processed.
func (r *BatchReport) Total() int {
	return len(r.Outcomes)
}

// Success reports whether no patch failed.
func (r *BatchReport) Success() bool {
	return r.Failed == 0
}

// Err combines every failed outcome into one error, or nil on success.
func (r *BatchReport) Err() error {
	var err error
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			err = multierr.Append(err, &ApplyFailure{Patch: o.Patch, Stderr: o.Stderr})
		}
	}
	return err
}

// ResetReport describes a reverse run. Reversal is best effort, so a
// non-empty Failed list does not make the reset fail.
type ResetReport struct {
	Reverted []string
	Skipped  []string
	Failed   []string
}

// Total is the number of patches examined.
func (r *ResetReport) Total() int {
	return len(r.Reverted) + len(r.Skipped) + len(r.Failed)
}
