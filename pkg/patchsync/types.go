package patchsync

import "github.com/bianoble/patch-sync/internal/engine"

// Type aliases re-export engine types as the public API.
// Users import "github.com/bianoble/patch-sync/pkg/patchsync" and use
// patchsync.BatchReport, patchsync.Outcome, etc.

type State = engine.State
type Strategy = engine.Strategy
type Outcome = engine.Outcome
type BatchReport = engine.BatchReport
type ResetReport = engine.ResetReport

type EventKind = engine.EventKind
type Event = engine.Event
type Reporter = engine.Reporter
type ReporterFunc = engine.ReporterFunc

type PreconditionError = engine.PreconditionError
type ApplyFailure = engine.ApplyFailure
type ToolInvocationError = engine.ToolInvocationError

const (
	StateAlreadyApplied = engine.StateAlreadyApplied
	StateApplied        = engine.StateApplied
	StateFailed         = engine.StateFailed

	StrategyStrict             = engine.StrategyStrict
	StrategyWhitespaceTolerant = engine.StrategyWhitespaceTolerant
	StrategyThreeWayMerge      = engine.StrategyThreeWayMerge

	EventChecking       = engine.EventChecking
	EventAlreadyApplied = engine.EventAlreadyApplied
	EventApplying       = engine.EventApplying
	EventAttemptFailed  = engine.EventAttemptFailed
	EventApplied        = engine.EventApplied
	EventFailed         = engine.EventFailed
	EventReverting      = engine.EventReverting
	EventReverted       = engine.EventReverted
	EventReverseSkipped = engine.EventReverseSkipped
	EventReverseFailed  = engine.EventReverseFailed
)
