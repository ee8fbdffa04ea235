package engine

// EventKind identifies a progress event.
type EventKind string

const (
	EventChecking       EventKind = "checking"
	EventAlreadyApplied EventKind = "already-applied"
	EventApplying       EventKind = "applying"
	EventAttemptFailed  EventKind = "attempt-failed"
	EventApplied        EventKind = "applied"
	EventFailed         EventKind = "failed"
	EventReverting      EventKind = "reverting"
	EventReverted       EventKind = "reverted"
	EventReverseSkipped EventKind = "reverse-skipped"
	EventReverseFailed  EventKind = "reverse-failed"
)

// Event is a single progress notification.
type Event struct {
	Kind     EventKind
	Patch    string
	Strategy Strategy // the strategy being attempted or that succeeded
	Detail   string   // stderr for failures
}

// Reporter observes progress during a run.
type Reporter interface {
	Report(Event)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Report(Event) {}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }
