package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bianoble/patch-sync/internal/executor"
	"github.com/bianoble/patch-sync/internal/patchset"
)

// Applier moves a single patch to the applied state, escalating from a
// whitespace-tolerant apply to a three-way merge.
type Applier struct {
	Tool     Tool
	Oracle   *Oracle
	Reporter Reporter
	Logger   *zap.Logger
}

type attempt struct {
	strategy Strategy
	op       string
	run      func(ctx context.Context, patch []byte) (executor.Result, error)
}

// Apply runs the state machine for one patch and returns its outcome.
// Failures are deterministic, so each attempt uses a different strategy and
// none is repeated.
func (a *Applier) Apply(ctx context.Context, art patchset.Artifact) Outcome {
	rep := a.reporter()
	log := nopIfNil(a.Logger).With(zap.String("patch", art.Name), zap.String("sha256", art.SHA256))

	rep.Report(Event{Kind: EventChecking, Patch: art.Name})
	if a.oracle().IsApplied(ctx, art) {
		rep.Report(Event{Kind: EventAlreadyApplied, Patch: art.Name})
		return Outcome{Patch: art.Name, State: StateAlreadyApplied}
	}

	attempts := []attempt{
		{StrategyWhitespaceTolerant, "apply", a.Tool.ApplyTolerant},
		{StrategyThreeWayMerge, "three-way apply", a.Tool.ApplyThreeWay},
	}

	var lastStderr string
	for _, at := range attempts {
		rep.Report(Event{Kind: EventApplying, Patch: art.Name, Strategy: at.strategy})

		res, err := at.run(ctx, art.Content)
		if err != nil {
			tie := &ToolInvocationError{Patch: art.Name, Op: at.op, Err: err}
			lastStderr = tie.Error()
			log.Warn("patch tool could not run", zap.String("strategy", string(at.strategy)), zap.Error(tie))
		} else if res.Succeeded {
			log.Debug("patch applied", zap.String("strategy", string(at.strategy)))
			rep.Report(Event{Kind: EventApplied, Patch: art.Name, Strategy: at.strategy})
			return Outcome{Patch: art.Name, State: StateApplied, Strategy: at.strategy}
		} else {
			lastStderr = res.Stderr
			log.Debug("apply attempt failed",
				zap.String("strategy", string(at.strategy)),
				zap.Int("exit_code", res.ExitCode),
				zap.String("stderr", strings.TrimSpace(res.Stderr)),
			)
		}
		rep.Report(Event{Kind: EventAttemptFailed, Patch: art.Name, Strategy: at.strategy, Detail: strings.TrimSpace(lastStderr)})
	}

	rep.Report(Event{Kind: EventFailed, Patch: art.Name, Detail: strings.TrimSpace(lastStderr)})
	return Outcome{Patch: art.Name, State: StateFailed, Stderr: lastStderr}
}

func (a *Applier) oracle() *Oracle {
	if a.Oracle != nil {
		return a.Oracle
	}
	return &Oracle{Tool: a.Tool, Logger: a.Logger}
}

func (a *Applier) reporter() Reporter {
	if a.Reporter == nil {
		return NopReporter{}
	}
	return a.Reporter
}
