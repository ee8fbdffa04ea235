// Package engine decides whether patches are applied, applies them with an
// escalating strategy and reverses a whole patch set.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/bianoble/patch-sync/internal/patchset"
)

// Coordinator drives the applier over a patch set. It is the only owner of
// the tree for the duration of a run; patches are processed one at a time
// because each depends on the tree left by the ones before it.
type Coordinator struct {
	Tool     Tool
	Reporter Reporter
	Logger   *zap.Logger
}

// CheckTree verifies the target tree exists before a forward run.
func CheckTree(dir, hint string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &PreconditionError{Path: dir, Err: err, Hint: hint}
	}
	if !info.IsDir() {
		return &PreconditionError{Path: dir, Err: fmt.Errorf("not a directory"), Hint: hint}
	}
	return nil
}

// Apply runs every patch in order. The longest already-applied prefix is
// recognized as a whole first; the rest go through the applier one by one.
// A failed patch does not stop the run so the report lists every conflict
// at once.
func (c *Coordinator) Apply(ctx context.Context, set *patchset.Set) *BatchReport {
	report := &BatchReport{}
	applier := &Applier{
		Tool:     c.Tool,
		Oracle:   c.oracle(),
		Reporter: c.reporter(),
		Logger:   c.Logger,
	}

	arts := set.Artifacts()
	prefix := applier.Oracle.AppliedPrefix(ctx, arts)
	rep := applier.Reporter
	for _, art := range arts[:prefix] {
		rep.Report(Event{Kind: EventChecking, Patch: art.Name})
		rep.Report(Event{Kind: EventAlreadyApplied, Patch: art.Name})
		report.Add(Outcome{Patch: art.Name, State: StateAlreadyApplied})
	}
	for _, art := range arts[prefix:] {
		report.Add(applier.Apply(ctx, art))
	}

	nopIfNil(c.Logger).Debug("apply finished",
		zap.Int("applied", report.Applied),
		zap.Int("already_applied", report.AlreadyApplied),
		zap.Int("failed", report.Failed),
	)
	return report
}

// Reset reverses every patch currently detected as applied, last patch
// first. A refused reversal leaves that patch in place and the run goes on.
func (c *Coordinator) Reset(ctx context.Context, set *patchset.Set) *ResetReport {
	report := &ResetReport{}
	rep := c.reporter()
	oracle := c.oracle()
	log := nopIfNil(c.Logger)

	for _, art := range set.Reversed() {
		if !oracle.IsApplied(ctx, art) {
			rep.Report(Event{Kind: EventReverseSkipped, Patch: art.Name})
			report.Skipped = append(report.Skipped, art.Name)
			continue
		}

		rep.Report(Event{Kind: EventReverting, Patch: art.Name})
		res, err := c.Tool.Reverse(ctx, art.Content)

		var detail string
		switch {
		case err != nil:
			tie := &ToolInvocationError{Patch: art.Name, Op: "reverse apply", Err: err}
			detail = tie.Error()
			log.Warn("patch tool could not run", zap.Error(tie))
		case !res.Succeeded:
			detail = strings.TrimSpace(res.Stderr)
			log.Debug("reverse apply failed", zap.String("patch", art.Name), zap.String("stderr", detail))
		default:
			rep.Report(Event{Kind: EventReverted, Patch: art.Name})
			report.Reverted = append(report.Reverted, art.Name)
			continue
		}

		rep.Report(Event{Kind: EventReverseFailed, Patch: art.Name, Detail: detail})
		report.Failed = append(report.Failed, art.Name)
	}

	return report
}

func (c *Coordinator) oracle() *Oracle {
	return &Oracle{Tool: c.Tool, Logger: c.Logger}
}

func (c *Coordinator) reporter() Reporter {
	if c.Reporter == nil {
		return NopReporter{}
	}
	return c.Reporter
}
