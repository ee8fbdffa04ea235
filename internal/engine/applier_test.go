package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bianoble/patch-sync/internal/executor"
	"github.com/bianoble/patch-sync/internal/patchset"
)

func artifact(name string) patchset.Artifact {
	return patchset.Artifact{Name: name, Content: []byte(name)}
}

func TestApplierAlreadyAppliedDoesNotMutate(t *testing.T) {
	tool := newFakeTool()
	tool.applied["p1"] = true
	rec := &recorder{}

	a := &Applier{Tool: tool, Reporter: rec}
	out := a.Apply(context.Background(), artifact("p1"))

	assert.Equal(t, Outcome{Patch: "p1", State: StateAlreadyApplied}, out)
	assert.Empty(t, tool.mutations())
	assert.Equal(t, []EventKind{EventChecking, EventAlreadyApplied}, rec.kinds())
}

func TestApplierTolerantApply(t *testing.T) {
	tool := newFakeTool()
	a := &Applier{Tool: tool}

	out := a.Apply(context.Background(), artifact("p1"))
	assert.Equal(t, StateApplied, out.State)
	assert.Equal(t, StrategyWhitespaceTolerant, out.Strategy)
	assert.Empty(t, out.Stderr)
	assert.Equal(t, []string{"tolerant:p1"}, tool.mutations())
}

func TestApplierEscalatesToThreeWay(t *testing.T) {
	tool := newFakeTool()
	tool.tolerantFails["p1"] = true
	rec := &recorder{}

	a := &Applier{Tool: tool, Reporter: rec}
	out := a.Apply(context.Background(), artifact("p1"))

	assert.Equal(t, StateApplied, out.State)
	assert.Equal(t, StrategyThreeWayMerge, out.Strategy, "three-way success must never be reported as whitespace-tolerant")
	assert.Equal(t, []string{"tolerant:p1", "three-way:p1"}, tool.mutations())
	assert.Equal(t, []EventKind{
		EventChecking,
		EventApplying, EventAttemptFailed,
		EventApplying, EventApplied,
	}, rec.kinds())
	assert.Contains(t, rec.events[2].Detail, "tolerant p1 failed")
}

func TestApplierFailureKeepsLastStderr(t *testing.T) {
	tool := newFakeTool()
	tool.tolerantFails["p1"] = true
	tool.threeWayFails["p1"] = true
	rec := &recorder{}

	a := &Applier{Tool: tool, Reporter: rec}
	out := a.Apply(context.Background(), artifact("p1"))

	assert.Equal(t, StateFailed, out.State)
	assert.Empty(t, out.Strategy)
	assert.Contains(t, out.Stderr, "three-way p1 failed")
	assert.NotContains(t, out.Stderr, "tolerant")
	assert.Equal(t, []string{"tolerant:p1", "three-way:p1"}, tool.mutations())

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventFailed, last.Kind)
	assert.Equal(t, "p1", last.Patch)
}

func TestApplierToolInvocationErrorIsAFailure(t *testing.T) {
	tool := newFakeTool()
	tool.launchErr = &executor.LaunchError{Command: "git apply", Err: errors.New("executable file not found")}

	a := &Applier{Tool: tool}
	out := a.Apply(context.Background(), artifact("p1"))

	assert.Equal(t, StateFailed, out.State)
	assert.Contains(t, out.Stderr, "three-way apply")
	assert.Contains(t, out.Stderr, "executable file not found")
	// The probe, then both strategies, each attempted once.
	assert.Equal(t, []string{"check:p1", "tolerant:p1", "three-way:p1"}, tool.calls)
}

func TestOracleIsSideEffectFree(t *testing.T) {
	tool := newFakeTool()
	tool.applied["p1"] = true
	o := &Oracle{Tool: tool}

	for i := 0; i < 5; i++ {
		require.True(t, o.IsApplied(context.Background(), artifact("p1")))
		require.False(t, o.IsApplied(context.Background(), artifact("p2")))
	}
	assert.Empty(t, tool.mutations())
	assert.True(t, tool.applied["p1"])
	assert.False(t, tool.applied["p2"])
}

func TestOracleLaunchErrorMeansNotApplied(t *testing.T) {
	tool := newFakeTool()
	tool.applied["p1"] = true
	tool.launchErr = errors.New("no git")

	o := &Oracle{Tool: tool}
	assert.False(t, o.IsApplied(context.Background(), artifact("p1")))
}

func TestApplyFailureError(t *testing.T) {
	e := &ApplyFailure{Patch: "0001.patch", Stderr: "error: patch failed\n"}
	assert.Equal(t, "0001.patch: failed to apply: error: patch failed", e.Error())

	empty := &ApplyFailure{Patch: "0002.patch"}
	assert.Equal(t, "0002.patch: failed to apply", empty.Error())
}

func TestToolInvocationErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	e := &ToolInvocationError{Patch: "p", Op: "apply", Err: cause}
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "p: apply: boom", e.Error())
}
