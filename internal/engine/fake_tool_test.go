package engine

import (
	"context"
	"strings"

	"github.com/bianoble/patch-sync/internal/executor"
)

// fakeTool simulates a tree as the set of patch contents currently applied.
// A reverse check accepts several newline-separated patch contents at once.
type fakeTool struct {
	applied       map[string]bool
	masked        map[string]bool // applied but rewritten by a later patch

	tolerantFails map[string]bool
	threeWayFails map[string]bool
	reverseFails  map[string]bool
	launchErr     error
	calls         []string
}

func newFakeTool() *fakeTool {
	return &fakeTool{
		applied:       make(map[string]bool),
		masked:        make(map[string]bool),
		tolerantFails: make(map[string]bool),
		threeWayFails: make(map[string]bool),
		reverseFails:  make(map[string]bool),
	}
}

func (f *fakeTool) CheckReverse(ctx context.Context, patch []byte) (executor.Result, error) {
	f.calls = append(f.calls, "check:"+string(patch))
	if f.launchErr != nil {
		return executor.Result{}, f.launchErr
	}
	names := strings.Fields(string(patch))
	for _, name := range names {
		if !f.applied[name] || (len(names) == 1 && f.masked[name]) {
			return executor.Result{ExitCode: 1, Stderr: "error: " + name + ": patch does not apply\n"}, nil
		}
	}
	return executor.Result{Succeeded: len(names) > 0}, nil
}

// checks returns the reverse checks issued, in order.
func (f *fakeTool) checks() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "check:") {
			out = append(out, strings.TrimPrefix(c, "check:"))
		}
	}
	return out
}

func (f *fakeTool) ApplyTolerant(ctx context.Context, patch []byte) (executor.Result, error) {
	return f.mutate("tolerant", patch, f.tolerantFails)
}

func (f *fakeTool) ApplyThreeWay(ctx context.Context, patch []byte) (executor.Result, error) {
	return f.mutate("three-way", patch, f.threeWayFails)
}

func (f *fakeTool) Reverse(ctx context.Context, patch []byte) (executor.Result, error) {
	f.calls = append(f.calls, "reverse:"+string(patch))
	if f.launchErr != nil {
		return executor.Result{}, f.launchErr
	}
	if f.reverseFails[string(patch)] {
		return executor.Result{ExitCode: 1, Stderr: "error: reverse of " + string(patch) + " failed\n"}, nil
	}
	delete(f.applied, string(patch))
	return executor.Result{Succeeded: true}, nil
}

func (f *fakeTool) mutate(op string, patch []byte, fails map[string]bool) (executor.Result, error) {
	f.calls = append(f.calls, op+":"+string(patch))
	if f.launchErr != nil {
		return executor.Result{}, f.launchErr
	}
	if fails[string(patch)] {
		return executor.Result{ExitCode: 1, Stderr: "error: " + op + " " + string(patch) + " failed\n"}, nil
	}
	f.applied[string(patch)] = true
	return executor.Result{Succeeded: true}, nil
}

// mutations returns the calls that could change the tree.
func (f *fakeTool) mutations() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "check:") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// recorder collects progress events.
type recorder struct {
	events []Event
}

func (r *recorder) Report(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}
