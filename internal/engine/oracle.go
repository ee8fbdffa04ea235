package engine

import (
	"bytes"
	"context"

	"go.uber.org/zap"

	"github.com/bianoble/patch-sync/internal/executor"
	"github.com/bianoble/patch-sync/internal/patchset"
)

// Tool is the mutation primitive the engine drives. gitapply.Tool is the
// production implementation.
type Tool interface {
	CheckReverse(ctx context.Context, patch []byte) (executor.Result, error)
	ApplyTolerant(ctx context.Context, patch []byte) (executor.Result, error)
	ApplyThreeWay(ctx context.Context, patch []byte) (executor.Result, error)
	Reverse(ctx context.Context, patch []byte) (executor.Result, error)
}

// Oracle decides whether a patch is already present in the tree.
type Oracle struct {
	Tool   Tool
	Logger *zap.Logger
}

// IsApplied reports whether the inverse of the patch applies cleanly, which
// means its changes are already in the tree. The probe never mutates the tree.
func (o *Oracle) IsApplied(ctx context.Context, a patchset.Artifact) bool {
	res, err := o.Tool.CheckReverse(ctx, a.Content)
	if err != nil {
		nopIfNil(o.Logger).Warn("reverse check could not run",
			zap.String("patch", a.Name),
			zap.Error(&ToolInvocationError{Patch: a.Name, Op: "reverse check", Err: err}),
		)
		return false
	}
	return res.Succeeded
}

// AppliedPrefix returns the length of the longest leading run of arts whose
// combined inverse applies cleanly, checked longest first. The patches of a
// candidate prefix are fed newest first in one reverse check, so a patch
// whose lines a later patch rewrote is still recognized. Prefixes shorter
// than two are left to IsApplied. The probe never mutates the tree.
func (o *Oracle) AppliedPrefix(ctx context.Context, arts []patchset.Artifact) int {
	for k := len(arts); k >= 2; k-- {
		res, err := o.Tool.CheckReverse(ctx, stack(arts[:k]))
		if err != nil {
			nopIfNil(o.Logger).Warn("reverse check could not run",
				zap.Int("prefix", k),
				zap.Error(&ToolInvocationError{Patch: arts[k-1].Name, Op: "reverse check", Err: err}),
			)
			return 0
		}
		if res.Succeeded {
			return k
		}
	}
	return 0
}

// stack concatenates patches last to first.
func stack(arts []patchset.Artifact) []byte {
	var buf bytes.Buffer
	for i := len(arts) - 1; i >= 0; i-- {
		buf.Write(arts[i].Content)
		if n := len(arts[i].Content); n > 0 && arts[i].Content[n-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
