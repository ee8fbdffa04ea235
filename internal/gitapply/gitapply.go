// Package gitapply drives `git apply` against a working tree. Patch content is
// streamed on stdin so artifacts do not need to live on disk.
package gitapply

import (
	"context"

	"github.com/bianoble/patch-sync/internal/executor"
)

// DefaultBinary is the git executable looked up on PATH.
const DefaultBinary = "git"

// Tool runs git apply in Dir through Runner.
type Tool struct {
	Runner executor.Runner
	Dir    string
	Binary string
}

// New returns a Tool operating on the tree at dir.
func New(runner executor.Runner, dir string) *Tool {
	return &Tool{Runner: runner, Dir: dir, Binary: DefaultBinary}
}

// CheckReverse tests whether the inverse of patch applies cleanly without
// touching the tree. Whitespace is fixed as in ApplyTolerant so the check
// matches what a tolerant apply left behind. Several patches may be
// concatenated; git reverses them in input order.
func (t *Tool) CheckReverse(ctx context.Context, patch []byte) (executor.Result, error) {
	return t.run(ctx, patch, "--reverse", "--check", "--whitespace=fix")
}

// ApplyTolerant applies patch, fixing whitespace errors on the way in.
func (t *Tool) ApplyTolerant(ctx context.Context, patch []byte) (executor.Result, error) {
	return t.run(ctx, patch, "--whitespace=fix")
}

// ApplyThreeWay applies patch with a three-way merge against the blobs recorded
// in its index lines. Conflicts are left as markers in the tree.
func (t *Tool) ApplyThreeWay(ctx context.Context, patch []byte) (executor.Result, error) {
	return t.run(ctx, patch, "--3way")
}

// Reverse removes patch from the tree with a single attempt.
func (t *Tool) Reverse(ctx context.Context, patch []byte) (executor.Result, error) {
	return t.run(ctx, patch, "--reverse", "--whitespace=fix")
}

func (t *Tool) run(ctx context.Context, patch []byte, flags ...string) (executor.Result, error) {
	args := append([]string{"apply"}, flags...)
	args = append(args, "-")

	bin := t.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	return t.Runner.Run(ctx, executor.Command{
		Name:  bin,
		Args:  args,
		Dir:   t.Dir,
		Stdin: patch,
	})
}
