// Package patchsync provides the public Go library API for patch-sync.
//
// patch-sync applies a directory of unified-diff patches onto a checked-out
// source tree. Runs are idempotent: patches already present are detected
// with a reverse-apply probe and skipped. Patches that no longer apply
// cleanly are retried with a three-way merge, and a whole set can be
// reversed again.
//
// # Basic Usage
//
//	client, err := patchsync.New(patchsync.Options{
//	    ConfigPath: "patch-sync.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := client.Apply(ctx)
//	if err != nil {
//	    log.Fatal(err) // the source tree is missing
//	}
//	if !report.Success() {
//	    log.Printf("failed: %v", report.FailedPatches)
//	}
//
//	// Remove every applied patch again.
//	_, err = client.Reset(ctx)
package patchsync

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/bianoble/patch-sync/internal/config"
	"github.com/bianoble/patch-sync/internal/engine"
	"github.com/bianoble/patch-sync/internal/executor"
	"github.com/bianoble/patch-sync/internal/gitapply"
	"github.com/bianoble/patch-sync/internal/logging"
	"github.com/bianoble/patch-sync/internal/patchset"
)

// Applier brings the tree to the fully patched state.
type Applier interface {
	Apply(ctx context.Context) (*BatchReport, error)
}

// Resetter removes every applied patch from the tree.
type Resetter interface {
	Reset(ctx context.Context) (*ResetReport, error)
}

// Options configures a patch-sync client.
type Options struct {
	// ConfigPath is the path to the config file. Default: "patch-sync.yaml".
	// A missing file means defaults.
	ConfigPath string

	// ProjectRoot anchors relative directories from the config file and
	// holds the optional .env file. Defaults to the directory of ConfigPath.
	ProjectRoot string

	// NoInherit skips system and user config layers.
	NoInherit bool

	// PatchesDir and TreeDir override the configuration when non-empty.
	// Relative values are resolved against the current directory.
	PatchesDir string
	TreeDir    string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// GitBinary is the git executable. Default: "git".
	GitBinary string

	// Fs is the filesystem patches are read from. Default: the OS filesystem.
	Fs afero.Fs

	// Logger receives diagnostics. Default: built from the log level.
	Logger *zap.Logger

	// Reporter receives progress events. Default: discard.
	Reporter Reporter
}

// Client is the main entry point for the patch-sync library.
// It implements Applier and Resetter.
type Client struct {
	cfg         *config.Config
	fs          afero.Fs
	logger      *zap.Logger
	coordinator *engine.Coordinator
}

var (
	_ Applier  = (*Client)(nil)
	_ Resetter = (*Client)(nil)
)

// New creates a Client. Configuration is layered: system and user config
// files, the project config file, .env, PATCH_SYNC_* variables, then Options.
func New(opts Options) (*Client, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = "patch-sync.yaml"
	}

	root := opts.ProjectRoot
	if root == "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		root = filepath.Dir(abs)
	}

	if err := config.LoadDotEnv(root); err != nil {
		return nil, err
	}

	layered, err := config.LoadLayered(config.DiscoverOptions{
		ProjectPath: opts.ConfigPath,
		NoInherit:   opts.NoInherit || config.EnvNoInheritSet(),
	})
	if err != nil {
		return nil, err
	}

	cfg := layered.Config
	config.ApplyEnv(cfg)
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	cfg = cfg.Resolve(root)

	if opts.PatchesDir != "" {
		if cfg.PatchesDir, err = filepath.Abs(opts.PatchesDir); err != nil {
			return nil, fmt.Errorf("resolving patches dir: %w", err)
		}
	}
	if opts.TreeDir != "" {
		if cfg.TreeDir, err = filepath.Abs(opts.TreeDir); err != nil {
			return nil, fmt.Errorf("resolving tree dir: %w", err)
		}
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, &config.ValidationError{Errors: errs}
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.GetLogger(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	tool := gitapply.New(executor.New(logger), cfg.TreeDir)
	if opts.GitBinary != "" {
		tool.Binary = opts.GitBinary
	}

	return &Client{
		cfg:    cfg,
		fs:     fs,
		logger: logger,
		coordinator: &engine.Coordinator{
			Tool:     tool,
			Reporter: opts.Reporter,
			Logger:   logger,
		},
	}, nil
}

// PatchesDir is the resolved patches directory.
func (c *Client) PatchesDir() string {
	return c.cfg.PatchesDir
}

// TreeDir is the resolved source tree directory.
func (c *Client) TreeDir() string {
	return c.cfg.TreeDir
}

// Patches lists patch names in application order.
func (c *Client) Patches() ([]string, error) {
	set, err := patchset.Load(c.fs, c.cfg.PatchesDir)
	if err != nil {
		return nil, err
	}
	return set.Names(), nil
}

// CheckTree returns a *PreconditionError when the source tree is missing.
func (c *Client) CheckTree() error {
	return engine.CheckTree(c.cfg.TreeDir, c.cfg.TreeHint)
}

// Apply applies every patch in order. The error is non-nil only when the run
// could not start (missing tree, unreadable patches directory); per-patch
// failures are in the report.
func (c *Client) Apply(ctx context.Context) (*BatchReport, error) {
	if err := c.CheckTree(); err != nil {
		return nil, err
	}

	set, err := patchset.Load(c.fs, c.cfg.PatchesDir)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("applying patch set",
		zap.String("patches_dir", c.cfg.PatchesDir),
		zap.String("tree_dir", c.cfg.TreeDir),
		zap.Int("count", set.Len()),
	)
	return c.coordinator.Apply(ctx, set), nil
}

// Reset reverses every applied patch, last first. Reversal is best effort:
// refused reversals are listed in the report and never turn into an error.
// The tree is not required; without it every patch is reported as skipped.
func (c *Client) Reset(ctx context.Context) (*ResetReport, error) {
	set, err := patchset.Load(c.fs, c.cfg.PatchesDir)
	if err != nil {
		return nil, err
	}

	return c.coordinator.Reset(ctx, set), nil
}
