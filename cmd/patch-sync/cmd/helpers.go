package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/bianoble/patch-sync/internal/config"
	"github.com/bianoble/patch-sync/internal/logging"
	"github.com/bianoble/patch-sync/pkg/patchsync"
)

// Output streams. Tests swap them for buffers.
var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

const separator = "========================================"

// newClient builds a library client from the global flags.
func newClient(rep patchsync.Reporter) (*patchsync.Client, error) {
	level := logLevel
	if verbose {
		level = logging.LevelDebug
	}
	return patchsync.New(patchsync.Options{
		ConfigPath: configPath,
		NoInherit:  noInherit,
		PatchesDir: patchesDir,
		TreeDir:    treeDir,
		LogLevel:   level,
		Reporter:   rep,
	})
}

// applyColorSetting disables color for --no-color, PATCH_SYNC_NO_COLOR and NO_COLOR.
func applyColorSetting() {
	if noColor || config.EnvNoColorSet() {
		color.NoColor = true
	}
}

// progressReporter renders engine events as progress lines.
func progressReporter() patchsync.Reporter {
	return patchsync.ReporterFunc(func(e patchsync.Event) {
		threeWay := e.Strategy == patchsync.StrategyThreeWayMerge

		switch e.Kind {
		case patchsync.EventChecking:
			info("Checking %s...", e.Patch)
		case patchsync.EventAlreadyApplied:
			info("  %s Already applied: %s", green("✓"), e.Patch)
		case patchsync.EventApplying:
			if threeWay {
				info("  Attempting 3-way merge...")
			} else {
				info("  Applying: %s", e.Patch)
			}
		case patchsync.EventAttemptFailed:
			if threeWay {
				info("  %s 3-way merge failed: %s", red("✗"), e.Patch)
			} else {
				info("  %s Failed to apply: %s", red("✗"), e.Patch)
				info("  Error: %s", e.Detail)
			}
		case patchsync.EventApplied:
			if threeWay {
				info("  %s Applied with 3-way merge: %s", green("✓"), e.Patch)
			} else {
				info("  %s Successfully applied: %s", green("✓"), e.Patch)
			}
		case patchsync.EventFailed:
			if e.Detail != "" {
				info("  Error: %s", e.Detail)
			}
		case patchsync.EventReverting:
			info("  Reverting: %s", e.Patch)
		case patchsync.EventReverted:
			detail("  %s reverted", e.Patch)
		case patchsync.EventReverseSkipped:
			detail("  %s not applied, skipping", e.Patch)
		case patchsync.EventReverseFailed:
			warnf("could not revert %s: %s", e.Patch, e.Detail)
		}
	})
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// warnf prints a warning to stderr.
func warnf(format string, args ...any) {
	fmt.Fprintf(stderr, yellow("warning: ")+format+"\n", args...)
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, red("error: ")+format+"\n", args...)
}
