package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/patch-sync/pkg/patchsync"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	patchesDir string
	treeDir    string
	logLevel   string
	noInherit  bool
	verbose    bool
	quiet      bool
	noColor    bool
	resetMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "patch-sync",
	Short: "Apply a directory of patches onto a source tree",
	Long: `patch-sync applies every *.patch file in the patches directory, in name
order, onto a checked-out source tree. Patches that are already present are
detected and skipped, so it is safe to re-run. A patch that no longer applies
cleanly is retried with a 3-way merge.

Use --reset to remove every applied patch again.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return run(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("patch-sync %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "patch-sync.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&patchesDir, "patches", "", "patches directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&treeDir, "tree", "", "source tree directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error, none")
	rootCmd.PersistentFlags().BoolVar(&noInherit, "no-inherit", false, "ignore system and user config files")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&resetMode, "reset", false, "unapply all patches, last first")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		errorf("%v", err)
		return err
	}
	return nil
}

func run(ctx context.Context) error {
	applyColorSetting()

	client, err := newClient(progressReporter())
	if err != nil {
		return err
	}

	info("%s", bold("Patch Application"))
	info(separator)

	if resetMode {
		return runReset(ctx, client)
	}
	return runApply(ctx, client)
}

func runApply(ctx context.Context, client *patchsync.Client) error {
	if err := client.CheckTree(); err != nil {
		return err
	}

	names, err := client.Patches()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		info("No patches found in %s", client.PatchesDir())
		return nil
	}

	info("Found %d patch file(s)", len(names))
	info("")

	report, err := client.Apply(ctx)
	if err != nil {
		return err
	}

	info("")
	info(separator)
	info("Applied %d/%d patches successfully", report.Applied+report.AlreadyApplied, report.Total())

	if !report.Success() {
		info("")
		info("Failed patches:")
		for _, name := range report.FailedPatches {
			info("  %s %s", red("✗"), name)
		}
		info("")
		info("Please resolve conflicts manually and re-run")
		return fmt.Errorf("%d patch(es) failed to apply", report.Failed)
	}

	info("")
	info("%s All patches applied successfully!", green("✓"))
	return nil
}

// runReset never fails on a refused reversal; only loading errors are returned.
func runReset(ctx context.Context, client *patchsync.Client) error {
	info("Unapplying all patches...")

	if _, err := os.Stat(client.TreeDir()); err != nil {
		warnf("source tree not found at %s", client.TreeDir())
	}

	names, err := client.Patches()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		info("No patches to unapply")
		return nil
	}

	report, err := client.Reset(ctx)
	if err != nil {
		return err
	}

	detail("%d reverted, %d not applied, %d failed", len(report.Reverted), len(report.Skipped), len(report.Failed))
	if len(report.Failed) > 0 {
		warnf("%d patch(es) could not be reverted", len(report.Failed))
	}
	info("All patches unapplied")
	return nil
}
