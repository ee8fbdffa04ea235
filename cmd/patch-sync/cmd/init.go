package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bianoble/patch-sync/internal/atomicfile"
)

var initForce bool

// initTemplate is the default patch-sync.yaml scaffold.
const initTemplate = `# patch-sync configuration
version: 1

# Directory holding *.patch files, applied in name order.
# Relative paths are resolved against this file's directory.
patches_dir: patches

# Checked-out source tree the patches apply to.
tree_dir: ../src

# Diagnostic logging: debug, info, warn, error, none.
log_level: warn

# Printed when tree_dir does not exist.
# tree_hint: "run 'npm run init' to fetch the source tree"
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter patch-sync.yaml configuration",
	Long: `Creates a patch-sync.yaml file with the default patches and tree
directories and a comment for every setting.

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := atomicfile.Write(afero.NewOsFs(), outPath, []byte(initTemplate), 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Point tree_dir at your source checkout")
		info("  2. Put *.patch files in patches_dir")
		info("  3. Run 'patch-sync' to apply them")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
