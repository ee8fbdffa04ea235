package config

// Config represents the patch-sync.yaml configuration file.
type Config struct {
	Version    int    `yaml:"version"`
	PatchesDir string `yaml:"patches_dir,omitempty"`
	TreeDir    string `yaml:"tree_dir,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`

	// TreeHint is printed when the source tree is missing.
	TreeHint string `yaml:"tree_hint,omitempty"`
}

const (
	DefaultPatchesDir = "patches"
	DefaultTreeDir    = "../src"
	DefaultLogLevel   = "warn"
	DefaultTreeHint   = "check out the source tree first, or point tree_dir at an existing checkout"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:    1,
		PatchesDir: DefaultPatchesDir,
		TreeDir:    DefaultTreeDir,
		LogLevel:   DefaultLogLevel,
		TreeHint:   DefaultTreeHint,
	}
}
