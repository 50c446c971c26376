package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Kryndex/buck/internal/config"
	"github.com/Kryndex/buck/internal/editor"
	"github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/paths"
	"github.com/Kryndex/buck/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the applescan configuration",
	Long: `Manage the applescan configuration.

Without a subcommand, prints the effective configuration as YAML:
file values merged with defaults and APPLESCAN_* environment
variables.`,
	Example: `  # Print the effective configuration
  applescan config

  # Write a starter config file
  applescan config init

  # Open the config file in $EDITOR
  applescan config edit`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a config file with the default values to the user config
directory, or to the path given via --config. Refuses to overwrite an
existing file unless --force is set.`,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the configuration file in your editor. Uses $EDITOR, falling
back to $VISUAL, then nano, then vi.`,
	RunE: runConfigEdit,
}

// configFilePath is where init and edit operate: the --config flag
// when given, else the file in the user config directory.
func configFilePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(paths.ConfigHome(), config.AppName, "config.yaml")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	return outputConfig(os.Stdout, currentConfig())
}

func outputConfig(w io.Writer, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	_, err = w.Write(data)
	return errors.Wrap(err, "writing config")
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := configFilePath()
	if err := writeStarterConfig(path, configInitForce); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

// writeStarterConfig writes the default configuration to path.
func writeStarterConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewUserError(
			errors.Newf("config file already exists at %s", path),
			"Pass --force to overwrite it")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	return errors.Wrap(fileutil.AtomicWriteYAML(path, config.Default()),
		"writing config file")
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	path := configFilePath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewUserError(
			errors.Newf("config file not found at %s", path),
			"Run: applescan config init")
	}

	return editor.Open(path)
}
