// Package commands implements the CLI commands for applescan.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kryndex/buck/cmd"
	"github.com/Kryndex/buck/internal/config"
	"github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/logging"
)

// cfgFile holds the value of the --config flag.
var cfgFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig is the configuration loaded during initialization.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./config.yaml, then the user config directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("applescan version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(cfgFile)
	if loadedConfig == nil {
		loadedConfig = config.Default()
	}
}

var rootCmd = &cobra.Command{
	Use:   "applescan",
	Short: "Discover and describe installed build platforms",
	Long: `applescan scans a developer tools installation for toolchains and
SDKs, and assembles a build platform descriptor for every supported
(SDK, architecture) pair: compiler and linker flags, resolved tool
paths, version fingerprints, sanitizer path mappings, and source path
macros.

The installation root comes from developer_dir in the configuration
file or the DEVELOPER_DIR environment variable. Extra toolchain and
platform directories can be merged in via configuration.`,
	Example: `  # List every assembled platform
  applescan list

  # Inspect a single platform as YAML
  applescan show iphoneos10.0-arm64 --format yaml

  # Check the installation health
  applescan doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("APPLESCAN_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateConfig surfaces configuration problems before any command runs.
func validateConfig(cmd *cobra.Command, _ []string) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	if errs := config.Validate(loadedConfig); len(errs) > 0 {
		return errors.NewConfigError(errs[0])
	}

	return nil
}

// currentConfig returns the configuration loaded at startup. Commands
// must only call it after initialization has run.
func currentConfig() *config.Config {
	return loadedConfig
}

// commandLogger returns the logger carried by the command's context.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	ctx := cmd.Context()
	if ctx == nil {
		return slog.Default()
	}
	return logging.FromContext(ctx)
}

// projectRoot is the directory compiler flags quote and sanitizer
// mappings hide. The working directory stands in for the build root.
func projectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.NewSystemError(err, "cannot determine the working directory")
	}
	return wd, nil
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
