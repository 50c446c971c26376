package commands

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Kryndex/buck/internal/config"
	scanerrors "github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"APPLESCAN_DEBUG=1", "1", slog.LevelDebug},
		{"APPLESCAN_DEBUG=true", "true", slog.LevelDebug},
		{"APPLESCAN_DEBUG=2", "2", logging.LevelTrace},
		{"APPLESCAN_DEBUG=0", "0", slog.LevelWarn},
		{"APPLESCAN_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("APPLESCAN_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_FlagPrecedence(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	t.Setenv("APPLESCAN_DEBUG", "2")
	verbosity = 1

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected Info level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected Debug level to be disabled (flag should override env var)")
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	origQuiet := quiet
	origVerbosity := verbosity
	defer func() {
		quiet = origQuiet
		verbosity = origVerbosity
	}()

	quiet = true
	verbosity = 0

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected Warn level to be disabled")
	}
}

func TestSetupLogging_QuietMutualExclusion(t *testing.T) {
	origVerbosity := verbosity
	origQuiet := quiet
	defer func() {
		verbosity = origVerbosity
		quiet = origQuiet
	}()

	verbosity = 1
	quiet = true

	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected error when both quiet and verbose are set")
	}
}

func TestValidateConfig_LoadError(t *testing.T) {
	origErr := configLoadErr
	defer func() { configLoadErr = origErr }()
	configLoadErr = errors.New("yaml: unmarshal failed")

	err := validateConfig(&cobra.Command{Use: "list"}, nil)
	if err == nil {
		t.Fatal("expected error when config loading failed")
	}

	var exitErr *scanerrors.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("error should be an ExitError")
	}
	if exitErr.Suggestion != "Run: applescan doctor" {
		t.Errorf("Suggestion = %q, want %q", exitErr.Suggestion, "Run: applescan doctor")
	}
}

func TestValidateConfig_SkipsVersionAndHelp(t *testing.T) {
	origErr := configLoadErr
	defer func() { configLoadErr = origErr }()
	configLoadErr = errors.New("yaml: unmarshal failed")

	for _, use := range []string{"version", "help"} {
		if err := validateConfig(&cobra.Command{Use: use}, nil); err != nil {
			t.Errorf("%s command should skip config validation, got %v", use, err)
		}
	}
}

func TestValidateConfig_InvalidConfig(t *testing.T) {
	origErr := configLoadErr
	defer func() { configLoadErr = origErr }()
	configLoadErr = nil

	cfg := config.Default()
	cfg.Version = 0
	withConfig(t, cfg)

	err := validateConfig(&cobra.Command{Use: "list"}, nil)
	if err == nil {
		t.Fatal("expected error for an invalid configuration")
	}
	if !errors.Is(err, config.ErrVersionTooLow) {
		t.Errorf("error should match ErrVersionTooLow, got %v", err)
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	origErr := configLoadErr
	defer func() { configLoadErr = origErr }()
	configLoadErr = nil

	withConfig(t, config.Default())

	if err := validateConfig(&cobra.Command{Use: "list"}, nil); err != nil {
		t.Errorf("valid configuration should pass, got %v", err)
	}
}
