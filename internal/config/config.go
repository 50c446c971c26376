// Package config provides configuration management for applescan using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Kryndex/buck/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "applescan"

// Defaults applied when the configuration omits a value.
const (
	// DefaultCodesign is the signing tool recorded on descriptors when
	// none is configured.
	DefaultCodesign = "/usr/bin/codesign"

	// DefaultSanitizerPathLength is the padded width of sanitized
	// paths in raw assembler output.
	DefaultSanitizerPathLength = 250
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// DeveloperDir is the installation root to scan. Empty defers to
	// the DEVELOPER_DIR environment variable.
	DeveloperDir string `mapstructure:"developer_dir" yaml:"developer_dir"`

	// ExtraToolchainPaths are toolchain bundle directories merged in
	// after the installation scan. On an identifier clash the extra
	// entry wins.
	ExtraToolchainPaths []string `mapstructure:"extra_toolchain_paths" yaml:"extra_toolchain_paths"`

	// ExtraPlatformPaths are additional directories of *.platform
	// bundles scanned after the installation. On an SDK name clash
	// the extra entry wins.
	ExtraPlatformPaths []string `mapstructure:"extra_platform_paths" yaml:"extra_platform_paths"`

	// TargetSDKVersions overrides the deployment target per platform
	// family name, e.g. "iphoneos": "9.0".
	TargetSDKVersions map[string]string `mapstructure:"target_sdk_versions" yaml:"target_sdk_versions"`

	// Swift pins the Swift toolchain used across all platforms.
	Swift SwiftConfig `mapstructure:"swift" yaml:"swift"`

	// Codesign is the signing tool path recorded on descriptors.
	Codesign string `mapstructure:"codesign" yaml:"codesign"`

	// SanitizerPathLength is the padded width of sanitized paths in
	// raw assembler output.
	SanitizerPathLength int `mapstructure:"sanitizer_path_length" yaml:"sanitizer_path_length"`
}

// SwiftConfig selects a Swift toolchain. Toolchain names a bundle
// identifier directly and wins over Version, which maps a release
// number to the conventional identifier.
type SwiftConfig struct {
	Version   string `mapstructure:"version" yaml:"version"`
	Toolchain string `mapstructure:"toolchain" yaml:"toolchain"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), AppName))

	// Environment variable support
	viper.SetEnvPrefix("APPLESCAN")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("codesign", DefaultCodesign)
	viper.SetDefault("sanitizer_path_length", DefaultSanitizerPathLength)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:             1,
		Codesign:            DefaultCodesign,
		SanitizerPathLength: DefaultSanitizerPathLength,
	}
}

// ResolveDeveloperDir returns the installation root to scan: the
// configured developer_dir when set, else the DEVELOPER_DIR
// environment variable, else empty. An empty result means discovery
// yields no platforms.
func (c *Config) ResolveDeveloperDir() string {
	if c.DeveloperDir != "" {
		return c.DeveloperDir
	}
	return os.Getenv("DEVELOPER_DIR")
}
