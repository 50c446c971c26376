package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrEmptyTargetVersion indicates a target SDK version override with
	// no value.
	ErrEmptyTargetVersion = errors.New("target SDK version is empty")

	// ErrSanitizerLengthNotPositive indicates a non-positive sanitizer
	// path length.
	ErrSanitizerLengthNotPositive = errors.New("sanitizer_path_length must be positive")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	// Version must be >= 1
	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.DeveloperDir != "" {
		if err := validatePath(cfg.DeveloperDir); err != nil {
			errs = append(errs, &PathError{
				Field: "developer_dir",
				Path:  cfg.DeveloperDir,
				Err:   err,
			})
		}
	}

	for _, path := range cfg.ExtraToolchainPaths {
		if err := validatePath(path); err != nil {
			errs = append(errs, &PathError{
				Field: "extra_toolchain_paths",
				Path:  path,
				Err:   err,
			})
		}
	}

	for _, path := range cfg.ExtraPlatformPaths {
		if err := validatePath(path); err != nil {
			errs = append(errs, &PathError{
				Field: "extra_platform_paths",
				Path:  path,
				Err:   err,
			})
		}
	}

	for platform, version := range cfg.TargetSDKVersions {
		if strings.TrimSpace(version) == "" {
			errs = append(errs, &PlatformError{
				Platform: platform,
				Err:      ErrEmptyTargetVersion,
			})
		}
	}

	if cfg.Codesign != "" {
		if err := validatePath(cfg.Codesign); err != nil {
			errs = append(errs, &PathError{
				Field: "codesign",
				Path:  cfg.Codesign,
				Err:   err,
			})
		}
	}

	if cfg.SanitizerPathLength <= 0 {
		errs = append(errs, ErrSanitizerLengthNotPositive)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// PlatformError represents an error for a specific platform override.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	return e.Err.Error() + ": " + e.Platform
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
