// Package config provides configuration management for the applescan CLI.
//
// This package handles loading and validating the tool's own
// configuration file. It is distinct from the per-installation
// metadata (property lists) that discovery reads out of developer
// bundles.
//
// # Configuration File
//
// The default configuration file location is ~/.config/applescan/config.yaml,
// with the current directory searched first. The file uses YAML format
// with the following structure:
//
//	version: 1
//	developer_dir: /Applications/Xcode.app/Contents/Developer
//	extra_toolchain_paths:
//	  - /opt/toolchains/Custom.xctoolchain
//	extra_platform_paths:
//	  - /opt/platforms
//	target_sdk_versions:
//	  iphoneos: "9.0"
//	swift:
//	  version: "3.0"
//	codesign: /usr/bin/codesign
//	sanitizer_path_length: 250
//
// # Loading Configuration
//
// Call [Init] once at application startup to register defaults and
// search paths, then [Load] to read the file:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// A missing file is not an error when no explicit path was given; the
// returned configuration then carries the defaults.
//
// # Environment
//
// Values can be overridden through APPLESCAN_* environment variables,
// and DEVELOPER_DIR selects the installation root when developer_dir
// is unset (see [Config.ResolveDeveloperDir]).
//
// # Validation
//
// [Validate] returns every problem found rather than stopping at the
// first, so a config file can be fixed in one pass:
//
//	errs := config.Validate(cfg)
//	if len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e)
//	    }
//	}
package config
