package apple

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Kryndex/buck/internal/paths"
	"github.com/Kryndex/buck/pkg/plist"
)

// DiscoverToolchains scans the installation's Toolchains directory
// for toolchain bundles, then merges in the configured extra
// toolchain directories. A configured entry replaces a discovered one
// sharing its identifier. A missing root or Toolchains directory
// yields an empty map.
func DiscoverToolchains(developerDir string, extraDirs []string, rd *plist.Reader, logger *slog.Logger) map[string]Toolchain {
	toolchains := make(map[string]Toolchain)

	if developerDir != "" {
		dir := paths.ToolchainsDir(developerDir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Debug("no toolchains directory", "path", dir)
		}
		for _, entry := range entries {
			bundle := filepath.Join(dir, entry.Name())
			if !isDir(bundle) {
				continue
			}
			mergeToolchain(toolchains, bundle, rd, logger)
		}
	}

	for _, bundle := range extraDirs {
		if !isDir(bundle) {
			logger.Warn("extra toolchain path is not a directory", "path", bundle)
			continue
		}
		mergeToolchain(toolchains, bundle, rd, logger)
	}

	return toolchains
}

// mergeToolchain loads one toolchain bundle into the map. Later
// entries win identifier clashes, which is what gives configured
// extras precedence over discovered bundles.
func mergeToolchain(toolchains map[string]Toolchain, bundle string, rd *plist.Reader, logger *slog.Logger) {
	info, ok := rd.Dict(paths.ToolchainInfo(bundle))
	if !ok {
		// The reader already logged why the metadata is unreadable.
		return
	}

	identifier, _ := info["Identifier"].(string)
	if identifier == "" {
		logger.Warn("skipping toolchain without identifier", "path", bundle)
		return
	}
	version, _ := info["Version"].(string)

	if prev, clash := toolchains[identifier]; clash {
		logger.Debug("replacing toolchain with same identifier",
			"identifier", identifier,
			"previous", prev.Path,
			"path", bundle)
	}
	toolchains[identifier] = Toolchain{Identifier: identifier, Path: bundle, Version: version}
}

// DiscoverSDKs scans every platform bundle under the installation's
// Platforms directory for SDK bundles, then the configured extra
// platform directories. An extra SDK replaces a discovered one
// sharing its canonical name. The result is ordered by SDK name.
func DiscoverSDKs(developerDir string, extraPlatformDirs []string, toolchains map[string]Toolchain, rd *plist.Reader, logger *slog.Logger) []DiscoveredSDK {
	byName := make(map[string]DiscoveredSDK)

	if developerDir != "" {
		scanPlatforms(byName, paths.PlatformsDir(developerDir), developerDir, toolchains, rd, logger)
	}
	for _, dir := range extraPlatformDirs {
		if !isDir(dir) {
			logger.Warn("extra platform path is not a directory", "path", dir)
			continue
		}
		scanPlatforms(byName, dir, "", toolchains, rd, logger)
	}

	discovered := make([]DiscoveredSDK, 0, len(byName))
	for _, d := range byName {
		discovered = append(discovered, d)
	}
	sort.Slice(discovered, func(i, j int) bool {
		return discovered[i].SDK.Name < discovered[j].SDK.Name
	})
	return discovered
}

// scanPlatforms walks one directory of *.platform bundles.
// developerPath is recorded on each SDK found; it is empty for extra
// platform directories, which sit outside any installation.
func scanPlatforms(byName map[string]DiscoveredSDK, platformsDir, developerPath string, toolchains map[string]Toolchain, rd *plist.Reader, logger *slog.Logger) {
	entries, err := os.ReadDir(platformsDir)
	if err != nil {
		logger.Debug("no platforms directory", "path", platformsDir)
		return
	}

	for _, entry := range entries {
		if !paths.IsPlatformBundle(entry.Name()) {
			continue
		}
		platformPath := filepath.Join(platformsDir, entry.Name())
		if !isDir(platformPath) {
			continue
		}
		scanPlatform(byName, platformPath, developerPath, toolchains, rd, logger)
	}
}

// scanPlatform loads every SDK bundle under one platform bundle.
// Symlinked SDK entries are skipped: installations alias versionless
// names (MacOSX.sdk) to the canonical bundle, and following the alias
// would yield the same SDK twice.
func scanPlatform(byName map[string]DiscoveredSDK, platformPath, developerPath string, toolchains map[string]Toolchain, rd *plist.Reader, logger *slog.Logger) {
	sdksDir := paths.SDKsDir(platformPath)
	entries, err := os.ReadDir(sdksDir)
	if err != nil {
		logger.Debug("platform has no SDKs directory", "path", sdksDir)
		return
	}

	for _, entry := range entries {
		if !paths.IsSDKBundle(entry.Name()) {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 || !entry.IsDir() {
			continue
		}
		sdkPath := filepath.Join(sdksDir, entry.Name())
		d, ok := loadSDK(sdkPath, platformPath, developerPath, toolchains, rd, logger)
		if !ok {
			continue
		}
		if prev, clash := byName[d.SDK.Name]; clash {
			logger.Debug("replacing SDK with same canonical name",
				"name", d.SDK.Name,
				"previous", prev.Paths.SDKPath,
				"path", sdkPath)
		}
		byName[d.SDK.Name] = d
	}
}

// loadSDK parses one SDK bundle's settings. SDKs without a version or
// of an unknown platform family are skipped with a warning; all other
// metadata degrades to defaults.
func loadSDK(sdkPath, platformPath, developerPath string, toolchains map[string]Toolchain, rd *plist.Reader, logger *slog.Logger) (DiscoveredSDK, bool) {
	settings, ok := rd.Dict(paths.SDKSettings(sdkPath))
	if !ok {
		return DiscoveredSDK{}, false
	}

	name, _ := settings["CanonicalName"].(string)
	if name == "" {
		name = strings.ToLower(paths.SDKBaseName(filepath.Base(sdkPath)))
	}

	version, _ := settings["Version"].(string)
	if version == "" {
		logger.Warn("skipping SDK without version", "path", sdkPath, "name", name)
		return DiscoveredSDK{}, false
	}

	platform, ok := PlatformForSDK(name)
	if !ok {
		logger.Warn("skipping SDK of unknown platform family", "path", sdkPath, "name", name)
		return DiscoveredSDK{}, false
	}

	associated := associateToolchains(settings["Toolchains"], toolchains, sdkPath, logger)
	if len(associated) == 0 {
		// An SDK naming no usable toolchains is associated with every
		// discovered one.
		associated = allToolchains(toolchains)
	}

	toolchainPaths := make([]string, len(associated))
	for i, tc := range associated {
		toolchainPaths[i] = tc.Path
	}

	return DiscoveredSDK{
		SDK: SDK{
			Name:          name,
			Version:       version,
			Platform:      platform,
			Architectures: architectures(settings["Architectures"], platform, sdkPath, logger),
			Toolchains:    associated,
		},
		Paths: Paths{
			SDKPath:        sdkPath,
			PlatformPath:   platformPath,
			DeveloperPath:  developerPath,
			ToolchainPaths: toolchainPaths,
		},
	}, true
}

// associateToolchains resolves the SDK's declared toolchain
// identifiers against the discovered set, preserving declaration
// order and dropping unknown identifiers.
func associateToolchains(raw any, toolchains map[string]Toolchain, sdkPath string, logger *slog.Logger) []Toolchain {
	declared, _ := raw.([]any)

	var associated []Toolchain
	for _, el := range declared {
		identifier, _ := el.(string)
		if identifier == "" {
			continue
		}
		tc, known := toolchains[identifier]
		if !known {
			logger.Warn("SDK references unknown toolchain", "path", sdkPath, "identifier", identifier)
			continue
		}
		associated = append(associated, tc)
	}
	return associated
}

// allToolchains returns every discovered toolchain in identifier
// order.
func allToolchains(toolchains map[string]Toolchain) []Toolchain {
	identifiers := make([]string, 0, len(toolchains))
	for identifier := range toolchains {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	all := make([]Toolchain, 0, len(identifiers))
	for _, identifier := range identifiers {
		all = append(all, toolchains[identifier])
	}
	return all
}

// architectures reads the optional architecture list from the SDK
// settings, falling back to the platform family defaults.
func architectures(raw any, platform Platform, sdkPath string, logger *slog.Logger) []string {
	var archs []string
	if declared, ok := raw.([]any); ok {
		for _, el := range declared {
			if arch, _ := el.(string); arch != "" {
				archs = append(archs, arch)
			}
		}
		if len(archs) == 0 {
			logger.Warn("ignoring unusable architecture list", "path", sdkPath)
		}
	}
	if len(archs) == 0 {
		archs = append(archs, platform.Architectures...)
	}
	return archs
}

// isDir follows symlinks, so a linked bundle directory still counts.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
