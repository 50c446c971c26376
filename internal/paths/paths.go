package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Well-known names inside a developer bundle installation. The layout
// is an Xcode-like hierarchy:
//
//	<root>/Toolchains/<name>.xctoolchain/ToolchainInfo.plist
//	<root>/Platforms/<name>.platform/Developer/SDKs/<name>.sdk/SDKSettings.plist
//	<root>/Platforms/<name>.platform/version.plist
//	<parent of root>/version.plist
//	<parent of root>/Info.plist
const (
	ToolchainsDirName = "Toolchains"
	PlatformsDirName  = "Platforms"

	PlatformSuffix = ".platform"
	SDKSuffix      = ".sdk"

	ToolchainInfoName = "ToolchainInfo.plist"
	SDKSettingsName   = "SDKSettings.plist"
	VersionPlistName  = "version.plist"
	InfoPlistName     = "Info.plist"
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ToolchainsDir returns the toolchain bundle directory of an installation.
// Returns: <developerDir>/Toolchains
func ToolchainsDir(developerDir string) string {
	return filepath.Join(developerDir, ToolchainsDirName)
}

// PlatformsDir returns the platform bundle directory of an installation.
// Returns: <developerDir>/Platforms
func PlatformsDir(developerDir string) string {
	return filepath.Join(developerDir, PlatformsDirName)
}

// SDKsDir returns the SDK container inside a platform bundle.
// Returns: <platformPath>/Developer/SDKs
func SDKsDir(platformPath string) string {
	return filepath.Join(platformPath, "Developer", "SDKs")
}

// ToolchainInfo returns the metadata plist of a toolchain bundle.
func ToolchainInfo(toolchainPath string) string {
	return filepath.Join(toolchainPath, ToolchainInfoName)
}

// SDKSettings returns the metadata plist of an SDK bundle.
func SDKSettings(sdkPath string) string {
	return filepath.Join(sdkPath, SDKSettingsName)
}

// PlatformVersionPlist returns the build-version plist of a platform bundle.
func PlatformVersionPlist(platformPath string) string {
	return filepath.Join(platformPath, VersionPlistName)
}

// InstallVersionPlist returns the build-version plist of the whole
// installation, which lives next to the developer directory rather
// than inside it.
// Returns: <parent of developerDir>/version.plist
func InstallVersionPlist(developerDir string) string {
	return filepath.Join(filepath.Dir(developerDir), VersionPlistName)
}

// InstallInfoPlist returns the bundle info plist of the whole installation.
// Returns: <parent of developerDir>/Info.plist
func InstallInfoPlist(developerDir string) string {
	return filepath.Join(filepath.Dir(developerDir), InfoPlistName)
}

// UsrBin returns the executable directory of a bundle.
// Returns: <path>/usr/bin
func UsrBin(path string) string {
	return filepath.Join(path, "usr", "bin")
}

// DeveloperUsrBin returns the nested developer executable directory
// found inside SDK and platform bundles.
// Returns: <path>/Developer/usr/bin
func DeveloperUsrBin(path string) string {
	return filepath.Join(path, "Developer", "usr", "bin")
}

// DeveloperTools returns the legacy tool directory of an installation.
// Returns: <developerDir>/Tools
func DeveloperTools(developerDir string) string {
	return filepath.Join(developerDir, "Tools")
}

// PlatformFrameworks returns the framework directory of a platform
// bundle, used for header whitelisting.
// Returns: <platformPath>/Developer/Library/Frameworks
func PlatformFrameworks(platformPath string) string {
	return filepath.Join(platformPath, "Developer", "Library", "Frameworks")
}

// SwiftStdlib returns the platform-specific Swift standard library
// directory of a toolchain.
// Returns: <toolchainPath>/usr/lib/swift/<platformName>
func SwiftStdlib(toolchainPath, platformName string) string {
	return filepath.Join(toolchainPath, "usr", "lib", "swift", platformName)
}

// IsPlatformBundle reports whether a directory name looks like a
// platform bundle.
func IsPlatformBundle(name string) bool {
	return strings.HasSuffix(name, PlatformSuffix)
}

// IsSDKBundle reports whether a directory name looks like an SDK bundle.
func IsSDKBundle(name string) bool {
	return strings.HasSuffix(name, SDKSuffix)
}

// SDKBaseName strips the bundle suffix from an SDK directory name.
// "iPhoneOS10.0.sdk" becomes "iPhoneOS10.0".
func SDKBaseName(name string) string {
	return strings.TrimSuffix(name, SDKSuffix)
}
