// Package paths encodes the directory layout of developer bundle
// installations and resolves the well-known files inside them.
//
// An installation is an Xcode-like hierarchy rooted at a developer
// directory:
//
//	<root>/Toolchains/<name>.xctoolchain/ToolchainInfo.plist
//	<root>/Platforms/<name>.platform/version.plist
//	<root>/Platforms/<name>.platform/Developer/SDKs/<name>.sdk/SDKSettings.plist
//	<parent of root>/version.plist
//	<parent of root>/Info.plist
//
// # Layout Helpers
//
// All layout knowledge lives here as pure functions over path strings;
// nothing in this package touches the filesystem except [EnsureDir].
// Discovery composes these helpers rather than joining path segments
// inline:
//
//	paths.ToolchainsDir(root)        // <root>/Toolchains
//	paths.SDKsDir(platformPath)      // <platform>/Developer/SDKs
//	paths.UsrBin(toolchainPath)      // <toolchain>/usr/bin
//
// # Bundle Name Predicates
//
// Directory entries are classified by suffix. [IsPlatformBundle] and
// [IsSDKBundle] test names, and [SDKBaseName] strips the ".sdk" suffix
// to recover the SDK name ("iPhoneOS10.0.sdk" -> "iPhoneOS10.0").
//
// # XDG Base Directory Compliance
//
// [ConfigHome] wraps github.com/adrg/xdg so the config file search path
// follows platform conventions (~/.config on Linux, ~/Library/Application
// Support on macOS, %LOCALAPPDATA% on Windows).
package paths
