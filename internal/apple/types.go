package apple

import (
	"fmt"
	"regexp"

	"github.com/Kryndex/buck/internal/sanitize"
	"github.com/Kryndex/buck/internal/tools"
)

// Toolchain is one discovered toolchain bundle.
type Toolchain struct {
	// Identifier comes from ToolchainInfo.plist.
	Identifier string

	// Path is the absolute toolchain bundle directory.
	Path string

	// Version is the Version field of ToolchainInfo.plist, empty
	// when undeclared.
	Version string
}

// Paths carries the directory layout an SDK was discovered under.
// All fields are absolute.
type Paths struct {
	// SDKPath is the *.sdk bundle directory, used as the sysroot.
	SDKPath string

	// PlatformPath is the enclosing *.platform directory.
	PlatformPath string

	// DeveloperPath is the installation's Developer directory. Empty
	// for SDKs found under extra search paths with no installation
	// above them.
	DeveloperPath string

	// ToolchainPaths are the bundle directories of the toolchains
	// associated with the SDK, in association order.
	ToolchainPaths []string
}

// SDK is the parsed identity of one SDK bundle.
type SDK struct {
	// Name is the canonical lowercase SDK name from
	// SDKSettings.plist, e.g. "iphoneos10.0".
	Name string

	// Version is the numeric part of Name, e.g. "10.0".
	Version string

	// Platform is the family the SDK belongs to.
	Platform Platform

	// Architectures the SDK builds for. Never empty; defaults come
	// from the platform family.
	Architectures []string

	// Toolchains associated with the SDK, in association order.
	Toolchains []Toolchain
}

// DiscoveredSDK pairs an SDK with the layout it was found under.
type DiscoveredSDK struct {
	SDK   SDK
	Paths Paths
}

// ToolSet is the full complement of tools a descriptor needs,
// resolved to absolute paths.
type ToolSet struct {
	Clang    tools.VersionedTool
	ClangXX  tools.VersionedTool
	Ar       tools.VersionedTool
	Ranlib   tools.VersionedTool
	Strip    tools.VersionedTool
	Nm       tools.VersionedTool
	Actool   tools.VersionedTool
	Ibtool   tools.VersionedTool
	Momc     tools.VersionedTool
	Xctest   tools.VersionedTool
	Dsymutil tools.VersionedTool
	Lipo     tools.VersionedTool
	Lldb     tools.VersionedTool

	// Optional; nil means the tool was absent from every search
	// directory.
	CodesignAllocate *tools.VersionedTool
	SceneKitAssets   *tools.VersionedTool
}

// SwiftPlatform is the Swift slice of a descriptor, present only when
// both Swift tools resolved.
type SwiftPlatform struct {
	// Name is the platform family name passed to the stdlib tool.
	Name string

	Swiftc     tools.VersionedTool
	StdlibTool tools.VersionedTool

	// StdlibSearchPaths are toolchain directories holding the Swift
	// runtime dylibs for the platform.
	StdlibSearchPaths []string
}

// Descriptor is one immutable build platform: everything rule
// execution needs to compile, link, and package for a single
// (SDK, architecture) pair. Built once by [Assembler.Build] and never
// mutated afterwards.
type Descriptor struct {
	Flavor            string
	FlavorDescription string
	SDK               SDK
	Paths             Paths
	Architecture      string

	// MinVersion is the deployment target the flags were derived
	// from. Defaults to the SDK version.
	MinVersion string

	// Version is the composite fingerprint of the SDK and toolchain
	// versions, cache-key material for rule outputs.
	Version string

	// BuildVersion is the platform bundle's ProductBuildVersion,
	// empty when the platform carries no version.plist.
	BuildVersion string

	// BundleVersion is the installation's marketing version, empty
	// when unavailable.
	BundleVersion string

	Tools ToolSet

	// Swift is nil when the toolchains ship no usable Swift.
	Swift *SwiftPlatform

	CompilerFlags []string

	// PreprocessorFlags mirror CompilerFlags; the preprocessor needs
	// the same sysroot and target selection.
	PreprocessorFlags []string

	LinkerFlags []string

	// Macros are the source-path expansions rule definitions may
	// reference, e.g. "SDKROOT".
	Macros map[string]string

	// CompilerSanitizer emits the prefix-map flags that keep
	// installation paths out of compiler debug records.
	CompilerSanitizer *sanitize.PrefixMap

	// AssemblerSanitizer rewrites installation paths embedded
	// verbatim by tools that ignore prefix maps.
	AssemblerSanitizer *sanitize.Munging

	// HeaderWhitelist holds anchored path regexps for headers that
	// may be included without being declared.
	HeaderWhitelist []string

	// StubBinary is the watch application stub inside the SDK, empty
	// for families without one.
	StubBinary string

	// Codesign is the signing tool path carried from configuration.
	Codesign string
}

var flavorUnsafe = regexp.MustCompile(`[^-a-zA-Z0-9_.]`)

// Flavor derives the canonical flavor for an (SDK, architecture)
// pair. Characters outside the flavor alphabet become underscores.
func Flavor(sdkName, arch string) string {
	return flavorUnsafe.ReplaceAllString(sdkName+"-"+arch, "_")
}

// FlavorDescription is the human-readable form shown in listings.
func FlavorDescription(sdkName, arch string) string {
	return fmt.Sprintf("SDK: %s, architecture: %s", sdkName, arch)
}
