package apple

import "strings"

// Platform captures the per-family knowledge needed to assemble
// descriptors for an SDK: compiler flag spellings, Swift naming, and
// the architectures built when the settings file declares none.
type Platform struct {
	// Name is the canonical lowercase family name, matched as a
	// prefix of SDK names (an "iphoneos10.0" SDK belongs to the
	// "iphoneos" platform).
	Name string

	// SwiftName overrides Name in Swift target triples. Empty means
	// Name is used as-is.
	SwiftName string

	// MinVersionFlag is the compiler flag prefix the deployment
	// target version is appended to, e.g. "-mios-version-min=".
	MinVersionFlag string

	// StubBinaryRel locates the watch application stub inside the
	// SDK, for families that ship one.
	StubBinaryRel string

	// EmbedBitcode marks families whose binaries always carry
	// bitcode segments.
	EmbedBitcode bool

	// Architectures are the defaults used when SDKSettings.plist
	// omits the supported architecture list.
	Architectures []string
}

var (
	IPhoneOS = Platform{
		Name:           "iphoneos",
		SwiftName:      "ios",
		MinVersionFlag: "-mios-version-min=",
		Architectures:  []string{"armv7", "arm64"},
	}
	IPhoneSimulator = Platform{
		Name:           "iphonesimulator",
		SwiftName:      "ios",
		MinVersionFlag: "-mios-simulator-version-min=",
		Architectures:  []string{"i386", "x86_64"},
	}
	WatchOS = Platform{
		Name:           "watchos",
		MinVersionFlag: "-mwatchos-version-min=",
		StubBinaryRel:  "Library/Application Support/WatchKit/WK",
		EmbedBitcode:   true,
		Architectures:  []string{"armv7k"},
	}
	WatchSimulator = Platform{
		Name:           "watchsimulator",
		MinVersionFlag: "-mwatchos-simulator-version-min=",
		StubBinaryRel:  "Library/Application Support/WatchKit/WK",
		Architectures:  []string{"i386"},
	}
	AppleTVOS = Platform{
		Name:           "appletvos",
		SwiftName:      "tvos",
		MinVersionFlag: "-mtvos-version-min=",
		Architectures:  []string{"arm64"},
	}
	AppleTVSimulator = Platform{
		Name:           "appletvsimulator",
		SwiftName:      "tvos",
		MinVersionFlag: "-mtvos-simulator-version-min=",
		Architectures:  []string{"x86_64"},
	}
	MacOSX = Platform{
		Name:           "macosx",
		MinVersionFlag: "-mmacosx-version-min=",
		Architectures:  []string{"i386", "x86_64"},
	}
)

// knownPlatforms is ordered longest name first so a family whose name
// extends another's is matched before the shorter one.
var knownPlatforms = []Platform{
	AppleTVSimulator,
	IPhoneSimulator,
	WatchSimulator,
	AppleTVOS,
	IPhoneOS,
	WatchOS,
	MacOSX,
}

// PlatformForSDK maps an SDK name such as "iphoneos10.0" to its
// platform family. The match is case-insensitive on the name prefix.
func PlatformForSDK(sdkName string) (Platform, bool) {
	lower := strings.ToLower(sdkName)
	for _, p := range knownPlatforms {
		if strings.HasPrefix(lower, p.Name) {
			return p, true
		}
	}
	return Platform{}, false
}

// TripleName is the platform component of Swift target triples,
// e.g. "ios" in arm64-apple-ios10.0.
func (p Platform) TripleName() string {
	if p.SwiftName != "" {
		return p.SwiftName
	}
	return p.Name
}
