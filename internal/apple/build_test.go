package apple

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Kryndex/buck/internal/config"
	"github.com/Kryndex/buck/internal/logging"
	"github.com/Kryndex/buck/internal/paths"
)

func hasFlag(flags []string, want string) bool {
	for _, flag := range flags {
		if flag == want {
			return true
		}
	}
	return false
}

func TestBuildPlatforms(t *testing.T) {
	install := newInstall(t)
	tcPath := install.addToolchain("XcodeDefault", "com.apple.dt.toolchain.XcodeDefault", "8B62")
	install.addTools(paths.UsrBin(tcPath), requiredToolNames...)
	install.addSDK("iPhoneOS", "iPhoneOS10.0", "iphoneos10.0", "10.0",
		[]string{"arm64"}, []string{"com.apple.dt.toolchain.XcodeDefault"})
	install.addSDK("WatchOS", "WatchOS3.0", "watchos3.0", "3.0",
		[]string{"armv7k"}, []string{"com.apple.dt.toolchain.XcodeDefault"})

	cfg := config.Default()
	cfg.DeveloperDir = install.developerDir()

	descriptors := BuildPlatforms(cfg, "/work/project", logging.ForTest(t))
	if len(descriptors) != 2 {
		t.Fatalf("assembled %d platforms, want 2", len(descriptors))
	}

	phone, watch := descriptors[0], descriptors[1]
	if phone.Flavor != "iphoneos10.0-arm64" || watch.Flavor != "watchos3.0-armv7k" {
		t.Fatalf("flavors = %q, %q", phone.Flavor, watch.Flavor)
	}

	if phone.Version != "10.0:8B62" {
		t.Errorf("phone Version = %q, want 10.0:8B62", phone.Version)
	}
	if watch.Version != "3.0:8B62" {
		t.Errorf("watch Version = %q, want 3.0:8B62", watch.Version)
	}

	if hasFlag(phone.CompilerFlags, "-fembed-bitcode") {
		t.Errorf("phone compiler flags embed bitcode: %q", phone.CompilerFlags)
	}
	if !hasFlag(watch.CompilerFlags, "-fembed-bitcode") {
		t.Errorf("watch compiler flags do not embed bitcode: %q", watch.CompilerFlags)
	}
	if hasFlag(phone.LinkerFlags, "-bitcode_verify") {
		t.Errorf("phone linker flags carry bitcode handling: %q", phone.LinkerFlags)
	}
	if !hasFlag(watch.LinkerFlags, "-bitcode_verify") {
		t.Errorf("watch linker flags missing bitcode handling: %q", watch.LinkerFlags)
	}

	if phone.StubBinary != "" {
		t.Errorf("phone StubBinary = %q, want none", phone.StubBinary)
	}
	if watch.StubBinary == "" {
		t.Error("watch StubBinary unset")
	}
}

func TestBuildPlatforms_NoDeveloperDir(t *testing.T) {
	t.Setenv("DEVELOPER_DIR", "")

	descriptors := BuildPlatforms(config.Default(), "/work/project", logging.ForTest(t))
	if descriptors != nil {
		t.Errorf("assembled %d platforms with no developer directory", len(descriptors))
	}
}

func TestBuildPlatforms_DeveloperDirNotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Developer")
	if err := os.WriteFile(file, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.DeveloperDir = file

	descriptors := BuildPlatforms(cfg, "/work/project", logging.ForTest(t))
	if descriptors != nil {
		t.Errorf("assembled %d platforms from a non-directory", len(descriptors))
	}
}

func TestBuildPlatforms_EmptyInstall(t *testing.T) {
	cfg := config.Default()
	cfg.DeveloperDir = t.TempDir()

	descriptors := BuildPlatforms(cfg, "/work/project", logging.ForTest(t))
	if descriptors != nil {
		t.Errorf("assembled %d platforms from an empty installation", len(descriptors))
	}
}

func TestBuildPlatforms_DropsFailingPair(t *testing.T) {
	install := newInstall(t)
	tcPath := install.addToolchain("XcodeDefault", "com.apple.dt.toolchain.XcodeDefault", "8B62")
	install.addTools(paths.UsrBin(tcPath), requiredToolNames...)
	install.addToolchain("Empty", "com.example.empty", "1A1")

	install.addSDK("iPhoneOS", "iPhoneOS10.0", "iphoneos10.0", "10.0",
		[]string{"arm64"}, []string{"com.apple.dt.toolchain.XcodeDefault"})
	// This SDK's only toolchain carries no tools, so its pair cannot
	// resolve the required set.
	install.addSDK("WatchOS", "WatchOS3.0", "watchos3.0", "3.0",
		[]string{"armv7k"}, []string{"com.example.empty"})

	cfg := config.Default()
	cfg.DeveloperDir = install.developerDir()

	descriptors := BuildPlatforms(cfg, "/work/project", logging.ForTest(t))
	if len(descriptors) != 1 {
		t.Fatalf("assembled %d platforms, want 1", len(descriptors))
	}
	if descriptors[0].Flavor != "iphoneos10.0-arm64" {
		t.Errorf("kept %q, want the assemblable pair", descriptors[0].Flavor)
	}
}

func TestBuildPlatforms_TargetVersionOverride(t *testing.T) {
	install := newInstall(t)
	tcPath := install.addToolchain("XcodeDefault", "com.apple.dt.toolchain.XcodeDefault", "8B62")
	install.addTools(paths.UsrBin(tcPath), requiredToolNames...)
	install.addSDK("iPhoneOS", "iPhoneOS10.0", "iphoneos10.0", "10.0",
		[]string{"arm64"}, []string{"com.apple.dt.toolchain.XcodeDefault"})

	cfg := config.Default()
	cfg.DeveloperDir = install.developerDir()
	cfg.TargetSDKVersions = map[string]string{"iphoneos": "9.0"}

	descriptors := BuildPlatforms(cfg, "/work/project", logging.ForTest(t))
	if len(descriptors) != 1 {
		t.Fatalf("assembled %d platforms, want 1", len(descriptors))
	}
	if descriptors[0].MinVersion != "9.0" {
		t.Errorf("MinVersion = %q, want the configured 9.0", descriptors[0].MinVersion)
	}
	if !hasFlag(descriptors[0].CompilerFlags, "-mios-version-min=9.0") {
		t.Errorf("CompilerFlags = %q, missing the overridden target", descriptors[0].CompilerFlags)
	}
}

func TestEnumeratePairs(t *testing.T) {
	discovered := []DiscoveredSDK{
		{SDK: SDK{Name: "iphoneos10.0", Architectures: []string{"armv7", "arm64"}}},
		{SDK: SDK{Name: "watchos3.0", Architectures: []string{"armv7k"}}},
	}

	pairs := EnumeratePairs(discovered)
	if len(pairs) != 3 {
		t.Fatalf("enumerated %d pairs, want 3", len(pairs))
	}
	wantArchs := []string{"armv7", "arm64", "armv7k"}
	for i, pair := range pairs {
		if pair.Arch != wantArchs[i] {
			t.Errorf("pairs[%d].Arch = %q, want %q", i, pair.Arch, wantArchs[i])
		}
	}
	if pairs[2].SDK.Name != "watchos3.0" {
		t.Errorf("pairs[2].SDK.Name = %q", pairs[2].SDK.Name)
	}
}

func TestMinVersion(t *testing.T) {
	sdk := SDK{Name: "iphoneos10.0", Version: "10.0", Platform: IPhoneOS}

	cfg := config.Default()
	if got := MinVersion(cfg, sdk); got != "10.0" {
		t.Errorf("MinVersion = %q, want the SDK version", got)
	}

	cfg.TargetSDKVersions = map[string]string{"iphoneos": "9.0"}
	if got := MinVersion(cfg, sdk); got != "9.0" {
		t.Errorf("MinVersion = %q, want the override", got)
	}
}

func TestSwiftToolchainIdentifier(t *testing.T) {
	if got := SwiftToolchainIdentifier("3.0"); got != "com.apple.dt.toolchain.Swift_3_0" {
		t.Errorf("identifier = %q", got)
	}
	if got := SwiftToolchainIdentifier("2.1.1"); got != "com.apple.dt.toolchain.Swift_2_1_1" {
		t.Errorf("identifier = %q", got)
	}
}

func TestSelectSwiftToolchain(t *testing.T) {
	toolchains := map[string]Toolchain{
		"com.apple.dt.toolchain.Swift_3_0": {Identifier: "com.apple.dt.toolchain.Swift_3_0", Path: "/tc/swift3"},
		"com.example.custom":               {Identifier: "com.example.custom", Path: "/tc/custom"},
	}
	logger := logging.ForTest(t)

	cfg := config.Default()
	if got := SelectSwiftToolchain(cfg, toolchains, logger); got != nil {
		t.Errorf("selected %+v with no pin configured", got)
	}

	cfg.Swift.Version = "3.0"
	got := SelectSwiftToolchain(cfg, toolchains, logger)
	if got == nil || got.Path != "/tc/swift3" {
		t.Errorf("selected %+v, want the version-mapped toolchain", got)
	}

	// An explicit identifier wins over the version mapping.
	cfg.Swift.Toolchain = "com.example.custom"
	got = SelectSwiftToolchain(cfg, toolchains, logger)
	if got == nil || got.Path != "/tc/custom" {
		t.Errorf("selected %+v, want the explicit toolchain", got)
	}

	cfg.Swift.Toolchain = "com.example.absent"
	if got := SelectSwiftToolchain(cfg, toolchains, logger); got != nil {
		t.Errorf("selected %+v for an absent pin, want nil", got)
	}
}

func TestNormalize(t *testing.T) {
	// "odd sdk1.0" and "odd_sdk1.0" substitute to the same flavor.
	descriptors := []*Descriptor{
		{Flavor: Flavor("watchos3.0", "armv7k"), SDK: SDK{Name: "watchos3.0"}, Architecture: "armv7k"},
		{Flavor: Flavor("odd_sdk1.0", "arm64"), SDK: SDK{Name: "odd_sdk1.0"}, Architecture: "arm64"},
		{Flavor: Flavor("odd sdk1.0", "arm64"), SDK: SDK{Name: "odd sdk1.0"}, Architecture: "arm64"},
	}

	out := normalize(descriptors, logging.ForTest(t))
	if len(out) != 2 {
		t.Fatalf("normalized to %d descriptors, want 2", len(out))
	}
	if out[0].Flavor != "odd_sdk1.0-arm64" || out[1].Flavor != "watchos3.0-armv7k" {
		t.Errorf("order = %q, %q", out[0].Flavor, out[1].Flavor)
	}
	// The tie break keeps the lexically first SDK of a colliding pair.
	if out[0].SDK.Name != "odd sdk1.0" {
		t.Errorf("kept SDK %q after collision", out[0].SDK.Name)
	}
}
