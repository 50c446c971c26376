package apple

import (
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/Kryndex/buck/internal/paths"
	"github.com/Kryndex/buck/internal/sanitize"
	"github.com/Kryndex/buck/internal/tools"
)

// bundleVersionKey names the marketing version field in the
// installation bundle's Info.plist.
const bundleVersionKey = "CFBundleShortVersionString"

// Assembler builds one platform descriptor per (SDK, architecture)
// pair. A single Assembler serves a whole run; Build is safe for
// concurrent use.
type Assembler struct {
	Finder      tools.Finder
	Reader      FieldReader
	Versions    *BuildVersionCache
	ProjectRoot string

	// SanitizerPathSize is the padded width of sanitized paths in raw
	// assembler output.
	SanitizerPathSize int

	// Codesign is the signing tool path, carried into descriptors
	// verbatim.
	Codesign string

	Logger *slog.Logger
}

// Build assembles the descriptor for one (SDK, architecture) pair.
// minVersion is the deployment target; empty means the SDK version.
// A pinned swiftToolchain overrides where Swift tools and runtime
// libraries are looked for.
//
// The returned error wraps ErrToolNotFound or ErrVersionUnresolved
// and concerns only this pair; other pairs of the same SDK or run are
// unaffected.
func (a *Assembler) Build(sdk SDK, arch, minVersion string, sdkPaths Paths, swiftToolchain *Toolchain) (*Descriptor, error) {
	flavor := Flavor(sdk.Name, arch)
	log := a.Logger.With("flavor", flavor)

	if minVersion == "" {
		minVersion = sdk.Version
	}

	searchPath := toolSearchPath(sdkPaths)
	cflags := compilerFlags(sdk, arch, minVersion, a.ProjectRoot, sdkPaths)
	ldflags := linkerFlags(sdk)

	version, err := compositeVersion(sdk, a.Versions, sdkPaths.DeveloperPath)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved composite version", "version", version)

	toolset, err := a.resolveTools(version, searchPath, log)
	if err != nil {
		return nil, err
	}

	placeholders, err := sanitizerPlaceholders(sdkPaths)
	if err != nil {
		return nil, err
	}

	linkerAll := make([]string, 0, len(cflags)+len(ldflags))
	linkerAll = append(linkerAll, cflags...)
	linkerAll = append(linkerAll, ldflags...)

	stubBinary := ""
	if sdk.Platform.StubBinaryRel != "" {
		stubBinary = filepath.Join(sdkPaths.SDKPath, sdk.Platform.StubBinaryRel)
	}

	return &Descriptor{
		Flavor:             flavor,
		FlavorDescription:  FlavorDescription(sdk.Name, arch),
		SDK:                sdk,
		Paths:              sdkPaths,
		Architecture:       arch,
		MinVersion:         minVersion,
		Version:            version,
		BuildVersion:       a.buildVersion(sdkPaths.PlatformPath, log),
		BundleVersion:      a.bundleVersion(sdkPaths.DeveloperPath),
		Tools:              toolset,
		Swift:              a.swiftPlatform(sdk, arch, minVersion, version, sdkPaths, searchPath, swiftToolchain, log),
		CompilerFlags:      cflags,
		PreprocessorFlags:  cflags,
		LinkerFlags:        linkerAll,
		Macros:             buildMacros(sdkPaths, arch),
		CompilerSanitizer:  sanitize.NewPrefixMap(placeholders, a.ProjectRoot),
		AssemblerSanitizer: sanitize.NewMunging(placeholders, a.SanitizerPathSize),
		HeaderWhitelist:    headerWhitelist(sdkPaths, log),
		StubBinary:         stubBinary,
		Codesign:           a.Codesign,
	}, nil
}

// toolSearchPath orders candidate bin directories most specific
// first. The first match wins, so an SDK-local tool shadows a
// same-named installation-wide one.
func toolSearchPath(p Paths) []string {
	dirs := []string{
		paths.UsrBin(p.SDKPath),
		paths.DeveloperUsrBin(p.SDKPath),
		paths.DeveloperUsrBin(p.PlatformPath),
	}
	for _, tc := range p.ToolchainPaths {
		dirs = append(dirs, paths.UsrBin(tc))
	}
	if p.DeveloperPath != "" {
		dirs = append(dirs, paths.UsrBin(p.DeveloperPath), paths.DeveloperTools(p.DeveloperPath))
	}
	return dirs
}

func compilerFlags(sdk SDK, arch, minVersion, projectRoot string, p Paths) []string {
	flags := []string{
		"-isysroot", p.SDKPath,
		"-iquote", projectRoot,
		"-arch", arch,
		sdk.Platform.MinVersionFlag + minVersion,
	}
	if sdk.Platform.EmbedBitcode {
		flags = append(flags, "-fembed-bitcode")
	}
	return flags
}

func linkerFlags(sdk SDK) []string {
	flags := xlinker("-sdk_version", sdk.Version, "-ObjC")
	if sdk.Platform.EmbedBitcode {
		flags = append(flags,
			xlinker("-bitcode_verify", "-bitcode_hide_symbols", "-bitcode_symbol_map")...)
	}
	return flags
}

// xlinker interleaves -Xlinker before every argument so the compiler
// driver forwards them to the linker untouched.
func xlinker(args ...string) []string {
	out := make([]string, 0, 2*len(args))
	for _, arg := range args {
		out = append(out, "-Xlinker", arg)
	}
	return out
}

// resolveTools locates the full required tool set, each entry
// carrying the composite version. Any missing required tool fails the
// pair; the two optional tools degrade to nil with a warning.
func (a *Assembler) resolveTools(version string, searchPath []string, log *slog.Logger) (ToolSet, error) {
	var set ToolSet
	required := []struct {
		tool string
		name string
		dst  *tools.VersionedTool
	}{
		{"clang", "apple-clang", &set.Clang},
		{"clang++", "apple-clang++", &set.ClangXX},
		{"ar", "apple-ar", &set.Ar},
		{"ranlib", "apple-ranlib", &set.Ranlib},
		{"strip", "apple-strip", &set.Strip},
		{"nm", "apple-nm", &set.Nm},
		{"actool", "apple-actool", &set.Actool},
		{"ibtool", "apple-ibtool", &set.Ibtool},
		{"momc", "apple-momc", &set.Momc},
		{"xctest", "apple-xctest", &set.Xctest},
		{"dsymutil", "apple-dsymutil", &set.Dsymutil},
		{"lipo", "apple-lipo", &set.Lipo},
		{"lldb", "lldb", &set.Lldb},
	}
	for _, req := range required {
		path, err := tools.Require(a.Finder, req.tool, searchPath)
		if err != nil {
			return ToolSet{}, err
		}
		*req.dst = tools.VersionedTool{Path: path, Name: req.name, Version: version}
	}

	set.CodesignAllocate = a.optionalTool("codesign_allocate", version, searchPath, log)
	set.SceneKitAssets = a.optionalTool("copySceneKitAssets", version, searchPath, log)
	return set, nil
}

// optionalTool resolves a tool whose absence only disables the
// feature depending on it.
func (a *Assembler) optionalTool(name, version string, searchPath []string, log *slog.Logger) *tools.VersionedTool {
	path, ok := a.Finder.Lookup(name, searchPath)
	if !ok {
		log.Warn("optional tool not found", "tool", name)
		return nil
	}
	return &tools.VersionedTool{Path: path, Name: name, Version: version}
}

// swiftPlatform probes for Swift support. A pinned toolchain prepends
// its bin directory to the lookup path and replaces the runtime
// library roots. The result is non-nil only when both the compiler
// driver and the stdlib packaging tool resolve; misses are logged at
// Debug and leave the descriptor without Swift.
func (a *Assembler) swiftPlatform(sdk SDK, arch, minVersion, version string, sdkPaths Paths, searchPath []string, swiftToolchain *Toolchain, log *slog.Logger) *SwiftPlatform {
	toolchainPaths := sdkPaths.ToolchainPaths
	lookupPath := searchPath
	if swiftToolchain != nil {
		toolchainPaths = []string{swiftToolchain.Path}
		lookupPath = append([]string{paths.UsrBin(swiftToolchain.Path)}, searchPath...)
	}

	swiftcPath, ok := a.Finder.Lookup("swiftc", lookupPath)
	if !ok {
		log.Debug("no Swift compiler in search path")
		return nil
	}
	stdlibToolPath, ok := a.Finder.Lookup("swift-stdlib-tool", lookupPath)
	if !ok {
		log.Debug("no Swift stdlib tool in search path")
		return nil
	}

	target := arch + "-apple-" + sdk.Platform.TripleName() + minVersion
	swiftcArgs := []string{"-frontend", "-sdk", sdkPaths.SDKPath, "-target", target}

	stdlibArgs := []string{"--copy", "--verbose", "--strip-bitcode", "--platform", sdk.Platform.Name}
	for _, tc := range toolchainPaths {
		stdlibArgs = append(stdlibArgs, "--toolchain", tc)
	}

	stdlibSearchPaths := make([]string, 0, len(toolchainPaths))
	for _, tc := range toolchainPaths {
		stdlibSearchPaths = append(stdlibSearchPaths, paths.SwiftStdlib(tc, sdk.Platform.Name))
	}

	return &SwiftPlatform{
		Name: sdk.Platform.Name,
		Swiftc: tools.VersionedTool{
			Path: swiftcPath, Name: "swiftc", Version: version, ExtraArgs: swiftcArgs,
		},
		StdlibTool: tools.VersionedTool{
			Path: stdlibToolPath, Name: "swift-stdlib-tool", Version: version, ExtraArgs: stdlibArgs,
		},
		StdlibSearchPaths: stdlibSearchPaths,
	}
}

// sanitizerPlaceholders maps the installation-specific roots to the
// stable names debug records carry instead.
func sanitizerPlaceholders(p Paths) (*sanitize.Placeholders, error) {
	mappings := []sanitize.Mapping{
		{Real: p.SDKPath, Placeholder: "APPLE_SDKROOT"},
		{Real: p.PlatformPath, Placeholder: "APPLE_PLATFORM_DIR"},
	}
	if p.DeveloperPath != "" {
		mappings = append(mappings, sanitize.Mapping{
			Real: p.DeveloperPath, Placeholder: "APPLE_DEVELOPER_DIR",
		})
	}
	return sanitize.NewPlaceholders(mappings)
}

func buildMacros(p Paths, arch string) map[string]string {
	macros := map[string]string{
		"SDKROOT":      p.SDKPath,
		"PLATFORM_DIR": p.PlatformPath,
		"CURRENT_ARCH": arch,
	}
	if p.DeveloperPath != "" {
		macros["DEVELOPER_DIR"] = p.DeveloperPath
	}
	return macros
}

// buildVersion reads the platform bundle's build number. Platforms
// without one still assemble, with the field unset.
func (a *Assembler) buildVersion(platformPath string, log *slog.Logger) string {
	plistPath := paths.PlatformVersionPlist(platformPath)
	version, ok := a.Reader.Field(plistPath, buildVersionKey)
	if !ok {
		log.Warn("build version will be unset for this platform", "path", plistPath)
	}
	return version
}

// bundleVersion reads the installation's marketing version, carried
// on descriptors for diagnostics.
func (a *Assembler) bundleVersion(developerPath string) string {
	if developerPath == "" {
		return ""
	}
	version, _ := a.Reader.Field(paths.InstallInfoPlist(developerPath), bundleVersionKey)
	return version
}

// headerWhitelist anchors a regexp at each root headers may be pulled
// from without being declared. Toolchain roots go through symlink
// resolution so the entries match the paths the compiler records.
func headerWhitelist(p Paths, log *slog.Logger) []string {
	whitelist := []string{
		"^" + regexp.QuoteMeta(p.SDKPath) + "/.*",
		"^" + regexp.QuoteMeta(paths.PlatformFrameworks(p.PlatformPath)) + "/.*",
	}
	for _, tc := range p.ToolchainPaths {
		resolved, err := filepath.EvalSymlinks(tc)
		if err != nil {
			log.Warn("toolchain path could not be resolved", "path", tc, "error", err)
			continue
		}
		whitelist = append(whitelist, "^"+regexp.QuoteMeta(resolved)+"/.*")
	}
	return whitelist
}
