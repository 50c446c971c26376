package apple

import (
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Kryndex/buck/internal/config"
	scanerrors "github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/tools"
	"github.com/Kryndex/buck/pkg/plist"
)

// swiftToolchainIDPrefix starts the identifier of every toolchain
// bundle that ships a specific Swift release.
const swiftToolchainIDPrefix = "com.apple.dt.toolchain.Swift_"

// Pair is one (SDK, architecture) unit of assembly work.
type Pair struct {
	SDK   SDK
	Paths Paths
	Arch  string
}

// EnumeratePairs expands discovered SDKs into assembly work, one pair
// per declared architecture, preserving discovery order.
func EnumeratePairs(discovered []DiscoveredSDK) []Pair {
	var pairs []Pair
	for _, d := range discovered {
		for _, arch := range d.SDK.Architectures {
			pairs = append(pairs, Pair{SDK: d.SDK, Paths: d.Paths, Arch: arch})
		}
	}
	return pairs
}

// MinVersion picks the deployment target for an SDK: the configured
// per-platform override when one exists, else the SDK's own version.
func MinVersion(cfg *config.Config, sdk SDK) string {
	if v := cfg.TargetSDKVersions[sdk.Platform.Name]; v != "" {
		return v
	}
	return sdk.Version
}

// SwiftToolchainIdentifier maps a Swift release version to the
// identifier its toolchain bundle declares, e.g. "3.0" to
// "com.apple.dt.toolchain.Swift_3_0".
func SwiftToolchainIdentifier(version string) string {
	return swiftToolchainIDPrefix + strings.ReplaceAll(version, ".", "_")
}

// SelectSwiftToolchain resolves the configured Swift pin against the
// discovered toolchains. An explicit toolchain identifier wins over a
// version mapping. A miss disables the pin with a warning rather than
// failing the run.
func SelectSwiftToolchain(cfg *config.Config, toolchains map[string]Toolchain, logger *slog.Logger) *Toolchain {
	identifier := cfg.Swift.Toolchain
	if identifier == "" && cfg.Swift.Version != "" {
		identifier = SwiftToolchainIdentifier(cfg.Swift.Version)
	}
	if identifier == "" {
		return nil
	}

	tc, ok := toolchains[identifier]
	if !ok {
		logger.Warn("pinned Swift toolchain not found", "identifier", identifier)
		return nil
	}
	return &tc
}

// NewAssembler wires an Assembler from configuration.
func NewAssembler(cfg *config.Config, projectRoot string, rd *plist.Reader, logger *slog.Logger) *Assembler {
	return &Assembler{
		Finder:            tools.ExecFinder{},
		Reader:            rd,
		Versions:          NewBuildVersionCache(rd),
		ProjectRoot:       projectRoot,
		SanitizerPathSize: cfg.SanitizerPathLength,
		Codesign:          cfg.Codesign,
		Logger:            logger,
	}
}

// BuildPlatforms discovers the configured installation and assembles
// a descriptor for every (SDK, architecture) pair, fanning the
// independent pairs out across a bounded worker pool. An unset
// developer directory yields an empty list; a pair that fails to
// assemble is logged and dropped without affecting any other pair.
// The result is ordered by flavor regardless of completion order, and
// a post-substitution flavor collision keeps only the first
// occurrence.
func BuildPlatforms(cfg *config.Config, projectRoot string, logger *slog.Logger) []*Descriptor {
	developerDir := cfg.ResolveDeveloperDir()
	if developerDir == "" {
		logger.Debug("no developer directory configured")
		return nil
	}
	if info, err := os.Stat(developerDir); err != nil || !info.IsDir() {
		logger.Error("developer directory is not a directory", "path", developerDir)
		return nil
	}

	rd := plist.NewReader(logger)
	toolchains := DiscoverToolchains(developerDir, cfg.ExtraToolchainPaths, rd, logger)
	discovered := DiscoverSDKs(developerDir, cfg.ExtraPlatformPaths, toolchains, rd, logger)
	swiftToolchain := SelectSwiftToolchain(cfg, toolchains, logger)
	assembler := NewAssembler(cfg, projectRoot, rd, logger)

	pairs := EnumeratePairs(discovered)
	if len(pairs) == 0 {
		logger.Debug("no SDKs discovered", "path", developerDir)
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	if len(pairs) < workers {
		workers = len(pairs)
	}

	work := make(chan Pair, len(pairs))
	results := make(chan *Descriptor, len(pairs))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range work {
				descriptor, err := assembler.Build(
					pair.SDK, pair.Arch, MinVersion(cfg, pair.SDK), pair.Paths, swiftToolchain)
				if err != nil {
					logger.Error("cannot assemble platform",
						"flavor", Flavor(pair.SDK.Name, pair.Arch),
						"error", err)
					continue
				}
				results <- descriptor
			}
		}()
	}

	for _, pair := range pairs {
		work <- pair
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	var descriptors []*Descriptor
	for descriptor := range results {
		descriptors = append(descriptors, descriptor)
	}

	return normalize(descriptors, logger)
}

// normalize orders descriptors by flavor so downstream enumeration
// never depends on worker completion order. SDK name and architecture
// break ties between colliding flavors, keeping the drop choice
// deterministic.
func normalize(descriptors []*Descriptor, logger *slog.Logger) []*Descriptor {
	sort.Slice(descriptors, func(i, j int) bool {
		a, b := descriptors[i], descriptors[j]
		if a.Flavor != b.Flavor {
			return a.Flavor < b.Flavor
		}
		if a.SDK.Name != b.SDK.Name {
			return a.SDK.Name < b.SDK.Name
		}
		return a.Architecture < b.Architecture
	})

	out := descriptors[:0]
	prev := ""
	for i, d := range descriptors {
		if i > 0 && d.Flavor == prev {
			logger.Error("dropping platform with duplicate flavor",
				"flavor", d.Flavor,
				"description", d.FlavorDescription,
				"error", scanerrors.ErrFlavorCollision)
			continue
		}
		out = append(out, d)
		prev = d.Flavor
	}
	return out
}
