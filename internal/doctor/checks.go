package doctor

import (
	"fmt"
	"os"
	"sort"

	"github.com/Kryndex/buck/internal/apple"
	"github.com/Kryndex/buck/internal/config"
	"github.com/Kryndex/buck/internal/logging"
	"github.com/Kryndex/buck/internal/paths"
	"github.com/Kryndex/buck/pkg/plist"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration validation check.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "validate"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run executes the configuration validation check.
func (c *ConfigCheck) Run() *CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "configuration is valid",
		}
	}

	problems := make([]string, len(errs))
	for i, err := range errs {
		problems[i] = err.Error()
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityError,
		Message:  fmt.Sprintf("configuration has %d problem(s)", len(errs)),
		Details:  map[string]any{"problems": problems},
		FixHint:  "Edit config.yaml to fix the listed fields",
	}
}

// DeveloperDirCheck verifies the installation root exists.
type DeveloperDirCheck struct {
	cfg *config.Config
}

var _ Check = (*DeveloperDirCheck)(nil)

// NewDeveloperDirCheck creates an installation root check.
func NewDeveloperDirCheck(cfg *config.Config) *DeveloperDirCheck {
	return &DeveloperDirCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *DeveloperDirCheck) Name() string {
	return "developer-dir"
}

// Category returns the grouping for this check.
func (c *DeveloperDirCheck) Category() string {
	return "installation"
}

// Run executes the installation root check.
func (c *DeveloperDirCheck) Run() *CheckResult {
	dir := c.cfg.ResolveDeveloperDir()
	if dir == "" {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no developer directory configured",
			FixHint:  "Set developer_dir in config.yaml or export DEVELOPER_DIR",
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "developer directory does not exist",
			Details:  map[string]any{"path": dir},
			FixHint:  "Point developer_dir at an installed developer bundle",
		}
	}
	if !info.IsDir() {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "developer directory is not a directory",
			Details:  map[string]any{"path": dir},
		}
	}

	details := map[string]any{
		"path":           dir,
		"toolchains_dir": dirExists(paths.ToolchainsDir(dir)),
		"platforms_dir":  dirExists(paths.PlatformsDir(dir)),
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "developer directory present",
		Details:  details,
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ToolchainCheck counts discoverable toolchain bundles.
type ToolchainCheck struct {
	cfg *config.Config
}

var _ Check = (*ToolchainCheck)(nil)

// NewToolchainCheck creates a toolchain discovery check.
func NewToolchainCheck(cfg *config.Config) *ToolchainCheck {
	return &ToolchainCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ToolchainCheck) Name() string {
	return "toolchains"
}

// Category returns the grouping for this check.
func (c *ToolchainCheck) Category() string {
	return "discovery"
}

// Run executes the toolchain discovery check.
func (c *ToolchainCheck) Run() *CheckResult {
	logger := logging.NewDiscard()
	toolchains := apple.DiscoverToolchains(
		c.cfg.ResolveDeveloperDir(), c.cfg.ExtraToolchainPaths, plist.NewReader(logger), logger)

	if len(toolchains) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no toolchains discovered",
			FixHint:  "Verify the installation has a Toolchains directory with *.xctoolchain bundles",
		}
	}

	identifiers := make([]string, 0, len(toolchains))
	for identifier := range toolchains {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("discovered %d toolchain(s)", len(toolchains)),
		Details:  map[string]any{"identifiers": identifiers},
	}
}

// SDKCheck counts discoverable SDK bundles.
type SDKCheck struct {
	cfg *config.Config
}

var _ Check = (*SDKCheck)(nil)

// NewSDKCheck creates an SDK discovery check.
func NewSDKCheck(cfg *config.Config) *SDKCheck {
	return &SDKCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *SDKCheck) Name() string {
	return "sdks"
}

// Category returns the grouping for this check.
func (c *SDKCheck) Category() string {
	return "discovery"
}

// Run executes the SDK discovery check.
func (c *SDKCheck) Run() *CheckResult {
	logger := logging.NewDiscard()
	rd := plist.NewReader(logger)
	developerDir := c.cfg.ResolveDeveloperDir()

	toolchains := apple.DiscoverToolchains(developerDir, c.cfg.ExtraToolchainPaths, rd, logger)
	discovered := apple.DiscoverSDKs(developerDir, c.cfg.ExtraPlatformPaths, toolchains, rd, logger)

	if len(discovered) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no SDKs discovered",
			FixHint:  "Verify the installation has Platforms/*.platform/Developer/SDKs bundles",
		}
	}

	names := make([]string, len(discovered))
	for i, d := range discovered {
		names[i] = fmt.Sprintf("%s (%d toolchain(s))", d.SDK.Name, len(d.SDK.Toolchains))
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("discovered %d SDK(s)", len(discovered)),
		Details:  map[string]any{"sdks": names},
	}
}

// AssemblyCheck assembles every discovered (SDK, architecture) pair
// and reports the pairs that cannot produce a platform.
type AssemblyCheck struct {
	cfg         *config.Config
	projectRoot string
}

var _ Check = (*AssemblyCheck)(nil)

// NewAssemblyCheck creates a platform assembly check.
func NewAssemblyCheck(cfg *config.Config, projectRoot string) *AssemblyCheck {
	return &AssemblyCheck{cfg: cfg, projectRoot: projectRoot}
}

// Name returns the unique identifier for this check.
func (c *AssemblyCheck) Name() string {
	return "assembly"
}

// Category returns the grouping for this check.
func (c *AssemblyCheck) Category() string {
	return "assembly"
}

// Run executes the platform assembly check. Pairs are assembled
// sequentially so failure details stay attributable.
func (c *AssemblyCheck) Run() *CheckResult {
	logger := logging.NewDiscard()
	developerDir := c.cfg.ResolveDeveloperDir()
	if developerDir == "" {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no developer directory configured, nothing to assemble",
			FixHint:  "Set developer_dir in config.yaml or export DEVELOPER_DIR",
		}
	}

	rd := plist.NewReader(logger)
	toolchains := apple.DiscoverToolchains(developerDir, c.cfg.ExtraToolchainPaths, rd, logger)
	discovered := apple.DiscoverSDKs(developerDir, c.cfg.ExtraPlatformPaths, toolchains, rd, logger)
	pairs := apple.EnumeratePairs(discovered)
	if len(pairs) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no (SDK, architecture) pairs to assemble",
		}
	}

	swiftToolchain := apple.SelectSwiftToolchain(c.cfg, toolchains, logger)
	assembler := apple.NewAssembler(c.cfg, c.projectRoot, rd, logger)

	var flavors []string
	failures := map[string]any{}
	withoutSwift := 0
	for _, pair := range pairs {
		descriptor, err := assembler.Build(
			pair.SDK, pair.Arch, apple.MinVersion(c.cfg, pair.SDK), pair.Paths, swiftToolchain)
		if err != nil {
			failures[apple.Flavor(pair.SDK.Name, pair.Arch)] = err.Error()
			continue
		}
		flavors = append(flavors, descriptor.Flavor)
		if descriptor.Swift == nil {
			withoutSwift++
		}
	}

	if len(failures) > 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("%d of %d platform(s) failed to assemble", len(failures), len(pairs)),
			Details:  map[string]any{"failures": failures, "assembled": flavors},
			FixHint:  "Install the missing tools or fix the version metadata listed above",
		}
	}

	details := map[string]any{"platforms": flavors}
	if withoutSwift > 0 {
		details["without_swift"] = withoutSwift
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  fmt.Sprintf("assembled %d platform(s)", len(flavors)),
		Details:  details,
	}
}
