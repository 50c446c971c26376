package apple

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	scanerrors "github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/paths"
)

// buildVersionKey names the installation build number field in a
// bundle's version.plist.
const buildVersionKey = "ProductBuildVersion"

// FieldReader is the slice of the property list reader the version
// cache needs. Satisfied by *plist.Reader.
type FieldReader interface {
	Field(path, key string) (string, bool)
}

// BuildVersionCache memoizes the installation build version per
// developer directory. Safe for concurrent use; a racing pair of
// lookups may both read the plist, but every caller observes the
// value stored first.
type BuildVersionCache struct {
	reader FieldReader
	memo   sync.Map // developer dir -> build version, "" when absent
}

// NewBuildVersionCache creates a cache that reads through rd.
func NewBuildVersionCache(rd FieldReader) *BuildVersionCache {
	return &BuildVersionCache{reader: rd}
}

// Lookup returns the build version recorded beside the developer
// directory, or "" when the installation does not declare one. The
// plist is read at most once per directory in sequential use.
func (c *BuildVersionCache) Lookup(developerDir string) string {
	if v, ok := c.memo.Load(developerDir); ok {
		return v.(string)
	}
	version, _ := c.reader.Field(paths.InstallVersionPlist(developerDir), buildVersionKey)
	actual, _ := c.memo.LoadOrStore(developerDir, version)
	return actual.(string)
}

// compositeVersion derives the version fingerprint for one SDK: the
// SDK version followed by every toolchain-declared version, in
// toolchain order, joined with ':'. When no toolchain declares a
// version the installation build version stands in; when that is also
// unavailable the SDK has no usable version source and its platforms
// cannot be assembled.
func compositeVersion(sdk SDK, cache *BuildVersionCache, developerDir string) (string, error) {
	parts := []string{sdk.Version}

	declared := false
	for _, tc := range sdk.Toolchains {
		if tc.Version != "" {
			parts = append(parts, tc.Version)
			declared = true
		}
	}

	if !declared {
		buildVersion := ""
		if developerDir != "" {
			buildVersion = cache.Lookup(developerDir)
		}
		if buildVersion == "" {
			return "", errors.Wrapf(scanerrors.ErrVersionUnresolved, "SDK %s", sdk.Name)
		}
		parts = append(parts, buildVersion)
	}

	return strings.Join(parts, ":"), nil
}
