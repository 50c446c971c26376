// Package tools locates tool executables inside developer bundle
// installations.
package tools

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	scanerrors "github.com/Kryndex/buck/internal/errors"
)

// Finder locates a tool executable by name within an ordered list of
// directories.
type Finder interface {
	// Lookup returns the path of the first executable named name found
	// in dirs, honoring directory order. The search is non-recursive.
	Lookup(name string, dirs []string) (string, bool)
}

// ExecFinder is the filesystem-backed Finder. A candidate matches when
// it is a regular file with an executable bit set; anything else
// (directories, dangling symlinks, plain data files) is skipped.
type ExecFinder struct{}

// Lookup implements Finder.
func (ExecFinder) Lookup(name string, dirs []string) (string, bool) {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return candidate, true
	}
	return "", false
}

// Require resolves a tool that a platform cannot function without.
// The returned error wraps ErrToolNotFound and names the tool and
// every searched directory, so a user can see exactly where the
// installation was probed.
func Require(f Finder, name string, dirs []string) (string, error) {
	path, ok := f.Lookup(name, dirs)
	if !ok {
		return "", errors.Wrapf(scanerrors.ErrToolNotFound,
			"cannot find tool %q in search path [%s]", name, strings.Join(dirs, ", "))
	}
	return path, nil
}

// VersionedTool couples a resolved executable with the logical name
// and version it contributes to a rule key, plus any arguments that
// must always precede the caller's own.
type VersionedTool struct {
	Path      string
	Name      string
	Version   string
	ExtraArgs []string
}
