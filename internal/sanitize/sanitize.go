// Package sanitize rewrites absolute installation paths in compiler
// output so build artifacts stay byte-identical across machines.
package sanitize

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Mapping pairs a real filesystem path with the stable placeholder
// that stands in for it inside debug records.
type Mapping struct {
	Real        string
	Placeholder string
}

// Placeholders is an ordered, bijective set of path substitutions.
// Order matters: callers list more specific paths first so that a
// nested path is rewritten before its parent.
type Placeholders struct {
	mappings []Mapping
}

// NewPlaceholders validates that the substitution set is bijective:
// every real path and every placeholder appears exactly once, and
// neither side is empty.
func NewPlaceholders(mappings []Mapping) (*Placeholders, error) {
	seenReal := make(map[string]struct{}, len(mappings))
	seenPlaceholder := make(map[string]struct{}, len(mappings))

	for _, m := range mappings {
		if m.Real == "" || m.Placeholder == "" {
			return nil, errors.Newf("empty side in mapping %q -> %q", m.Real, m.Placeholder)
		}
		if _, ok := seenReal[m.Real]; ok {
			return nil, errors.Newf("duplicate source path %q", m.Real)
		}
		if _, ok := seenPlaceholder[m.Placeholder]; ok {
			return nil, errors.Newf("duplicate placeholder %q", m.Placeholder)
		}
		seenReal[m.Real] = struct{}{}
		seenPlaceholder[m.Placeholder] = struct{}{}
	}

	return &Placeholders{mappings: append([]Mapping(nil), mappings...)}, nil
}

// Mappings returns the substitutions in application order.
func (p *Placeholders) Mappings() []Mapping {
	return append([]Mapping(nil), p.mappings...)
}

// PrefixMap is the compiler-aware sanitizer: instead of rewriting
// output text it emits flags that make the compiler record the
// placeholder paths in the first place.
type PrefixMap struct {
	placeholders *Placeholders
	workingDir   string
}

// NewPrefixMap creates a PrefixMap that additionally maps workingDir
// to "." when workingDir is non-empty.
func NewPrefixMap(placeholders *Placeholders, workingDir string) *PrefixMap {
	return &PrefixMap{placeholders: placeholders, workingDir: workingDir}
}

// Flags returns one -fdebug-prefix-map argument per substitution, in
// application order, followed by the working directory mapping.
func (m *PrefixMap) Flags() []string {
	var flags []string
	for _, mapping := range m.placeholders.mappings {
		flags = append(flags, fmt.Sprintf("-fdebug-prefix-map=%s=%s", mapping.Real, mapping.Placeholder))
	}
	if m.workingDir != "" {
		flags = append(flags, fmt.Sprintf("-fdebug-prefix-map=%s=.", m.workingDir))
	}
	return flags
}

// Munging is the textual sanitizer for tools that embed paths
// verbatim. Placeholders are padded to a fixed width with path
// separators so that offsets inside the rewritten artifact do not
// move.
type Munging struct {
	pathSize     int
	placeholders *Placeholders
}

// NewMunging creates a Munging sanitizer. pathSize is the width every
// padded placeholder occupies; placeholders longer than pathSize are
// used unpadded.
func NewMunging(placeholders *Placeholders, pathSize int) *Munging {
	return &Munging{pathSize: pathSize, placeholders: placeholders}
}

// Sanitize replaces each real path in s with its padded placeholder.
func (m *Munging) Sanitize(s string) string {
	for _, mapping := range m.placeholders.mappings {
		s = strings.ReplaceAll(s, mapping.Real, m.padded(mapping.Placeholder))
	}
	return s
}

// Restore is the inverse of Sanitize.
func (m *Munging) Restore(s string) string {
	for _, mapping := range m.placeholders.mappings {
		s = strings.ReplaceAll(s, m.padded(mapping.Placeholder), mapping.Real)
	}
	return s
}

func (m *Munging) padded(placeholder string) string {
	if pad := m.pathSize - len(placeholder); pad > 0 {
		return placeholder + strings.Repeat(string(os.PathSeparator), pad)
	}
	return placeholder
}
