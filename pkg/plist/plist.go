// Package plist reads fields from Apple property list documents.
package plist

import (
	"log/slog"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	hplist "howett.net/plist"

	"github.com/Kryndex/buck/pkg/fileutil"
)

// cacheSize bounds the number of parsed documents held in memory.
// An installation reuses the same version.plist across every
// (SDK, architecture) pair, so a small cache eliminates nearly all
// repeat parses within one run.
const cacheSize = 128

// Reader parses property list files and answers point queries about
// their top-level fields. All failure modes (missing file, malformed
// document, absent key, non-string value) report absence rather than
// an error; parse problems are logged at Warn level once per path.
type Reader struct {
	cache  *lru.Cache[string, map[string]any]
	logger *slog.Logger
}

// NewReader creates a Reader that logs parse problems to logger.
func NewReader(logger *slog.Logger) *Reader {
	cache, err := lru.New[string, map[string]any](cacheSize)
	if err != nil {
		// lru.New fails only for a non-positive size.
		panic(err)
	}
	return &Reader{cache: cache, logger: logger}
}

// Dict returns the top-level dictionary of the property list at path.
// The boolean reports whether a document was loaded; a missing or
// malformed file yields (nil, false). Results, including negative
// ones, are cached by absolute path.
func (r *Reader) Dict(path string) (map[string]any, bool) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	if doc, ok := r.cache.Get(key); ok {
		return doc, doc != nil
	}

	doc := r.load(path)
	r.cache.Add(key, doc)
	return doc, doc != nil
}

// Field returns the string value of a top-level key in the property
// list at path. Absent files, malformed documents, missing keys and
// non-string values all report ("", false).
func (r *Reader) Field(path, key string) (string, bool) {
	doc, ok := r.Dict(path)
	if !ok {
		return "", false
	}

	raw, ok := doc[key]
	if !ok {
		return "", false
	}

	s, ok := raw.(string)
	if !ok {
		r.logger.Warn("property list field is not a string", "path", path, "key", key)
		return "", false
	}
	return s, true
}

func (r *Reader) load(path string) map[string]any {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		r.logger.Warn("cannot read property list", "path", path, "error", err)
		return nil
	}

	var doc map[string]any
	if _, err := hplist.Unmarshal(data, &doc); err != nil {
		r.logger.Warn("cannot parse property list", "path", path, "error", err)
		return nil
	}
	return doc
}
