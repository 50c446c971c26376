// Package plist provides tolerant point reads over Apple property list
// files in any of the formats the ecosystem ships (XML, binary,
// OpenStep text).
//
// The package is built for metadata that is frequently absent or only
// partially populated: every failure mode degrades to "value absent"
// with a structured warning instead of an error, so callers can treat
// optional metadata uniformly.
//
//	rd := plist.NewReader(logger)
//	if build, ok := rd.Field("/path/version.plist", "ProductBuildVersion"); ok {
//		// use build
//	}
//
// Parsed documents are cached per absolute path, so repeated queries
// against the same file cost one parse.
package plist
