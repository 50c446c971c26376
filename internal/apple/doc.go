// Package apple discovers Apple developer bundle installations and
// assembles build platform descriptors from them.
//
// Discovery scans an installation root (an Xcode-like hierarchy) for
// toolchain and SDK bundles, tolerating missing or malformed metadata.
// For every (SDK, architecture) pair the [Assembler] resolves a full
// tool set across a precedence-ordered search path, computes the
// composite version fingerprint, and freezes the result into an
// immutable [Descriptor] consumed by the rule-execution layer.
//
// The usual entry point is [BuildPlatforms], which runs discovery and
// fans assembly out across a bounded worker pool:
//
//	descriptors := apple.BuildPlatforms(cfg, projectRoot, logger)
//	for _, d := range descriptors {
//		fmt.Println(d.Flavor, d.Version)
//	}
//
// A failure in one pair (a missing required tool, an unresolvable
// version) never affects another pair; an absent installation yields
// an empty list rather than an error.
package apple
