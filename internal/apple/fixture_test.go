package apple

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kryndex/buck/internal/paths"
)

// installBuilder writes a synthetic developer bundle installation:
//
//	<tmp>/Bundle.app/Contents/Developer/Toolchains/<name>.xctoolchain/
//	<tmp>/Bundle.app/Contents/Developer/Platforms/<name>.platform/Developer/SDKs/<name>.sdk/
//	<tmp>/Bundle.app/Contents/version.plist
//	<tmp>/Bundle.app/Contents/Info.plist
type installBuilder struct {
	t    *testing.T
	root string
}

func newInstall(t *testing.T) *installBuilder {
	t.Helper()
	return &installBuilder{
		t:    t,
		root: filepath.Join(t.TempDir(), "Bundle.app", "Contents"),
	}
}

// developerDir is the installation root handed to discovery.
func (b *installBuilder) developerDir() string {
	return filepath.Join(b.root, "Developer")
}

// addToolchain writes one toolchain bundle and returns its path.
// version may be empty for toolchains that declare none.
func (b *installBuilder) addToolchain(name, identifier, version string) string {
	b.t.Helper()
	dir := filepath.Join(paths.ToolchainsDir(b.developerDir()), name+".xctoolchain")
	fields := []plistField{{key: "Identifier", value: identifier}}
	if version != "" {
		fields = append(fields, plistField{key: "Version", value: version})
	}
	b.writeFile(paths.ToolchainInfo(dir), plistDoc(fields...))
	return dir
}

// addSDK writes one SDK bundle under the named platform and returns
// its path. Empty or nil arguments leave the corresponding settings
// field out.
func (b *installBuilder) addSDK(platformBundle, sdkDirName, canonicalName, version string, archs, toolchainIDs []string) string {
	b.t.Helper()
	platformDir := filepath.Join(paths.PlatformsDir(b.developerDir()), platformBundle+".platform")
	dir := filepath.Join(paths.SDKsDir(platformDir), sdkDirName+".sdk")

	var fields []plistField
	if canonicalName != "" {
		fields = append(fields, plistField{key: "CanonicalName", value: canonicalName})
	}
	if version != "" {
		fields = append(fields, plistField{key: "Version", value: version})
	}
	if archs != nil {
		fields = append(fields, plistField{key: "Architectures", value: archs})
	}
	if toolchainIDs != nil {
		fields = append(fields, plistField{key: "Toolchains", value: toolchainIDs})
	}
	b.writeFile(paths.SDKSettings(dir), plistDoc(fields...))
	return dir
}

func (b *installBuilder) platformPath(platformBundle string) string {
	return filepath.Join(paths.PlatformsDir(b.developerDir()), platformBundle+".platform")
}

func (b *installBuilder) setBuildVersion(version string) {
	b.t.Helper()
	b.writeFile(filepath.Join(b.root, paths.VersionPlistName),
		plistDoc(plistField{key: "ProductBuildVersion", value: version}))
}

func (b *installBuilder) setBundleVersion(version string) {
	b.t.Helper()
	b.writeFile(filepath.Join(b.root, paths.InfoPlistName),
		plistDoc(plistField{key: "CFBundleShortVersionString", value: version}))
}

func (b *installBuilder) setPlatformBuildVersion(platformBundle, version string) {
	b.t.Helper()
	b.writeFile(paths.PlatformVersionPlist(b.platformPath(platformBundle)),
		plistDoc(plistField{key: "ProductBuildVersion", value: version}))
}

// addTools drops executable stubs with the given names into dir.
func (b *installBuilder) addTools(dir string, names ...string) {
	b.t.Helper()
	for _, name := range names {
		b.writeExecutable(filepath.Join(dir, name))
	}
}

func (b *installBuilder) writeExecutable(path string) {
	b.t.Helper()
	b.mkdirAll(filepath.Dir(path))
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		b.t.Fatal(err)
	}
}

func (b *installBuilder) writeFile(path, content string) {
	b.t.Helper()
	b.mkdirAll(filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		b.t.Fatal(err)
	}
}

func (b *installBuilder) mkdirAll(dir string) {
	b.t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.t.Fatal(err)
	}
}

// requiredToolNames are the executables every platform needs resolved.
var requiredToolNames = []string{
	"clang", "clang++", "ar", "ranlib", "strip", "nm",
	"actool", "ibtool", "momc", "xctest", "dsymutil", "lipo", "lldb",
}

// plistField is one key/value entry in a rendered property list.
// value is a string or a []string.
type plistField struct {
	key   string
	value any
}

// plistDoc renders a minimal XML property list with the fields in the
// given order.
func plistDoc(fields ...plistField) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	sb.WriteString(`<plist version="1.0">` + "\n<dict>\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "\t<key>%s</key>\n", f.key)
		switch v := f.value.(type) {
		case string:
			fmt.Fprintf(&sb, "\t<string>%s</string>\n", v)
		case []string:
			sb.WriteString("\t<array>\n")
			for _, el := range v {
				fmt.Fprintf(&sb, "\t\t<string>%s</string>\n", el)
			}
			sb.WriteString("\t</array>\n")
		default:
			panic(fmt.Sprintf("unsupported plist field type %T", f.value))
		}
	}
	sb.WriteString("</dict>\n</plist>\n")
	return sb.String()
}
