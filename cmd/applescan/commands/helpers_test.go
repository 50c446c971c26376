package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kryndex/buck/internal/config"
)

func writeFixtureFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeFixtureTool(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func plistDict(pairs ...string) string {
	body := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		body += fmt.Sprintf("\t<key>%s</key>\n\t<string>%s</string>\n", pairs[i], pairs[i+1])
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
` + body + `</dict>
</plist>
`
}

// scannableInstall writes an installation with one versioned toolchain
// carrying every required tool and one iPhoneOS SDK. Assembly yields
// the default architectures, so two platforms come out of it.
func scannableInstall(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Contents", "Developer")

	tc := filepath.Join(root, "Toolchains", "XcodeDefault.xctoolchain")
	writeFixtureFile(t, filepath.Join(tc, "ToolchainInfo.plist"),
		plistDict("Identifier", "com.apple.dt.toolchain.XcodeDefault", "Version", "8B62"))
	for _, name := range []string{
		"clang", "clang++", "ar", "ranlib", "strip", "nm",
		"actool", "ibtool", "momc", "xctest", "dsymutil", "lipo", "lldb",
	} {
		writeFixtureTool(t, filepath.Join(tc, "usr", "bin", name))
	}

	sdk := filepath.Join(root, "Platforms", "iPhoneOS.platform", "Developer", "SDKs", "iPhoneOS10.0.sdk")
	writeFixtureFile(t, filepath.Join(sdk, "SDKSettings.plist"),
		plistDict("CanonicalName", "iphoneos10.0", "Version", "10.0"))

	return root
}

// withConfig installs cfg as the loaded configuration for the duration
// of the test.
func withConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	orig := loadedConfig
	loadedConfig = cfg
	t.Cleanup(func() { loadedConfig = orig })
}
