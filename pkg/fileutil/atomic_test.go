package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{name: "text", data: []byte("developer_dir: /opt/Developer\n"), perm: 0o644},
		{name: "empty", data: []byte{}, perm: 0o644},
		{name: "binary", data: []byte{0x62, 0x70, 0x6c, 0x69, 0x73, 0x74, 0x00}, perm: 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				if err != nil {
					t.Fatalf("stat: %v", err)
				}
				if info.Mode().Perm() != tt.perm {
					t.Errorf("perm = %v, want %v", info.Mode().Perm(), tt.perm)
				}
			}
		})
	}
}

func TestAtomicWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out")

	if err := AtomicWriteFile(path, []byte("x"), 0o644); err == nil {
		t.Error("expected error for a nonexistent parent directory")
	}
}

func TestAtomicWriteFile_OverwriteKeepsNewContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := AtomicWriteFile(path, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("version: 2\n"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(got) != "version: 2\n" {
		t.Errorf("content = %q, want %q", got, "version: 2\n")
	}
}

func TestAtomicWriteFile_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	if err := AtomicWriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".applescan-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want only the target file", len(entries))
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	value := map[string]any{
		"version":       1,
		"developer_dir": "/opt/Developer",
		"target_sdk_versions": map[string]string{
			"iphoneos": "9.0",
		},
	}
	if err := AtomicWriteYAML(path, value); err != nil {
		t.Fatalf("AtomicWriteYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("YAML output should end with a newline")
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if decoded["developer_dir"] != "/opt/Developer" {
		t.Errorf("developer_dir = %v, want %q", decoded["developer_dir"], "/opt/Developer")
	}
}

func TestAtomicWriteYAML_UnmarshalableValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	// Channels cannot be marshaled; the panic must surface as an error.
	if err := AtomicWriteYAML(path, map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("expected error for an unmarshalable value")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written when marshaling fails")
	}
}

func TestAtomicWriteYAMLWithPerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := AtomicWriteYAMLWithPerm(path, map[string]int{"version": 1}, 0o600); err != nil {
		t.Fatalf("AtomicWriteYAMLWithPerm: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", info.Mode().Perm())
	}
}
