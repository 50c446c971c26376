package apple

import "testing"

func TestFlavor(t *testing.T) {
	tests := []struct {
		sdkName string
		arch    string
		want    string
	}{
		{"iphoneos10.0", "arm64", "iphoneos10.0-arm64"},
		{"watchos3.0", "armv7k", "watchos3.0-armv7k"},
		{"macosx10.12", "x86_64", "macosx10.12-x86_64"},
		{"odd name+1.0", "arm64", "odd_name_1.0-arm64"},
		{"tab\tsdk1.0", "arm/64", "tab_sdk1.0-arm_64"},
	}

	for _, tt := range tests {
		if got := Flavor(tt.sdkName, tt.arch); got != tt.want {
			t.Errorf("Flavor(%q, %q) = %q, want %q", tt.sdkName, tt.arch, got, tt.want)
		}
	}
}

// The same inputs always produce the same flavor.
func TestFlavorDeterministic(t *testing.T) {
	first := Flavor("iphoneos10.0", "arm64")
	for range 100 {
		if got := Flavor("iphoneos10.0", "arm64"); got != first {
			t.Fatalf("Flavor changed between calls: %q then %q", first, got)
		}
	}
}

func TestFlavorDescription(t *testing.T) {
	got := FlavorDescription("iphoneos10.0", "arm64")
	want := "SDK: iphoneos10.0, architecture: arm64"
	if got != want {
		t.Errorf("FlavorDescription = %q, want %q", got, want)
	}
}
