// Package export renders assembled platform descriptors in formats
// other tools consume.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Kryndex/buck/internal/apple"
)

// Format identifies an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnknownFormat indicates a format name outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a user-supplied format name to a Format. Matching
// is case-insensitive; "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Marshal encodes v in the given format. JSON is indented for
// reading; YAML and TOML use their encoders' defaults.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case JSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling json: %w", err)
		}
		return append(out, '\n'), nil
	case YAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling yaml: %w", err)
		}
		return out, nil
	case TOML:
		out, err := toml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Tool is the serialized form of one resolved tool.
type Tool struct {
	Path      string   `json:"path" yaml:"path" toml:"path"`
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty" toml:"extra_args,omitempty"`
}

// Swift is the serialized form of a platform's Swift support.
type Swift struct {
	Swiftc            Tool     `json:"swiftc" yaml:"swiftc" toml:"swiftc"`
	StdlibTool        Tool     `json:"stdlib_tool" yaml:"stdlib_tool" toml:"stdlib_tool"`
	StdlibSearchPaths []string `json:"stdlib_search_paths" yaml:"stdlib_search_paths" toml:"stdlib_search_paths"`
}

// Platform is the serializable view of one assembled descriptor. The
// sanitizers are process-level rewriting engines with no stable
// textual form; their compiler flags are carried instead.
type Platform struct {
	Flavor        string `json:"flavor" yaml:"flavor" toml:"flavor"`
	Description   string `json:"description" yaml:"description" toml:"description"`
	SDK           string `json:"sdk" yaml:"sdk" toml:"sdk"`
	SDKVersion    string `json:"sdk_version" yaml:"sdk_version" toml:"sdk_version"`
	Architecture  string `json:"architecture" yaml:"architecture" toml:"architecture"`
	MinVersion    string `json:"min_version" yaml:"min_version" toml:"min_version"`
	Version       string `json:"version" yaml:"version" toml:"version"`
	BuildVersion  string `json:"build_version,omitempty" yaml:"build_version,omitempty" toml:"build_version,omitempty"`
	BundleVersion string `json:"bundle_version,omitempty" yaml:"bundle_version,omitempty" toml:"bundle_version,omitempty"`

	SDKPath        string   `json:"sdk_path" yaml:"sdk_path" toml:"sdk_path"`
	PlatformPath   string   `json:"platform_path" yaml:"platform_path" toml:"platform_path"`
	DeveloperPath  string   `json:"developer_path,omitempty" yaml:"developer_path,omitempty" toml:"developer_path,omitempty"`
	ToolchainPaths []string `json:"toolchain_paths,omitempty" yaml:"toolchain_paths,omitempty" toml:"toolchain_paths,omitempty"`

	Tools map[string]Tool `json:"tools" yaml:"tools" toml:"tools"`
	Swift *Swift          `json:"swift,omitempty" yaml:"swift,omitempty" toml:"swift,omitempty"`

	CompilerFlags     []string          `json:"compiler_flags" yaml:"compiler_flags" toml:"compiler_flags"`
	PreprocessorFlags []string          `json:"preprocessor_flags,omitempty" yaml:"preprocessor_flags,omitempty" toml:"preprocessor_flags,omitempty"`
	LinkerFlags       []string          `json:"linker_flags" yaml:"linker_flags" toml:"linker_flags"`
	SanitizerFlags    []string          `json:"sanitizer_flags,omitempty" yaml:"sanitizer_flags,omitempty" toml:"sanitizer_flags,omitempty"`
	Macros            map[string]string `json:"macros" yaml:"macros" toml:"macros"`

	HeaderWhitelist []string `json:"header_whitelist,omitempty" yaml:"header_whitelist,omitempty" toml:"header_whitelist,omitempty"`
	StubBinary      string   `json:"stub_binary,omitempty" yaml:"stub_binary,omitempty" toml:"stub_binary,omitempty"`
	Codesign        string   `json:"codesign" yaml:"codesign" toml:"codesign"`
}

// NewPlatform flattens a descriptor into its serializable view.
func NewPlatform(d *apple.Descriptor) Platform {
	tools := map[string]Tool{
		d.Tools.Clang.Name:    {Path: d.Tools.Clang.Path},
		d.Tools.ClangXX.Name:  {Path: d.Tools.ClangXX.Path},
		d.Tools.Ar.Name:       {Path: d.Tools.Ar.Path},
		d.Tools.Ranlib.Name:   {Path: d.Tools.Ranlib.Path},
		d.Tools.Strip.Name:    {Path: d.Tools.Strip.Path},
		d.Tools.Nm.Name:       {Path: d.Tools.Nm.Path},
		d.Tools.Actool.Name:   {Path: d.Tools.Actool.Path},
		d.Tools.Ibtool.Name:   {Path: d.Tools.Ibtool.Path},
		d.Tools.Momc.Name:     {Path: d.Tools.Momc.Path},
		d.Tools.Xctest.Name:   {Path: d.Tools.Xctest.Path},
		d.Tools.Dsymutil.Name: {Path: d.Tools.Dsymutil.Path},
		d.Tools.Lipo.Name:     {Path: d.Tools.Lipo.Path},
		d.Tools.Lldb.Name:     {Path: d.Tools.Lldb.Path},
	}
	if t := d.Tools.CodesignAllocate; t != nil {
		tools[t.Name] = Tool{Path: t.Path}
	}
	if t := d.Tools.SceneKitAssets; t != nil {
		tools[t.Name] = Tool{Path: t.Path}
	}

	var swift *Swift
	if d.Swift != nil {
		swift = &Swift{
			Swiftc: Tool{
				Path:      d.Swift.Swiftc.Path,
				ExtraArgs: d.Swift.Swiftc.ExtraArgs,
			},
			StdlibTool: Tool{
				Path:      d.Swift.StdlibTool.Path,
				ExtraArgs: d.Swift.StdlibTool.ExtraArgs,
			},
			StdlibSearchPaths: d.Swift.StdlibSearchPaths,
		}
	}

	var sanitizerFlags []string
	if d.CompilerSanitizer != nil {
		sanitizerFlags = d.CompilerSanitizer.Flags()
	}

	return Platform{
		Flavor:            d.Flavor,
		Description:       d.FlavorDescription,
		SDK:               d.SDK.Name,
		SDKVersion:        d.SDK.Version,
		Architecture:      d.Architecture,
		MinVersion:        d.MinVersion,
		Version:           d.Version,
		BuildVersion:      d.BuildVersion,
		BundleVersion:     d.BundleVersion,
		SDKPath:           d.Paths.SDKPath,
		PlatformPath:      d.Paths.PlatformPath,
		DeveloperPath:     d.Paths.DeveloperPath,
		ToolchainPaths:    d.Paths.ToolchainPaths,
		Tools:             tools,
		Swift:             swift,
		CompilerFlags:     d.CompilerFlags,
		PreprocessorFlags: d.PreprocessorFlags,
		LinkerFlags:       d.LinkerFlags,
		SanitizerFlags:    sanitizerFlags,
		Macros:            d.Macros,
		HeaderWhitelist:   d.HeaderWhitelist,
		StubBinary:        d.StubBinary,
		Codesign:          d.Codesign,
	}
}
