package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/Kryndex/buck/internal/apple"
	"github.com/Kryndex/buck/internal/errors"
	"github.com/Kryndex/buck/internal/export"
	"github.com/Kryndex/buck/internal/logging"
)

var showFormat string

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "yaml",
		"output format: json, yaml, toml")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [flavor]",
	Short: "Show one platform descriptor",
	Long: `Show the full descriptor of a single build platform: flags, tool
paths, version fingerprints, sanitizer mappings, and macros.

Without a flavor argument, an interactive fuzzy selector opens with a
preview of each descriptor. The selector requires a terminal.

Examples:
  # Show a platform as YAML (the default)
  applescan show iphoneos10.0-arm64

  # Show a platform as JSON
  applescan show iphoneos10.0-arm64 --format json

  # Pick interactively
  applescan show`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	return runShowWithWriter(cmd, os.Stdout, args)
}

// runShowWithWriter allows injecting a writer for testing.
func runShowWithWriter(cmd *cobra.Command, w io.Writer, args []string) error {
	format, err := export.ParseFormat(showFormat)
	if err != nil {
		return errors.NewUserError(err, "Valid formats: json, yaml, toml")
	}

	root, err := projectRoot()
	if err != nil {
		return err
	}

	descriptors := apple.BuildPlatforms(currentConfig(), root, commandLogger(cmd))

	var descriptor *apple.Descriptor
	if len(args) == 1 {
		descriptor, err = findFlavor(descriptors, args[0])
	} else {
		if !logging.IsTTY(os.Stdin) {
			return errors.NewUserError(nil,
				"Provide a flavor argument when not running interactively (see: applescan list)")
		}
		if len(descriptors) == 0 {
			fmt.Fprintln(w, "No platforms discovered.")
			return nil
		}
		descriptor, err = pickFlavor(descriptors)
	}
	if err != nil {
		return err
	}
	if descriptor == nil {
		// Selector aborted.
		return nil
	}

	out, err := export.Marshal(export.NewPlatform(descriptor), format)
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return errors.Wrap(err, "writing descriptor")
}

func findFlavor(descriptors []*apple.Descriptor, flavor string) (*apple.Descriptor, error) {
	for _, d := range descriptors {
		if d.Flavor == flavor {
			return d, nil
		}
	}
	return nil, errors.NewUserError(
		errors.Wrapf(errors.ErrNotFound, "platform %q", flavor),
		"Run: applescan list")
}

// pickFlavor runs the interactive fuzzy selector over the assembled
// platforms with a YAML preview of each descriptor.
func pickFlavor(descriptors []*apple.Descriptor) (*apple.Descriptor, error) {
	idx, err := fuzzyfinder.Find(
		descriptors,
		func(i int) string {
			return descriptors[i].Flavor
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			out, err := export.Marshal(export.NewPlatform(descriptors[i]), export.YAML)
			if err != nil {
				return err.Error()
			}
			return string(out)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	return descriptors[idx], nil
}
