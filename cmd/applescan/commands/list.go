package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Kryndex/buck/internal/apple"
	"github.com/Kryndex/buck/internal/export"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assembled build platforms",
	Long: `List every build platform assembled from the installed SDKs and
toolchains, one line per (SDK, architecture) pair.

Examples:
  # List all platforms
  applescan list

  # Output as JSON for other tools
  applescan list --json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(cmd, os.Stdout)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(cmd *cobra.Command, w io.Writer) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	descriptors := apple.BuildPlatforms(currentConfig(), root, commandLogger(cmd))

	if listJSON {
		return outputListJSON(w, descriptors)
	}
	return outputListTable(w, descriptors)
}

func outputListJSON(w io.Writer, descriptors []*apple.Descriptor) error {
	platforms := make([]export.Platform, 0, len(descriptors))
	for _, d := range descriptors {
		platforms = append(platforms, export.NewPlatform(d))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(platforms)
}

func outputListTable(w io.Writer, descriptors []*apple.Descriptor) error {
	if len(descriptors) == 0 {
		fmt.Fprintln(w, "No platforms discovered.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		bold("FLAVOR"), bold("SDK"), bold("ARCH"), bold("VERSION"), bold("MIN OS"))

	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			color.GreenString(d.Flavor),
			d.SDK.Name,
			d.Architecture,
			d.Version,
			d.MinVersion)
	}

	return tw.Flush()
}
