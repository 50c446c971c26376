package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kryndex/buck/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of applescan.`,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Print(cmd.String())
	},
}
