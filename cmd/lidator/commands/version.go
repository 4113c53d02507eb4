package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/lidator/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and Go version of lidator.`,
	Run: func(c *cobra.Command, _ []string) {
		w := c.OutOrStdout()
		fmt.Fprintf(w, "lidator version %s\n", cmd.ResolvedVersion())
		fmt.Fprintf(w, "  commit:  %s\n", cmd.Commit)
		fmt.Fprintf(w, "  built:   %s\n", cmd.Date)
		fmt.Fprintf(w, "  go:      %s\n", runtime.Version())
	},
}
