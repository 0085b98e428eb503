package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via ldflags.
var Version = "development"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("telegem %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
