package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "0.0.0"

func newRootCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of dumpview",
		Long:  ``,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dumpview version: %s\n", Version)
		},
	}

	rootCmd.AddCommand(versionCmd)
	return rootCmd
}

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
