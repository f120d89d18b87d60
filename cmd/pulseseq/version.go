package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pulseseq version.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("pulseseq version %v\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
