// Package cli implements the staffbot command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "staffbot",
	Short: "Community engagement economy service",
	Long: `staffbot rewards community activity — chat messages and voice
presence — with points, runs the shop redemption workflow with admin
approval, and exposes an ops HTTP API with Prometheus metrics.`,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the staffbot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("staffbot %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
