package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spendwise",
	Short: "SpendWise shared expense server",
	Long: `SpendWise tracks expenses shared between friends.

It serves the Connect API for friends and settlements, pushes
notifications over websockets and exports Prometheus metrics.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
