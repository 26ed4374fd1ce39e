package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "90plus",
	Short: "90Plus API server",
	Long:  "90Plus manages football clubs: coaches run a club, invite players, build teams and record games with ratings, MVPs and photos.",
	// Without a subcommand the binary serves, which is how the Lambda runtime starts it.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
