package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "artfolio",
	Short: "Art portfolio backend",
	Long: `artfolio serves the public portfolio API and the admin endpoints
used to manage artworks, projects, the gallery, the theme and the profile.

Configuration is read from environment variables, see internal/config.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
