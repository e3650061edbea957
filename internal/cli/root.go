// Package cli provides the command-line interface for redsift.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gwalsh/redsift/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "redsift",
	Short: "Search subreddits for keyword matches",
	Long: "redsift fetches posts from a set of subreddits, filters them by keyword,\n" +
		"logs every search, and exports or visualizes the results.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		godotenv.Load()
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		if configDir == "" {
			dir, err := config.Dir()
			if err != nil {
				return err
			}
			configDir = dir
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("redsift %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.redsift)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
