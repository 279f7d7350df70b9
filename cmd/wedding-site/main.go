package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-site/internal/config"
)

var (
	configDir string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "wedding-site",
	Short:         "Wedding website with personalised RSVP links",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var paths []string
		if configDir != "" {
			paths = append(paths, configDir)
		}
		loaded, err := config.LoadConfig(paths...)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, linksCmd, responsesCmd, inviteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
