package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"wedding-site/internal/app"
	"wedding-site/internal/greeting"
	"wedding-site/internal/links"
	"wedding-site/internal/logging"
)

var (
	linksBase   string
	linksQRDir  string
	linksQRSize int
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print each guest's personalised RSVP link",
	Long: `Print the invitation link for every guest in the resolved guest list.

With --qr-dir a PNG QR code is written for each link, named after the guest id.`,
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().StringVar(&linksBase, "base", "", "site URL (defaults to server.base_url)")
	linksCmd.Flags().StringVar(&linksQRDir, "qr-dir", "", "write a PNG QR code per guest into this directory")
	linksCmd.Flags().IntVar(&linksQRSize, "qr-size", 256, "QR code size in pixels")
}

func runLinks(cmd *cobra.Command, args []string) error {
	a, err := app.New(cmd.Context(), cfg, logging.Console(cfg.Server.LogLevel))
	if err != nil {
		return err
	}
	defer a.Close()

	base := linksBase
	if base == "" {
		base = cfg.Server.BaseURL
	}

	ids := a.Directory.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No guests found.")
		return nil
	}
	if linksQRDir != "" {
		if err := os.MkdirAll(linksQRDir, 0755); err != nil {
			return fmt.Errorf("failed to create QR directory: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	for _, id := range ids {
		rec, _ := a.Directory.Lookup(id)
		link, err := links.InvitationURL(base, id)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", id, greeting.Format(rec.Names), link)

		if linksQRDir != "" {
			path := filepath.Join(linksQRDir, qrFileName(id))
			if err := qrcode.WriteFile(link, qrcode.Medium, linksQRSize, path); err != nil {
				return fmt.Errorf("failed to write QR code for %s: %w", id, err)
			}
		}
	}
	return nil
}

// qrFileName keeps guest ids from escaping the output directory.
func qrFileName(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	return safe + ".png"
}
