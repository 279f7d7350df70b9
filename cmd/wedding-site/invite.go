package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wedding-site/internal/app"
	"wedding-site/internal/links"
	"wedding-site/internal/logging"
)

var inviteCmd = &cobra.Command{
	Use:   "invite [id...]",
	Short: "Send guests their RSVP link over WhatsApp",
	Long: `Send each guest their personalised RSVP link over WhatsApp.

Without arguments every guest with a phone number is invited.`,
	RunE: runInvite,
}

func runInvite(cmd *cobra.Command, args []string) error {
	log := logging.Console(cfg.Server.LogLevel)
	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ConnectWhatsApp(cmd.Context(), cmd.OutOrStdout()); err != nil {
		return err
	}

	ids := args
	if len(ids) == 0 {
		ids = a.Directory.IDs()
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, id := range ids {
		rec, ok := a.Directory.Lookup(id)
		if !ok {
			fmt.Fprintf(out, "❌ %s: not in guest list\n", id)
			failed++
			continue
		}
		if rec.Phone == "" {
			fmt.Fprintf(out, "– %s: no phone number, skipped\n", id)
			continue
		}
		link, err := links.InvitationURL(cfg.Server.BaseURL, id)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if err := a.WhatsApp.SendInvitation(cmd.Context(), rec.Phone, rec, link); err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "✅ %s: invitation sent\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d invitation(s) failed", failed)
	}
	return nil
}
