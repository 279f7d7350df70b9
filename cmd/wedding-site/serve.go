package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wedding-site/internal/app"
	"wedding-site/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wedding website",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New(cfg.Server.LogLevel, os.Stdout)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.WhatsApp != nil {
		// Pairing blocks until the QR code is scanned.
		if err := a.ConnectWhatsApp(ctx, cmd.OutOrStdout()); err != nil {
			log.Warn().Err(err).Msg("WhatsApp unavailable, RSVP notifications disabled")
		}
	}

	srv, err := a.Server()
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
