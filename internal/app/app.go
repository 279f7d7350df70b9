// Package app builds the long-lived collaborators shared by the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"wedding-site/internal/config"
	"wedding-site/internal/content"
	"wedding-site/internal/guests"
	"wedding-site/internal/handler"
	"wedding-site/internal/logging"
	"wedding-site/internal/ratelimit"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/server"
	"wedding-site/internal/sessions"
	"wedding-site/internal/storage"
	"wedding-site/internal/whatsapp"
)

// ErrWhatsAppDisabled is returned by commands that need WhatsApp when it is
// not enabled in config.
var ErrWhatsAppDisabled = errors.New("whatsapp is disabled (set whatsapp.enabled)")

// App is the application context.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Directory *guests.Directory
	Content   *content.Content
	Service   *rsvp.Service
	Journal   *storage.Storage
	WhatsApp  *whatsapp.Service
	Sessions  *sessions.Store
}

// New resolves the guest list and content and opens the optional journal
// and WhatsApp store.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	a.Directory = guests.Resolve(logging.Component(log, "Guests"), guestSources(cfg)...)

	c, err := content.Load(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	a.Content = c

	if cfg.Storage.Enabled {
		a.Journal, err = storage.NewStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
	}

	if cfg.WhatsApp.Enabled {
		a.WhatsApp, err = whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:     cfg.WhatsApp.DataDir,
			NotifyPhone: cfg.WhatsApp.NotifyPhone,
			CountryCode: cfg.WhatsApp.CountryCode,
			Couple:      c.CoupleNames(),
		}, log)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	svcCfg := rsvp.ServiceConfig{
		Collaborator: rsvp.NewHTTPCollaborator(cfg.RSVP.Endpoint, cfg.RSVP.Timeout),
		Timeout:      cfg.RSVP.Timeout,
		Logger:       log,
	}
	if a.Journal != nil {
		svcCfg.Journal = a.Journal
	}
	if a.WhatsApp != nil && strings.TrimSpace(cfg.WhatsApp.NotifyPhone) != "" {
		svcCfg.Notifier = a.WhatsApp
	}
	a.Service = rsvp.NewService(svcCfg)

	a.Sessions = sessions.New(cfg.Sessions.TTL, cfg.Sessions.CleanupInterval, a.NewForm, sessions.WithLimit(cfg.Sessions.Max))
	return a, nil
}

func guestSources(cfg *config.Config) []guests.Source {
	var srcs []guests.Source
	if cfg.Guests.EnvVar != "" {
		srcs = append(srcs, guests.NewEnvSource(cfg.Guests.EnvVar))
	}
	if cfg.Guests.File != "" {
		srcs = append(srcs, guests.FileSource{Path: cfg.Guests.File})
	}
	return append(srcs, guests.NewStaticSource())
}

// NewForm returns an empty RSVP form bound to the delivery service.
func (a *App) NewForm() *rsvp.Form {
	return rsvp.NewForm(a.Service,
		rsvp.WithMenu(a.Content.Menu),
		rsvp.WithCelebration(a.Config.RSVP.Celebration),
	)
}

// Server builds the HTTP server.
func (a *App) Server() (*server.Server, error) {
	h, err := handler.New(handler.Config{
		Directory:     a.Directory,
		Content:       a.Content,
		Sessions:      a.Sessions,
		SessionTTL:    a.Config.Sessions.TTL,
		SecureCookies: a.Config.Server.SecureCookies,
		Logger:        a.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build handler: %w", err)
	}
	return server.New(server.Config{
		Addr:            a.Config.Addr(),
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
		RateLimit: ratelimit.Config{
			RequestsPerWindow: int64(a.Config.RSVP.RateLimit.Requests),
			Window:            a.Config.RSVP.RateLimit.Window,
			TrustProxy:        a.Config.Server.TrustProxy,
		},
	}, h, a.Logger), nil
}

// ConnectWhatsApp logs in to WhatsApp, printing a pairing QR code to out on
// first use.
func (a *App) ConnectWhatsApp(ctx context.Context, out io.Writer) error {
	if a.WhatsApp == nil {
		return ErrWhatsAppDisabled
	}
	return a.WhatsApp.Connect(ctx, out)
}

// Close releases sessions, the journal and the WhatsApp connection.
func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.WhatsApp != nil {
		a.WhatsApp.Disconnect()
	}
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}
