package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"

	"wedding-site/internal/models"
)

// ErrNoRecipient is returned by NotifyRSVP when no notify phone is configured.
var ErrNoRecipient = errors.New("no notification phone configured")

type Config struct {
	DataDir     string
	NotifyPhone string
	CountryCode string
	Couple      string
}

type Service struct {
	client *whatsmeow.Client
	cfg    *Config
	log    zerolog.Logger
}

// NewService creates a new WhatsApp service backed by a SQLite device store
// in cfg.DataDir.
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.ToSlash(filepath.Join(cfg.DataDir, "whatsmeow.db")))
	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, nil)

	service := &Service{
		client: client,
		cfg:    cfg,
		log:    log.With().Str("component", "WhatsApp").Logger(),
	}
	client.AddEventHandler(service.eventHandler)

	return service, nil
}

// Connect connects to WhatsApp. On first use a login QR code is written to out
// and Connect returns once pairing finishes.
func (s *Service) Connect(ctx context.Context, out io.Writer) error {
	if s.client.Store.ID != nil {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	for evt := range qrChan {
		if evt.Event != "code" {
			s.log.Info().Str("event", evt.Event).Msg("Login event")
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Fprintf(out, "QR Code: %s\n", evt.Code)
			continue
		}
		fmt.Fprintln(out, q.ToSmallString(false))
		fmt.Fprintln(out, "Scan the QR code above in WhatsApp > Settings > Linked Devices > Link a Device")
	}
	return nil
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// NotifyRSVP sends the couple a summary of a delivered response.
func (s *Service) NotifyRSVP(ctx context.Context, resp models.Response) error {
	if strings.TrimSpace(s.cfg.NotifyPhone) == "" {
		return ErrNoRecipient
	}
	return s.SendMessage(ctx, s.cfg.NotifyPhone, RSVPMessage(resp))
}

// SendInvitation sends a guest their personalised RSVP link.
func (s *Service) SendInvitation(ctx context.Context, phoneNumber string, guest models.GuestRecord, link string) error {
	return s.SendMessage(ctx, phoneNumber, InvitationMessage(s.cfg.Couple, guest.DisplayNames(), link))
}

// SendMessage sends a simple text message to a number that is on WhatsApp.
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber, s.cfg.CountryCode)
	if phoneNumber == "" {
		return fmt.Errorf("invalid phone number")
	}

	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}
	s.log.Info().Str("id", string(sent.ID)).Str("jid", jid.String()).Msg("Message sent")
	return nil
}

func (s *Service) eventHandler(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		if evt.Info.IsFromMe {
			return
		}
		s.log.Info().
			Str("sender", evt.Info.Sender.String()).
			Str("message", evt.Message.GetConversation()).
			Msg("Received message")
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Msg("Logged out from WhatsApp")
	}
}
