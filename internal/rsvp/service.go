package rsvp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"wedding-site/internal/metrics"
	"wedding-site/internal/models"
)

// Journal keeps a local copy of delivered responses.
type Journal interface {
	Record(ctx context.Context, resp models.Response) error
}

// Notifier tells the couple about a new response.
type Notifier interface {
	NotifyRSVP(ctx context.Context, resp models.Response) error
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Collaborator Collaborator
	Journal      Journal
	Notifier     Notifier
	Timeout      time.Duration
	Logger       zerolog.Logger
}

// Service delivers submissions to the collaborator. Identical payloads that
// arrive while one is pending share a single outbound request.
type Service struct {
	collaborator Collaborator
	journal      Journal
	notifier     Notifier
	timeout      time.Duration
	log          zerolog.Logger
	group        singleflight.Group
	now          func() time.Time
	background   func(func())
}

// NewService creates a new RSVP delivery service
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		collaborator: cfg.Collaborator,
		journal:      cfg.Journal,
		notifier:     cfg.Notifier,
		timeout:      timeout,
		log:          cfg.Logger.With().Str("component", "RSVP").Logger(),
		now:          time.Now,
		background:   func(fn func()) { go fn() },
	}
}

// Submit delivers sub. The outbound request is detached from ctx's
// cancellation so a visitor leaving the page doesn't abort it.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	key := sub.Payload.Fingerprint()
	_, err, shared := s.group.Do(key, func() (interface{}, error) {
		return nil, s.deliver(ctx, sub)
	})
	if shared {
		metrics.RSVPSubmissions.WithLabelValues(metrics.SubmissionDuplicate).Inc()
	}
	return err
}

func (s *Service) deliver(ctx context.Context, sub Submission) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	err := s.collaborator.Deliver(ctx, sub.Payload)
	metrics.RSVPLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RSVPSubmissions.WithLabelValues(metrics.SubmissionFailure).Inc()
		s.log.Error().Err(err).Str("guest_id", sub.GuestID).Msg("RSVP delivery failed")
		return err
	}
	metrics.RSVPSubmissions.WithLabelValues(metrics.SubmissionSuccess).Inc()
	s.log.Info().
		Str("guest_id", sub.GuestID).
		Str("attendance", string(sub.Payload.Attendance)).
		Msg("RSVP delivered")

	resp := s.response(sub)
	if s.journal != nil {
		if err := s.journal.Record(ctx, resp); err != nil {
			s.log.Warn().Err(err).Str("id", resp.ID).Msg("Failed to journal RSVP")
		}
	}
	if s.notifier != nil {
		s.background(func() { s.notify(resp) })
	}
	return nil
}

func (s *Service) notify(resp models.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.notifier.NotifyRSVP(ctx, resp); err != nil {
		s.log.Warn().Err(err).Str("id", resp.ID).Msg("Failed to notify about RSVP")
	}
}

func (s *Service) response(sub Submission) models.Response {
	p := sub.Payload
	return models.Response{
		ID:                  uuid.NewString(),
		GuestID:             sub.GuestID,
		Name:                p.Name,
		Email:               p.Email,
		Attendance:          p.Attendance,
		Meals:               p.Meals,
		DietaryRestrictions: p.DietaryRestrictions,
		SongRequest:         p.SongRequest,
		SubmittedAt:         s.now().UTC(),
	}
}
