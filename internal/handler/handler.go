// Package handler serves the wedding page and its JSON API.
package handler

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"wedding-site/internal/content"
	"wedding-site/internal/guests"
	"wedding-site/internal/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Config carries the collaborators a Handler needs.
type Config struct {
	Directory     *guests.Directory
	Content       *content.Content
	Sessions      *sessions.Store
	SessionTTL    time.Duration
	SecureCookies bool
	Logger        zerolog.Logger
}

// Handler serves the page and API endpoints.
type Handler struct {
	directory  *guests.Directory
	content    *content.Content
	sessions   *sessions.Store
	sessionTTL time.Duration
	secure     bool
	log        zerolog.Logger
	templates  *template.Template
	now        func() time.Time
}

// New parses the embedded templates and returns a Handler.
func New(cfg Config) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Handler{
		directory:  cfg.Directory,
		content:    cfg.Content,
		sessions:   cfg.Sessions,
		sessionTTL: ttl,
		secure:     cfg.SecureCookies,
		log:        cfg.Logger.With().Str("component", "HTTP").Logger(),
		templates:  tmpl,
		now:        time.Now,
	}, nil
}

// Static serves the embedded script and stylesheet.
func (h *Handler) Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
