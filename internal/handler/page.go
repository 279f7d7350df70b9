package handler

import (
	"net/http"
	"strings"
	"time"

	"wedding-site/internal/content"
	"wedding-site/internal/greeting"
	"wedding-site/internal/links"
	"wedding-site/internal/metrics"
	"wedding-site/internal/models"
	"wedding-site/internal/phases"
	"wedding-site/internal/prefs"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/sessions"
)

// bootstrap is handed to the page script as JSON.
type bootstrap struct {
	ReplaceURL string          `json:"replaceUrl,omitempty"`
	Ceremony   time.Time       `json:"ceremony"`
	Splash     phases.Sequence `json:"splash,omitempty"`
	Theme      prefs.Theme     `json:"theme"`
	Menu       rsvp.Menu       `json:"menu"`
}

type guestRow struct {
	Index   int
	Name    string
	Starter string
	Main    string
}

type pageData struct {
	Content    *content.Content
	Couple     string
	Greeting   string
	Countdown  content.Remaining
	Theme      prefs.Theme
	ShowSplash bool
	Form       models.RSVP
	FormState  rsvp.State
	Message    string
	Rows       []guestRow
	Attending  bool
	Menu       rsvp.Menu
	Boot       bootstrap
}

// Page renders the single page. A guest id in the query pre-fills the form and
// the greeting; it is then removed from the address bar.
//
// A session is only started when there is pre-fill to keep or the visitor
// already has one. Anonymous visitors get a session on their first POST.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	var (
		names []string
		rec   models.GuestRecord
		hit   bool
	)
	guestID, hasID := links.ExtractGuestID(r.URL)
	switch {
	case !hasID:
		metrics.GuestLookups.WithLabelValues(metrics.LookupAbsent).Inc()
	default:
		rec, hit = h.directory.Lookup(guestID)
		if !hit {
			metrics.GuestLookups.WithLabelValues(metrics.LookupMiss).Inc()
			h.log.Debug().Str("guest_id", guestID).Msg("Unknown guest id")
			break
		}
		metrics.GuestLookups.WithLabelValues(metrics.LookupHit).Inc()
		names = rec.Names
	}
	prefill := links.LegacyPrefill(r.URL)

	snap := rsvp.Outcome{State: rsvp.StateIdle}
	if sid := sessions.ReadID(r); hit || prefill.Email != "" || h.sessions.Has(sid) {
		id, form := h.sessions.Begin(sid)
		sessions.WriteID(w, id, h.sessionTTL, h.secure)
		if hit {
			form.Prefill(guestID, rec)
		}
		if prefill.Email != "" {
			form.PrefillEmail(prefill.Email)
		}
		snap = form.Snapshot()
	}

	theme := prefs.ThemeFrom(r)
	showSplash := !prefs.SplashCompleted(r)

	boot := bootstrap{
		Ceremony: h.content.Date.Ceremony,
		Theme:    theme,
		Menu:     h.content.Menu,
	}
	if r.URL.Query().Has(links.GuestIDParam) {
		boot.ReplaceURL = links.ConsumeGuestID(r.URL)
	}
	if showSplash {
		boot.Splash = phases.Splash()
	}

	data := pageData{
		Content:    h.content,
		Couple:     h.content.CoupleNames(),
		Greeting:   greeting.Salutation(names),
		Countdown:  content.Countdown(h.content.Date.Ceremony, h.now()),
		Theme:      theme,
		ShowSplash: showSplash,
		Form:       snap.Values,
		FormState:  snap.State,
		Message:    snap.Message,
		Rows:       guestRows(snap.Values),
		Attending:  snap.Values.Attendance == models.AttendanceYes,
		Menu:       h.content.Menu,
		Boot:       boot,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// guestRows pairs each name with its meal choice. There is always at least
// one row so the form has a name input.
func guestRows(v models.RSVP) []guestRow {
	names := v.Names
	if len(names) == 0 {
		names = []string{""}
	}
	rows := make([]guestRow, len(names))
	for i, name := range names {
		rows[i] = guestRow{Index: i, Name: name}
		for _, m := range v.Meals {
			if m.Name == strings.TrimSpace(name) {
				rows[i].Starter = m.Starter
				rows[i].Main = m.Main
				break
			}
		}
	}
	return rows
}
