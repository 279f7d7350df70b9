// Package sessions keeps each visitor's RSVP form in memory between the page
// load and the submission.
package sessions

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"wedding-site/internal/rsvp"
)

// CookieName carries the session id.
const CookieName = "wedding_session"

type entry struct {
	form      *rsvp.Form
	expiresAt time.Time
}

// Store maps session ids to forms with a sliding TTL. Expired forms are
// closed so their pending effects and late results are dropped.
type Store struct {
	mu      sync.Mutex
	items   map[string]*entry
	ttl     time.Duration
	newForm func() *rsvp.Form
	now     func() time.Time
	limit   int

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of live sessions. When full, Begin evicts the
// session closest to expiry. Zero means unlimited.
func WithLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// New creates a store. A positive cleanupInterval starts a background sweeper.
func New(ttl, cleanupInterval time.Duration, newForm func() *rsvp.Form, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	s := &Store{
		items:   make(map[string]*entry),
		ttl:     ttl,
		newForm: newForm,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cleanupInterval > 0 {
		go s.sweepLoop(cleanupInterval)
	} else {
		close(s.done)
	}
	return s
}

func (s *Store) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Begin starts a fresh form for a full page load. Any previous form under id
// is closed. A new id is issued when id is empty or unknown.
func (s *Store) Begin(id string) (string, *rsvp.Form) {
	form := s.newForm()

	s.mu.Lock()
	var old *rsvp.Form
	if e, ok := s.items[id]; ok && id != "" {
		old = e.form
	} else {
		id = uuid.NewString()
		old = s.evictLocked()
	}
	s.items[id] = &entry{form: form, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return id, form
}

// evictLocked makes room for one more session and returns the form it
// removed, if any.
func (s *Store) evictLocked() *rsvp.Form {
	if s.limit <= 0 || len(s.items) < s.limit {
		return nil
	}
	var oldestID string
	var oldest *entry
	for id, e := range s.items {
		if oldest == nil || e.expiresAt.Before(oldest.expiresAt) {
			oldestID, oldest = id, e
		}
	}
	delete(s.items, oldestID)
	return oldest.form
}

// Has reports whether id names a live session.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	return ok && id != "" && !s.now().After(e.expiresAt)
}

// Get returns the live form for id and extends its expiry.
func (s *Store) Get(id string) (*rsvp.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok || id == "" {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		return nil, false
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e.form, true
}

// Sweep removes and closes expired forms.
func (s *Store) Sweep() int {
	now := s.now()
	var expired []*rsvp.Form

	s.mu.Lock()
	for id, e := range s.items {
		if now.After(e.expiresAt) {
			expired = append(expired, e.form)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		f.Close()
	}
	return len(expired)
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close stops the sweeper and closes every form.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done

	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range items {
		e.form.Close()
	}
}

// ReadID returns the session id from the request cookie.
func ReadID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// WriteID sets the session cookie.
func WriteID(w http.ResponseWriter, id string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
