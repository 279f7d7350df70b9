package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-site/internal/models"
	"wedding-site/internal/rsvp"
)

func newStore(ttl time.Duration) *Store {
	return New(ttl, 0, func() *rsvp.Form { return rsvp.NewForm(nil) })
}

func TestBeginIssuesNewID(t *testing.T) {
	s := newStore(time.Hour)
	defer s.Close()

	id, form := s.Begin("")
	require.NotEmpty(t, id)
	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, form, got)

	other, _ := s.Begin("forged")
	assert.NotEqual(t, "forged", other)
	assert.Equal(t, 2, s.Len())
}

func TestBeginReplacesAndClosesPreviousForm(t *testing.T) {
	s := newStore(time.Hour)
	defer s.Close()

	id, first := s.Begin("")
	first.Edit(func(r *models.RSVP) { r.Email = "sam@example.com" })

	again, second := s.Begin(id)
	assert.Equal(t, id, again)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.Values().Email)

	_, err := first.Submit(t.Context())
	require.ErrorIs(t, err, rsvp.ErrClosed)
}

func TestExpiry(t *testing.T) {
	s := newStore(time.Minute)
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	id, form := s.Begin("")
	now = now.Add(2 * time.Minute)

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())

	_, err := form.Submit(t.Context())
	require.ErrorIs(t, err, rsvp.ErrClosed)
}

func TestGetSlidesExpiry(t *testing.T) {
	s := newStore(time.Minute)
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	id, _ := s.Begin("")
	for i := 0; i < 3; i++ {
		now = now.Add(50 * time.Second)
		_, ok := s.Get(id)
		require.True(t, ok)
	}
	assert.Zero(t, s.Sweep())
}

func TestBackgroundSweeper(t *testing.T) {
	s := New(time.Millisecond, 5*time.Millisecond, func() *rsvp.Form { return rsvp.NewForm(nil) })
	defer s.Close()

	s.Begin("")
	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteID(rec, "abc", time.Hour, true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ReadID(req))
	req.AddCookie(cookies[0])
	assert.Equal(t, "abc", ReadID(req))
}

func TestLimitEvictsSessionClosestToExpiry(t *testing.T) {
	s := New(time.Minute, 0, func() *rsvp.Form { return rsvp.NewForm(nil) }, WithLimit(2))
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	first, firstForm := s.Begin("")
	now = now.Add(time.Second)
	second, _ := s.Begin("")
	now = now.Add(time.Second)

	// Reloading an existing session never evicts.
	again, _ := s.Begin(second)
	assert.Equal(t, second, again)
	assert.Equal(t, 2, s.Len())

	third, _ := s.Begin("")
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Has(first))
	assert.True(t, s.Has(second))
	assert.True(t, s.Has(third))

	_, err := firstForm.Submit(t.Context())
	require.ErrorIs(t, err, rsvp.ErrClosed)
}

func TestHas(t *testing.T) {
	s := newStore(time.Minute)
	defer s.Close()
	now := time.Now()
	s.now = func() time.Time { return now }

	assert.False(t, s.Has(""))
	assert.False(t, s.Has("unknown"))

	id, _ := s.Begin("")
	assert.True(t, s.Has(id))
	now = now.Add(2 * time.Minute)
	assert.False(t, s.Has(id))
}
