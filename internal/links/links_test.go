package links

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractGuestID(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"/?id=x", "x", true},
		{"/?id=%20x%20", "x", true},
		{"/?id=", "", false},
		{"/?id=%20", "", false},
		{"/?fname1=Sam", "", false},
		{"/", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractGuestID(mustParse(t, tt.raw))
		assert.Equal(t, tt.wantOK, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, ok := ExtractGuestID(nil)
	assert.False(t, ok)
}

func TestConsumeGuestID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"/?id=x", "/"},
		{"/?utm=a&id=x&b=2", "/?utm=a&b=2"},
		{"/?z=1&a=2&id=x", "/?z=1&a=2"},
		{"/?id=x&id=y", "/"},
		{"/?%69d=x&keep=1", "/?keep=1"},
		{"/rsvp?keep=a%20b", "/rsvp?keep=a%20b"},
		{"", "/"},
		{"/#rsvp", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConsumeGuestID(mustParse(t, tt.raw)), tt.raw)
	}
}

func TestConsumeGuestIDIsIdempotent(t *testing.T) {
	first := ConsumeGuestID(mustParse(t, "/?a=1&id=x"))
	second := ConsumeGuestID(mustParse(t, first))
	assert.Equal(t, first, second)
}

func TestLegacyPrefill(t *testing.T) {
	assert.Equal(t, Prefill{Email: "sam@example.com"}, LegacyPrefill(mustParse(t, "/?email=sam@example.com")))
	assert.Equal(t, Prefill{}, LegacyPrefill(nil))
}

func TestInvitationURL(t *testing.T) {
	got, err := InvitationURL("https://wedding.example.com", "sam-lee")
	require.NoError(t, err)
	assert.Equal(t, "https://wedding.example.com/?id=sam-lee", got)

	got, err = InvitationURL("https://wedding.example.com/site?lang=en", "a b")
	require.NoError(t, err)
	assert.Equal(t, "https://wedding.example.com/site?id=a+b&lang=en", got)
}
