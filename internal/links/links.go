// Package links reads and rewrites the guest parameters carried by shareable invitation links.
package links

import (
	"net/url"
	"strings"
)

// GuestIDParam is the query parameter that carries the opaque guest id.
const GuestIDParam = "id"

// EmailParam is a legacy pre-fill parameter. It is read but never stripped.
const EmailParam = "email"

// Prefill holds values read from legacy link parameters.
type Prefill struct {
	Email string
}

// ExtractGuestID returns the guest id from u's query string.
// A missing or blank id is reported as absent.
func ExtractGuestID(u *url.URL) (string, bool) {
	if u == nil {
		return "", false
	}
	id := strings.TrimSpace(u.Query().Get(GuestIDParam))
	if id == "" {
		return "", false
	}
	return id, true
}

// ConsumeGuestID returns the path and query of u with every id parameter removed,
// suitable for history.replaceState. Remaining parameters keep their order and encoding.
func ConsumeGuestID(u *url.URL) string {
	if u == nil {
		return "/"
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if k, err := url.QueryUnescape(key); err == nil && k == GuestIDParam {
			continue
		}
		kept = append(kept, pair)
	}

	if len(kept) == 0 {
		return path
	}
	return path + "?" + strings.Join(kept, "&")
}

// LegacyPrefill reads pre-fill values from older link formats.
func LegacyPrefill(u *url.URL) Prefill {
	if u == nil {
		return Prefill{}
	}
	return Prefill{Email: strings.TrimSpace(u.Query().Get(EmailParam))}
}

// InvitationURL builds the shareable link for a guest id.
func InvitationURL(base, id string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set(GuestIDParam, id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
