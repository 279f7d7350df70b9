package rsvp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCollaboratorPostsJSON(t *testing.T) {
	var hits atomic.Int32
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	require.NoError(t, c.Deliver(context.Background(), BuildPayload(validRSVP())))
	require.EqualValues(t, 1, hits.Load())
	require.Equal(t, "Sam Lee", got.Name)
}

func TestHTTPCollaboratorNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
	}))
	defer srv.Close()

	err := NewHTTPCollaborator(srv.URL, time.Second).Deliver(context.Background(), Payload{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	require.Contains(t, statusErr.Error(), "bad")
}

func TestHTTPCollaboratorTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPCollaborator(url, time.Second).Deliver(context.Background(), Payload{})
	require.Error(t, err)
}

func TestHTTPCollaboratorRequiresEndpoint(t *testing.T) {
	err := (&HTTPCollaborator{}).Deliver(context.Background(), Payload{})
	require.ErrorContains(t, err, "not configured")
}
