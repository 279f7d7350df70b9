package rsvp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Collaborator receives RSVP payloads. It is the external form backend.
type Collaborator interface {
	Deliver(ctx context.Context, p Payload) error
}

// CollaboratorFunc adapts a function to Collaborator.
type CollaboratorFunc func(ctx context.Context, p Payload) error

func (f CollaboratorFunc) Deliver(ctx context.Context, p Payload) error { return f(ctx, p) }

// HTTPCollaborator posts payloads as JSON to a form-collection endpoint
// such as Formspree.
type HTTPCollaborator struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPCollaborator returns a collaborator for endpoint with the given client timeout.
func NewHTTPCollaborator(endpoint string, timeout time.Duration) *HTTPCollaborator {
	return &HTTPCollaborator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("form endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("form endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Deliver sends exactly one POST request.
func (c *HTTPCollaborator) Deliver(ctx context.Context, p Payload) error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("form endpoint not configured")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post RSVP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
