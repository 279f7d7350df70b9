package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"wedding-site/internal/apperrors"
	"wedding-site/internal/metrics"
	"wedding-site/internal/models"
	"wedding-site/internal/response"
	"wedding-site/internal/rsvp"
	"wedding-site/internal/sessions"
)

const maxBodyBytes = 64 << 10

type invalidResult struct {
	rsvp.Outcome
	Fields rsvp.ValidationErrors `json:"fields,omitempty"`
}

// SubmitRSVP validates the posted form and delivers it. While an earlier
// submission from the same visitor is pending the request is rejected.
func (h *Handler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var values models.RSVP
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&values); err != nil {
		response.Error(w, apperrors.NewBadRequest("Invalid RSVP payload").WithInternal(err))
		return
	}

	form := h.formFor(w, r)
	out, err := form.SubmitValues(r.Context(), values)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, out)
	case errors.Is(err, rsvp.ErrInFlight):
		response.Error(w, apperrors.ErrInFlight)
	case errors.Is(err, rsvp.ErrClosed):
		response.Error(w, apperrors.ErrStaleForm)
	case errors.Is(err, rsvp.ErrInvalid):
		metrics.RSVPSubmissions.WithLabelValues(metrics.SubmissionInvalid).Inc()
		var fields rsvp.ValidationErrors
		errors.As(err, &fields)
		response.ErrorWithData(w, apperrors.ErrValidation, invalidResult{Outcome: out, Fields: fields})
	default:
		response.ErrorWithData(w, apperrors.ErrUpstream.WithInternal(err), out)
	}
}

// TouchForm records that the visitor edited the form after a result, which
// clears the message.
func (h *Handler) TouchForm(w http.ResponseWriter, r *http.Request) {
	form, ok := h.sessions.Get(sessions.ReadID(r))
	if !ok {
		response.Success(w, http.StatusOK, rsvp.Outcome{State: rsvp.StateIdle})
		return
	}
	form.Touch()
	response.Success(w, http.StatusOK, form.Snapshot())
}

// formFor returns the visitor's form, starting a new session if the old one
// expired.
func (h *Handler) formFor(w http.ResponseWriter, r *http.Request) *rsvp.Form {
	if form, ok := h.sessions.Get(sessions.ReadID(r)); ok {
		return form
	}
	id, form := h.sessions.Begin("")
	sessions.WriteID(w, id, h.sessionTTL, h.secure)
	return form
}
