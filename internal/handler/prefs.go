package handler

import (
	"encoding/json"
	"net/http"

	"wedding-site/internal/apperrors"
	"wedding-site/internal/prefs"
	"wedding-site/internal/response"
)

type themeRequest struct {
	Theme string `json:"theme"`
}

// SetTheme stores the colour scheme preference.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.Error(w, apperrors.NewBadRequest("Invalid theme payload").WithInternal(err))
		return
	}
	theme, err := prefs.ParseTheme(req.Theme)
	if err != nil {
		response.Error(w, apperrors.NewBadRequest("Theme must be light, dark or system").WithInternal(err))
		return
	}
	prefs.SetTheme(w, theme)
	response.Success(w, http.StatusOK, map[string]prefs.Theme{"theme": theme})
}

// CompleteSplash marks the intro as seen for this browser session.
func (h *Handler) CompleteSplash(w http.ResponseWriter, r *http.Request) {
	prefs.MarkSplashCompleted(w)
	response.Success(w, http.StatusOK, nil)
}
