// Package apperrors defines the structured errors returned by the site's JSON API.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that can be rendered to API consumers.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy carrying err.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy with a different user-facing message.
func (e *AppError) WithMessage(msg string) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Message = msg
	return &cpy
}

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Please fill in all required fields",
		StatusCode: http.StatusUnprocessableEntity,
	}

	ErrInFlight = &AppError{
		Code:       "SUBMISSION_IN_PROGRESS",
		Message:    "Your RSVP is already being sent",
		StatusCode: http.StatusConflict,
	}

	ErrStaleForm = &AppError{
		Code:       "FORM_STALE",
		Message:    "This page is out of date. Please reload and try again.",
		StatusCode: http.StatusConflict,
	}

	ErrUpstream = &AppError{
		Code:       "DELIVERY_FAILED",
		Message:    "Sorry, something went wrong sending your RSVP. Please try again.",
		StatusCode: http.StatusBadGateway,
	}

	ErrRateLimit = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, please slow down",
		StatusCode: http.StatusTooManyRequests,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// FromError converts err into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest builds a 400 error with a custom message.
func NewBadRequest(message string) *AppError {
	return ErrBadRequest.WithMessage(message)
}
