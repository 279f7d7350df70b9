// Package response writes the JSON envelope used by every API endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"wedding-site/internal/apperrors"
)

// Response defines the base API payload.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo holds error details to send to clients.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a JSON success response.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	write(w, statusCode, Response{Success: true, Data: data})
}

// Error writes a JSON error response derived from an AppError.
func Error(w http.ResponseWriter, err error) {
	ErrorWithData(w, err, nil)
}

// ErrorWithData is Error with a data payload, used when the client needs
// state back alongside the failure.
func ErrorWithData(w http.ResponseWriter, err error, data interface{}) {
	if err == nil {
		err = apperrors.ErrInternalServer
	}

	appErr := apperrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	write(w, status, Response{
		Success: false,
		Data:    data,
		Error: &ErrorInfo{
			Code:    appErr.Code,
			Message: appErr.Message,
		},
	})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
