package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/reelboard/movie-blog-api/internal/app/posts"
	"github.com/reelboard/movie-blog-api/internal/app/users"
)

// ErrorBody is the generic error envelope: {error:{message, errorCode, details}}.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message   string         `json:"message"`
	ErrorCode string         `json:"errorCode"`
	Details   map[string]any `json:"details,omitempty"`
}

// AuthFailureBody is the guard-specific failure shape the SPA depends on:
// {auth: "...", message?: "..."}.
type AuthFailureBody struct {
	Auth    string `json:"auth"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Message:   message,
		ErrorCode: code,
		Details:   details,
	}})
}

// writeAppError is the single error-shaping funnel for service failures.
// Typed app errors map to their own status; anything else is a logged 500 with
// a generic message.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *posts.Error
	if errors.As(err, &pe) {
		writeErrorBody(w, pe.Status, pe.Code, pe.Message, pe.Details)
		return
	}
	var ue *users.Error
	if errors.As(err, &ue) {
		writeErrorBody(w, ue.Status, ue.Code, ue.Message, ue.Details)
		return
	}
	log.Printf("internal error: %s %s: %v", r.Method, r.URL.Path, err)
	writeErrorBody(w, http.StatusInternalServerError, "SERVER_ERROR", "Internal Server Error", nil)
}
