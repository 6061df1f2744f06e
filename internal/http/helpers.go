package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"comeback/internal/core"
	"comeback/internal/identity"
	applog "comeback/internal/log"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// withLogging logs one line per request with status and duration.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		applog.FromContext(r.Context()).InfoContext(r.Context(), "Request handled",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withAuth verifies the bearer token and stores the user id in the request
// context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			errorJSON(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := s.ids.UserID(token)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDContextKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes the request body, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathMonth parses the {month} path segment, 0..11.
func pathMonth(r *http.Request) (int, error) {
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || !core.ValidMonth(month) {
		return 0, core.ErrInvalidMonth
	}
	return month, nil
}

// pathIndex parses a non-negative {index} path segment.
func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, errors.New("index must be a non-negative number")
	}
	return index, nil
}

// authStatus maps identity errors to HTTP status codes.
func authStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrBadToken):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
