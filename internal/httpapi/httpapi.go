// Package httpapi holds the HTTP plumbing shared by the feature routes:
// owner scoping, JSON writing and the error-to-status mapping.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jcastellanos/legajo/internal/apperr"
)

type contextKey struct{}

// OwnerHeader carries the authenticated user id. Authentication itself is
// an upstream concern; this header is the contract with it.
const OwnerHeader = "X-Owner-ID"

// RequireOwner rejects requests without an owner id and stores it on the
// request context.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			WriteError(w, apperr.Validationf("missing %s header", OwnerHeader))
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Owner returns the owner id stored by RequireOwner.
func Owner(r *http.Request) string {
	owner, _ := r.Context().Value(contextKey{}).(string)
	return owner
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError maps the error taxonomy onto HTTP statuses: validation 400,
// not found 404, oracle failures 502 (retryable), everything else 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case apperr.IsOracle(err):
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, errorBody{Error: err.Error()})
}
