package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"webucket/internal/middleware"
	"webucket/internal/model"
	"webucket/internal/service"
)

// patchBody is a partial-update payload decoded with field presence kept: an
// absent key leaves the field untouched, an explicit null resets it.
type patchBody map[string]json.RawMessage

func decodePatch(w http.ResponseWriter, r *http.Request) (patchBody, bool) {
	var body patchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// patchField extracts one field from a patch body. An absent key yields nil,
// an explicit null a pointer to the zero value. Type mismatches land in errp;
// the first error wins.
func patchField[T any](body patchBody, key string, errp *error) *T {
	raw, ok := body[key]
	if !ok {
		return nil
	}
	value := new(T)
	if bytes.Equal(raw, []byte("null")) {
		return value
	}
	if err := json.Unmarshal(raw, value); err != nil && *errp == nil {
		*errp = err
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain failure to its HTTP status. Anything outside the
// taxonomy is a 500 without the internal detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrLimitExceeded):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// currentUser resolves the token subject to a user. An unknown subject counts
// as an invalid credential, the same 401 as a missing or expired token.
func currentUser(w http.ResponseWriter, r *http.Request, users *service.UserService) (*model.User, bool) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		unauthenticated(w)
		return nil, false
	}
	user, err := users.GetByUsername(r.Context(), username)
	if err != nil {
		unauthenticated(w)
		return nil, false
	}
	return user, true
}
