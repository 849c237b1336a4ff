package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/service"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// stable machine-readable codes. Anything unmapped is a 500 with the detail
// kept in the server log, not the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "username_taken", "that username is already registered")
	case errors.Is(err, service.ErrMFARequired):
		httpx.WriteError(w, http.StatusUnauthorized, "mfa_required", "a one-time code is required to sign in")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "username or password is incorrect")
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusConflict, "mfa_not_enrolled", "no second factor is set up on this account")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "the requested resource does not exist")
	case errors.Is(err, service.ErrContactExists):
		httpx.WriteError(w, http.StatusConflict, "contact_exists", "this user is already in your contacts")
	case errors.Is(err, service.ErrSelfContact):
		httpx.WriteError(w, http.StatusBadRequest, "self_reference", "you cannot add yourself as a contact")
	case errors.Is(err, service.ErrNotContact):
		httpx.WriteError(w, http.StatusForbidden, "not_contact", "recipient is not in your contact list")
	case errors.Is(err, service.ErrEmptyPayload):
		httpx.WriteError(w, http.StatusBadRequest, "empty_payload", "the message has no content")
	case errors.Is(err, service.ErrPayloadTooLarge):
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "the message exceeds the size limit")
	case errors.Is(err, service.ErrUnsupportedFileType):
		httpx.WriteError(w, http.StatusUnsupportedMediaType, "unsupported_file_type", "this file type cannot be attached")
	case errors.Is(err, service.ErrDuplicateCode):
		httpx.WriteError(w, http.StatusConflict, "duplicate_code", "a product with this code already exists")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
	}
}

// decodeJSON parses the request body into v, rejecting unknown fields so
// client typos fail loudly instead of silently dropping data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "malformed_body", "request body is not valid JSON for this endpoint")
		return false
	}
	return true
}

// authedUser pulls the user id stored by sessionMiddleware. The false branch
// is unreachable behind the middleware; it guards direct handler use in tests.
func authedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing session")
	}
	return id, ok
}
