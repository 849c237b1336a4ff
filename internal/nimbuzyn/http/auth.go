package http

import (
	"net/http"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	PublicID    string    `json:"public_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarColor uint32    `json:"avatar_color"`
	MFAEnabled  bool      `json:"mfa_enabled"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		PublicID:    u.PublicID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarColor: u.AvatarColor,
		MFAEnabled:  u.HasMFA(),
		CreatedAt:   u.CreatedAt,
	}
}

// handleRegister creates the account and signs the caller straight in.
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := rt.Users.Register(r.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := rt.Sessions.Issue(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(user)})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := rt.Users.Login(r.Context(), req.Username, req.Password, req.TOTPCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := rt.Sessions.Issue(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(user)})
}
