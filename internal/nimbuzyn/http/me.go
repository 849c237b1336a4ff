package http

import (
	"net/http"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

func (rt *Router) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	user, err := rt.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type patchMeRequest struct {
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// handlePatchMe renames the account and/or changes the display name. The
// public id is immutable and not patchable.
func (rt *Router) handlePatchMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req patchMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username != nil {
		if err := rt.Users.ChangeUsername(r.Context(), userID, *req.Username); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.DisplayName != nil {
		if err := rt.Users.ChangeDisplayName(r.Context(), userID, *req.DisplayName); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	user, err := rt.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (rt *Router) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := rt.Users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settingsBody struct {
	Theme         string  `json:"theme"`
	Notifications bool    `json:"notifications"`
	FontSize      float64 `json:"font_size"`
}

func (rt *Router) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	settings, err := rt.Settings.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, settingsBody{
		Theme:         string(settings.Theme),
		Notifications: settings.Notifications,
		FontSize:      settings.FontSize,
	})
}

func (rt *Router) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req settingsBody
	if !decodeJSON(w, r, &req) {
		return
	}

	settings := domain.Settings{
		Theme:         domain.Theme(req.Theme),
		Notifications: req.Notifications,
		FontSize:      req.FontSize,
	}
	if err := rt.Settings.Update(r.Context(), userID, settings); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mfaEnrollmentResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

func (rt *Router) handleBeginMFA(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	enrollment, err := rt.MFA.BeginEnrollment(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mfaEnrollmentResponse{Secret: enrollment.Secret, URL: enrollment.URL})
}

type mfaConfirmRequest struct {
	Code string `json:"code"`
}

func (rt *Router) handleConfirmMFA(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req mfaConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := rt.MFA.ConfirmEnrollment(r.Context(), userID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mfaDisableRequest struct {
	Password string `json:"password"`
}

func (rt *Router) handleDisableMFA(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req mfaDisableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := rt.MFA.Disable(r.Context(), userID, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
