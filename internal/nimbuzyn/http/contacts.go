package http

import (
	"net/http"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

type contactResponse struct {
	ContactID      string    `json:"contact_id"`
	PublicID       string    `json:"public_id"`
	DisplayName    string    `json:"display_name"`
	AvatarColor    uint32    `json:"avatar_color"`
	Classification string    `json:"classification"`
	Favorite       bool      `json:"favorite"`
	AddedAt        time.Time `json:"added_at"`
}

func toContactResponse(c domain.Contact) contactResponse {
	return contactResponse{
		ContactID:      c.ContactID,
		PublicID:       c.PublicID,
		DisplayName:    c.DisplayName,
		AvatarColor:    c.AvatarColor,
		Classification: string(c.Classification),
		Favorite:       c.Favorite,
		AddedAt:        c.AddedAt,
	}
}

// handleListContacts returns the caller's contacts, favorites first, then by
// display name. ?classification=friend|acquaintance narrows to one group.
func (rt *Router) handleListContacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var filter *domain.Classification
	if raw := r.URL.Query().Get("classification"); raw != "" {
		cl := domain.Classification(raw)
		filter = &cl
	}

	contacts, err := rt.Contacts.ListContacts(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type addContactRequest struct {
	PublicID       string `json:"public_id"`
	Classification string `json:"classification"`
}

func (rt *Router) handleAddContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req addContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contact, err := rt.Contacts.AddContact(r.Context(), userID, req.PublicID, domain.Classification(req.Classification))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toContactResponse(contact))
}

type patchContactRequest struct {
	Favorite       *bool   `json:"favorite,omitempty"`
	Classification *string `json:"classification,omitempty"`
}

func (rt *Router) handlePatchContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}
	contactID := r.PathValue("contactID")

	var req patchContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Favorite != nil {
		if err := rt.Contacts.SetFavorite(r.Context(), userID, contactID, *req.Favorite); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	if req.Classification != nil {
		if err := rt.Contacts.SetClassification(r.Context(), userID, contactID, domain.Classification(*req.Classification)); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := rt.Contacts.RemoveContact(r.Context(), userID, r.PathValue("contactID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
