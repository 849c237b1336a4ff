package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/service"
	"github.com/nimbuzyn/nimbuzyn/pkg/httpx"
)

type messageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Kind        string    `json:"kind"`
	Body        string    `json:"body"`
	FileName    string    `json:"file_name,omitempty"`
	FileSize    int64     `json:"file_size,omitempty"`
	Category    string    `json:"category,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

func toMessageResponse(m domain.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Kind:        string(m.Kind),
		Body:        m.Body,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		Category:    string(m.Category()),
		SentAt:      m.SentAt,
	}
}

type sendMessageRequest struct {
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	FileRef  string `json:"file_ref,omitempty"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

func (rt *Router) handleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := rt.Messages.Send(r.Context(), userID, r.PathValue("userID"), service.Payload{
		Kind:     domain.MessageKind(req.Kind),
		Text:     req.Text,
		FileRef:  req.FileRef,
		FileName: req.FileName,
		FileSize: req.FileSize,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMessageResponse(msg))
}

// handleHistory returns the two-way message log with the user in the path,
// oldest first. ?limit= and ?offset= page through long conversations; no
// limit returns everything.
func (rt *Router) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	msgs, err := rt.Messages.History(r.Context(), userID, r.PathValue("userID"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type conversationResponse struct {
	ConversationID string     `json:"conversation_id"`
	OtherUserID    string     `json:"other_user_id"`
	LastMessage    string     `json:"last_message"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
	Unread         int        `json:"unread"`
}

func (rt *Router) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	views, err := rt.Messages.Conversations(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]conversationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, conversationResponse{
			ConversationID: v.ConversationID,
			OtherUserID:    v.OtherUserID,
			LastMessage:    v.LastMessage,
			LastMessageAt:  v.LastMessageAt,
			Unread:         v.Unread,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (rt *Router) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := rt.Messages.MarkRead(r.Context(), userID, r.PathValue("userID")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
