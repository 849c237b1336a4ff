package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/idx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

// previewLength is how many characters of the last message the conversation
// list shows.
const previewLength = 50

type MessageService struct {
	Store store.Store
}

// Payload is the tagged variant a caller sends: either text or a file
// reference, never both. The zero Kind is rejected, so an invalid mixed
// state cannot be expressed accidentally.
type Payload struct {
	Kind domain.MessageKind

	// Text content, only for MessageText.
	Text string

	// File reference fields, only for MessageFile. FileRef is an opaque
	// path or blob identifier; transfer is someone else's problem.
	FileRef  string
	FileName string
	FileSize int64
}

// Send validates the payload, checks the contact relation and appends the
// message. Policy: the sender must have the recipient in their own contact
// list; nothing is required of the recipient. The message insert and the
// conversation update commit atomically.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID string, p Payload) (domain.Message, error) {
	log := slogx.FromContext(ctx)

	body, fileName, fileSize, err := validatePayload(p)
	if err != nil {
		return domain.Message{}, err
	}

	if _, err := s.Store.Contacts().GetContact(ctx, senderID, recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Message{}, ErrNotContact
		}
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:          idx.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Kind:        p.Kind,
		Body:        body,
		FileName:    fileName,
		FileSize:    fileSize,
		SentAt:      time.Now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		conv, err := tx.Messages().GetOrCreateConversation(ctx, senderID, recipientID)
		if err != nil {
			return err
		}
		msg.ConversationID = conv.ID

		if err := tx.Messages().CreateMessage(ctx, msg); err != nil {
			return err
		}
		return tx.Messages().BumpConversation(ctx, conv.ID, preview(msg), msg.SentAt, recipientID)
	})
	if err != nil {
		return domain.Message{}, err
	}

	log.Debug("message sent",
		slog.String("message_id", msg.ID),
		slog.String("sender_id", senderID),
		slog.String("kind", string(msg.Kind)),
	)
	return msg, nil
}

func validatePayload(p Payload) (body, fileName string, fileSize int64, err error) {
	switch p.Kind {
	case domain.MessageText:
		text := strings.TrimSpace(p.Text)
		if text == "" {
			return "", "", 0, ErrEmptyPayload
		}
		if utf8.RuneCountInString(p.Text) > domain.MaxTextLength {
			return "", "", 0, ErrPayloadTooLarge
		}
		return p.Text, "", 0, nil

	case domain.MessageFile:
		if p.FileRef == "" || p.FileName == "" {
			return "", "", 0, ErrEmptyPayload
		}
		if p.FileSize <= 0 {
			return "", "", 0, ErrEmptyPayload
		}
		if p.FileSize > domain.MaxFileSize {
			return "", "", 0, ErrPayloadTooLarge
		}
		if _, ok := domain.CategorizeAttachment(p.FileName); !ok {
			return "", "", 0, ErrUnsupportedFileType
		}
		return p.FileRef, p.FileName, p.FileSize, nil

	default:
		return "", "", 0, fmt.Errorf("%w: unknown payload kind %q", ErrInvalidInput, p.Kind)
	}
}

// preview renders the conversation-list snippet for a message.
func preview(m domain.Message) string {
	if m.Kind == domain.MessageFile {
		if cat := m.Category(); cat != "" {
			return "[" + string(cat) + "]"
		}
		return "[file]"
	}
	runes := []rune(m.Body)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return string(runes)
}

// History returns the conversation between userID and otherID, both
// directions interleaved, oldest first, ordered by sent time with message id
// as tie-break. Limit <= 0 returns the full log. A pair that has never
// exchanged a message yields an empty log; reads never create state.
func (s *MessageService) History(ctx context.Context, userID, otherID string, limit, offset int) ([]domain.Message, error) {
	if err := s.resolveCounterpart(ctx, otherID); err != nil {
		return nil, err
	}

	conv, err := s.Store.Messages().GetConversation(ctx, userID, otherID)
	if errors.Is(err, store.ErrNotFound) {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Store.Messages().ListMessages(ctx, conv.ID, limit, offset)
}

// resolveCounterpart turns an unknown user id into the typed error instead of
// letting a foreign key failure surface from the driver.
func (s *MessageService) resolveCounterpart(ctx context.Context, otherID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, otherID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ConversationView is a chat list entry shaped for the caller: the
// counterpart plus the owner's own unread count.
type ConversationView struct {
	ConversationID string
	OtherUserID    string
	LastMessage    string
	LastMessageAt  *time.Time
	Unread         int
}

// Conversations lists the user's chats, most recently active first.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]ConversationView, error) {
	convs, err := s.Store.Messages().ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		views = append(views, ConversationView{
			ConversationID: c.ID,
			OtherUserID:    c.Other(userID),
			LastMessage:    c.LastMessage,
			LastMessageAt:  c.LastMessageAt,
			Unread:         c.UnreadFor(userID),
		})
	}
	return views, nil
}

// MarkRead clears the caller's unread counter for the conversation with
// otherID. A no-op when the pair has no conversation yet.
func (s *MessageService) MarkRead(ctx context.Context, userID, otherID string) error {
	if err := s.resolveCounterpart(ctx, otherID); err != nil {
		return err
	}

	conv, err := s.Store.Messages().GetConversation(ctx, userID, otherID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.Store.Messages().MarkConversationRead(ctx, conv.ID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
