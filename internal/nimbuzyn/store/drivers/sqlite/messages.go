package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/idx"
)

type messagesRepo struct {
	db dbtx
}

const conversationColumns = `id, participant_a, participant_b, last_message,
	last_message_at, unread_a, unread_b, created_at`

func scanConversation(row *sql.Row) (domain.Conversation, error) {
	var c domain.Conversation
	var lastAt sql.NullTime
	err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.LastMessage,
		&lastAt, &c.UnreadA, &c.UnreadB, &c.CreatedAt)
	if err != nil {
		return domain.Conversation{}, mapNotFound(err)
	}
	c.LastMessageAt = mapNullTimePtr(lastAt)
	return c, nil
}

func (r *messagesRepo) GetConversation(ctx context.Context, userA, userB string) (domain.Conversation, error) {
	a, b := domain.NormalizePair(userA, userB)
	return scanConversation(r.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE participant_a = ? AND participant_b = ?`, a, b))
}

func (r *messagesRepo) GetOrCreateConversation(ctx context.Context, userA, userB string) (domain.Conversation, error) {
	conv, err := r.GetConversation(ctx, userA, userB)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Conversation{}, err
	}

	a, b := domain.NormalizePair(userA, userB)
	conv = domain.Conversation{
		ID:           idx.New().String(),
		ParticipantA: a,
		ParticipantB: b,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, participant_a, participant_b, created_at)
		VALUES (?, ?, ?, ?)`,
		conv.ID, conv.ParticipantA, conv.ParticipantB, conv.CreatedAt,
	)
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	var fileName sql.NullString
	var fileSize sql.NullInt64
	if m.Kind == domain.MessageFile {
		fileName = sql.NullString{String: m.FileName, Valid: true}
		fileSize = sql.NullInt64{Int64: m.FileSize, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, recipient_id,
			kind, body, file_name, file_size, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.SenderID, m.RecipientID,
		string(m.Kind), m.Body, fileName, fileSize, m.SentAt,
	)
	return mapConstraint(err)
}

func (r *messagesRepo) BumpConversation(ctx context.Context, conversationID, preview string, at time.Time, recipientID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `
		UPDATE conversations SET
			last_message = ?,
			last_message_at = ?,
			unread_a = unread_a + (CASE WHEN participant_a = ? THEN 1 ELSE 0 END),
			unread_b = unread_b + (CASE WHEN participant_b = ? THEN 1 ELSE 0 END)
		WHERE id = ?`,
		preview, at, recipientID, recipientID, conversationID))
}

func (r *messagesRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	// Conversation order is sent time with id as tie-break; ids are ULIDs,
	// so the tie-break is itself mint order.
	query := `
		SELECT id, conversation_id, sender_id, recipient_id, kind, body,
			file_name, file_size, sent_at
		FROM messages WHERE conversation_id = ?
		ORDER BY sent_at ASC, id ASC`
	args := []any{conversationID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var kind string
		var fileName sql.NullString
		var fileSize sql.NullInt64
		err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID,
			&kind, &m.Body, &fileName, &fileSize, &m.SentAt)
		if err != nil {
			return nil, err
		}
		m.Kind = domain.MessageKind(kind)
		m.FileName = fileName.String
		m.FileSize = fileSize.Int64
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messagesRepo) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE participant_a = ? OR participant_b = ?
		ORDER BY last_message_at IS NULL, last_message_at DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		var lastAt sql.NullTime
		err := rows.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.LastMessage,
			&lastAt, &c.UnreadA, &c.UnreadB, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		c.LastMessageAt = mapNullTimePtr(lastAt)
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *messagesRepo) MarkConversationRead(ctx context.Context, conversationID, userID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, `
		UPDATE conversations SET
			unread_a = (CASE WHEN participant_a = ? THEN 0 ELSE unread_a END),
			unread_b = (CASE WHEN participant_b = ? THEN 0 ELSE unread_b END)
		WHERE id = ? AND (participant_a = ? OR participant_b = ?)`,
		userID, userID, conversationID, userID, userID))
}
