package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

func textPayload(text string) Payload {
	return Payload{Kind: domain.MessageText, Text: text}
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}
	messages := &MessageService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	addContact(t, contacts, alice, bob)

	t.Run("exactly 1000 characters is accepted", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload(strings.Repeat("x", 1000)))
		require.NoError(t, err)
	})

	t.Run("1001 characters is rejected", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload(strings.Repeat("x", 1001)))
		require.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("limit counts characters not bytes", func(t *testing.T) {
		// 1000 three-byte runes; fine by character count.
		_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload(strings.Repeat("語", 1000)))
		require.NoError(t, err)
	})

	t.Run("empty and whitespace-only text is rejected", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload(""))
		require.ErrorIs(t, err, ErrEmptyPayload)

		_, err = messages.Send(ctx, alice.ID, bob.ID, textPayload("   \n\t"))
		require.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("recipient outside the contact list", func(t *testing.T) {
		carol := registerUser(t, users, "carol", "password123")
		_, err := messages.Send(ctx, alice.ID, carol.ID, textPayload("hi"))
		require.ErrorIs(t, err, ErrNotContact)
	})

	t.Run("file at the size limit is accepted", func(t *testing.T) {
		msg, err := messages.Send(ctx, alice.ID, bob.ID, Payload{
			Kind:     domain.MessageFile,
			FileRef:  "blobs/abc123",
			FileName: "holiday.jpg",
			FileSize: domain.MaxFileSize,
		})
		require.NoError(t, err)
		require.Equal(t, domain.AttachmentImage, msg.Category())
	})

	t.Run("file over the size limit is rejected", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, Payload{
			Kind:     domain.MessageFile,
			FileRef:  "blobs/abc124",
			FileName: "holiday.mp4",
			FileSize: domain.MaxFileSize + 1,
		})
		require.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("unsupported extension is rejected", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, Payload{
			Kind:     domain.MessageFile,
			FileRef:  "blobs/abc125",
			FileName: "malware.exe",
			FileSize: 1024,
		})
		require.ErrorIs(t, err, ErrUnsupportedFileType)
	})

	t.Run("file without a reference is rejected", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, Payload{
			Kind:     domain.MessageFile,
			FileName: "notes.txt",
			FileSize: 10,
		})
		require.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("unknown payload kind", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, Payload{Kind: "voice"})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestHistoryInterleavesBothDirections(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}
	messages := &MessageService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	addContact(t, contacts, alice, bob)
	addContact(t, contacts, bob, alice)

	_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload("hello bob"))
	require.NoError(t, err)
	_, err = messages.Send(ctx, bob.ID, alice.ID, textPayload("hey alice"))
	require.NoError(t, err)
	_, err = messages.Send(ctx, alice.ID, bob.ID, textPayload("how are you?"))
	require.NoError(t, err)

	t.Run("both sides see the same log oldest first", func(t *testing.T) {
		for _, viewer := range []string{alice.ID, bob.ID} {
			other := bob.ID
			if viewer == bob.ID {
				other = alice.ID
			}

			log, err := messages.History(ctx, viewer, other, 0, 0)
			require.NoError(t, err)
			require.Len(t, log, 3)
			require.Equal(t, "hello bob", log[0].Body)
			require.Equal(t, "hey alice", log[1].Body)
			require.Equal(t, "how are you?", log[2].Body)
		}
	})

	t.Run("ids are a tie-break consistent with send order", func(t *testing.T) {
		log, err := messages.History(ctx, alice.ID, bob.ID, 0, 0)
		require.NoError(t, err)
		for i := 1; i < len(log); i++ {
			require.Less(t, log[i-1].ID, log[i].ID)
		}
	})

	t.Run("limit and offset page through the log", func(t *testing.T) {
		page, err := messages.History(ctx, alice.ID, bob.ID, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		require.Equal(t, "hello bob", page[0].Body)

		page, err = messages.History(ctx, alice.ID, bob.ID, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 1)
		require.Equal(t, "how are you?", page[0].Body)
	})

	t.Run("removing the contact keeps the history", func(t *testing.T) {
		require.NoError(t, contacts.RemoveContact(ctx, alice.ID, bob.ID))

		log, err := messages.History(ctx, alice.ID, bob.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, log, 3)

		// But sending now fails until bob is re-added.
		_, err = messages.Send(ctx, alice.ID, bob.ID, textPayload("still there?"))
		require.ErrorIs(t, err, ErrNotContact)
	})
}

func TestHistoryBeforeAnyMessage(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}
	messages := &MessageService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	addContact(t, contacts, alice, bob)

	t.Run("unknown counterpart is a typed not-found", func(t *testing.T) {
		_, err := messages.History(ctx, alice.ID, "no-such-user", 0, 0)
		require.ErrorIs(t, err, ErrNotFound)

		err = messages.MarkRead(ctx, alice.ID, "no-such-user")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty history leaves no trace", func(t *testing.T) {
		log, err := messages.History(ctx, alice.ID, bob.ID, 0, 0)
		require.NoError(t, err)
		require.Empty(t, log)

		// Reading must not have created a conversation bob can see.
		views, err := messages.Conversations(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, views)
	})

	t.Run("mark read with no conversation is a no-op", func(t *testing.T) {
		require.NoError(t, messages.MarkRead(ctx, alice.ID, bob.ID))

		views, err := messages.Conversations(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, views)
	})
}

func TestConversations(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}
	messages := &MessageService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	carol := registerUser(t, users, "carol", "password123")
	addContact(t, contacts, alice, bob)
	addContact(t, contacts, alice, carol)

	_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload("first to bob"))
	require.NoError(t, err)
	_, err = messages.Send(ctx, alice.ID, carol.ID, textPayload("then to carol"))
	require.NoError(t, err)

	t.Run("most recent conversation first", func(t *testing.T) {
		views, err := messages.Conversations(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, views, 2)
		require.Equal(t, carol.ID, views[0].OtherUserID)
		require.Equal(t, bob.ID, views[1].OtherUserID)
	})

	t.Run("unread counts only the recipient side", func(t *testing.T) {
		views, err := messages.Conversations(ctx, alice.ID)
		require.NoError(t, err)
		for _, v := range views {
			require.Zero(t, v.Unread, "sender has nothing unread")
		}

		views, err = messages.Conversations(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.Equal(t, 1, views[0].Unread)
	})

	t.Run("preview is the last message truncated", func(t *testing.T) {
		long := strings.Repeat("a", 80)
		_, err := messages.Send(ctx, alice.ID, bob.ID, textPayload(long))
		require.NoError(t, err)

		views, err := messages.Conversations(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, bob.ID, views[0].OtherUserID, "bob conversation bumped to the top")
		require.Equal(t, strings.Repeat("a", 50), views[0].LastMessage)
	})

	t.Run("file messages preview as their category", func(t *testing.T) {
		_, err := messages.Send(ctx, alice.ID, bob.ID, Payload{
			Kind:     domain.MessageFile,
			FileRef:  "blobs/cat",
			FileName: "cat.png",
			FileSize: 2048,
		})
		require.NoError(t, err)

		views, err := messages.Conversations(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "[image]", views[0].LastMessage)
	})

	t.Run("mark read clears only the caller's counter", func(t *testing.T) {
		require.NoError(t, messages.MarkRead(ctx, bob.ID, alice.ID))

		views, err := messages.Conversations(ctx, bob.ID)
		require.NoError(t, err)
		require.Zero(t, views[0].Unread)
	})
}

func TestSendIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}
	messages := &MessageService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	addContact(t, contacts, alice, bob)

	msg, err := messages.Send(ctx, alice.ID, bob.ID, textPayload("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, msg.ConversationID)

	// The conversation row the message points at must exist and reflect it.
	conv, err := db.Messages().GetConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, msg.ConversationID, conv.ID)
	require.Equal(t, "hello", conv.LastMessage)
	require.NotNil(t, conv.LastMessageAt)
	require.Equal(t, 1, conv.UnreadFor(bob.ID))
	require.Zero(t, conv.UnreadFor(alice.ID))
}
