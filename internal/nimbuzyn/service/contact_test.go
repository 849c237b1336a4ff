package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

func TestAddContact(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")

	t.Run("adds by public id", func(t *testing.T) {
		contact, err := contacts.AddContact(ctx, alice.ID, bob.PublicID, domain.ClassificationFriend)
		require.NoError(t, err)
		require.Equal(t, bob.ID, contact.ContactID)
		require.Equal(t, bob.DisplayName, contact.DisplayName)
		require.False(t, contact.Favorite)
	})

	t.Run("duplicate add reports contact exists", func(t *testing.T) {
		_, err := contacts.AddContact(ctx, alice.ID, bob.PublicID, domain.ClassificationAcquaintance)
		require.ErrorIs(t, err, ErrContactExists)
	})

	t.Run("unknown public id", func(t *testing.T) {
		_, err := contacts.AddContact(ctx, alice.ID, "NIM-000000", domain.ClassificationFriend)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cannot add yourself", func(t *testing.T) {
		_, err := contacts.AddContact(ctx, alice.ID, alice.PublicID, domain.ClassificationFriend)
		require.ErrorIs(t, err, ErrSelfContact)
	})

	t.Run("rejects unknown classification", func(t *testing.T) {
		_, err := contacts.AddContact(ctx, alice.ID, bob.PublicID, domain.Classification("enemy"))
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("relationship is one directional", func(t *testing.T) {
		list, err := contacts.ListContacts(ctx, bob.ID, nil)
		require.NoError(t, err)
		require.Empty(t, list, "alice adding bob must not appear in bob's list")
	})
}

func TestListContactsOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}

	owner := registerUser(t, users, "owner", "password123")

	// Display names chosen so alphabetical order differs from insert order
	// and case is mixed.
	zara, err := users.Register(ctx, "zara", "Zara", "password123")
	require.NoError(t, err)
	amy, err := users.Register(ctx, "amy", "amy", "password123")
	require.NoError(t, err)
	mike, err := users.Register(ctx, "mike", "Mike", "password123")
	require.NoError(t, err)

	addContact(t, contacts, owner, zara)
	addContact(t, contacts, owner, amy)
	_, err = contacts.AddContact(ctx, owner.ID, mike.PublicID, domain.ClassificationAcquaintance)
	require.NoError(t, err)

	t.Run("name order case-insensitive without favorites", func(t *testing.T) {
		list, err := contacts.ListContacts(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, []string{"amy", "Mike", "Zara"}, displayNames(list))
	})

	t.Run("favorites float to the top", func(t *testing.T) {
		require.NoError(t, contacts.SetFavorite(ctx, owner.ID, zara.ID, true))

		list, err := contacts.ListContacts(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"Zara", "amy", "Mike"}, displayNames(list))
	})

	t.Run("unfavoriting restores name order", func(t *testing.T) {
		require.NoError(t, contacts.SetFavorite(ctx, owner.ID, zara.ID, false))

		list, err := contacts.ListContacts(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"amy", "Mike", "Zara"}, displayNames(list))
	})

	t.Run("classification filter narrows the list", func(t *testing.T) {
		friend := domain.ClassificationFriend
		list, err := contacts.ListContacts(ctx, owner.ID, &friend)
		require.NoError(t, err)
		require.Equal(t, []string{"amy", "Zara"}, displayNames(list))

		acquaintance := domain.ClassificationAcquaintance
		list, err = contacts.ListContacts(ctx, owner.ID, &acquaintance)
		require.NoError(t, err)
		require.Equal(t, []string{"Mike"}, displayNames(list))
	})

	t.Run("reclassification moves between groups", func(t *testing.T) {
		require.NoError(t, contacts.SetClassification(ctx, owner.ID, mike.ID, domain.ClassificationFriend))

		friend := domain.ClassificationFriend
		list, err := contacts.ListContacts(ctx, owner.ID, &friend)
		require.NoError(t, err)
		require.Len(t, list, 3)
	})
}

func TestRemoveContact(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	contacts := &ContactService{Store: db}

	alice := registerUser(t, users, "alice", "password123")
	bob := registerUser(t, users, "bob", "password123")
	addContact(t, contacts, alice, bob)

	require.NoError(t, contacts.RemoveContact(ctx, alice.ID, bob.ID))

	list, err := contacts.ListContacts(ctx, alice.ID, nil)
	require.NoError(t, err)
	require.Empty(t, list)

	require.ErrorIs(t, contacts.RemoveContact(ctx, alice.ID, bob.ID), ErrNotFound)
}

func displayNames(list []domain.Contact) []string {
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.DisplayName)
	}
	return names
}
