package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/idx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

type ContactService struct {
	Store store.Store
}

// AddContact adds the user behind targetPublicID to the owner's contact
// list. The public id is the only handle needed; it must resolve to an
// existing account. Retrying after success reports ErrContactExists instead
// of duplicating the row.
func (s *ContactService) AddContact(ctx context.Context, ownerID, targetPublicID string, cl domain.Classification) (domain.Contact, error) {
	log := slogx.FromContext(ctx)

	if !cl.Valid() {
		return domain.Contact{}, ErrInvalidInput
	}

	target, err := s.Store.Users().GetUserByPublicID(ctx, targetPublicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Contact{}, ErrNotFound
		}
		return domain.Contact{}, err
	}
	if target.ID == ownerID {
		return domain.Contact{}, ErrSelfContact
	}

	contact := domain.Contact{
		ID:             idx.New().String(),
		OwnerID:        ownerID,
		ContactID:      target.ID,
		Classification: cl,
		Favorite:       false,
		AddedAt:        time.Now().UTC(),
		DisplayName:    target.DisplayName,
		PublicID:       target.PublicID,
		AvatarColor:    target.AvatarColor,
	}

	if err := s.Store.Contacts().CreateContact(ctx, contact); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Contact{}, ErrContactExists
		}
		return domain.Contact{}, err
	}

	log.Info("contact added",
		slog.String("owner_id", ownerID),
		slog.String("contact_id", target.ID),
		slog.String("classification", string(cl)),
	)
	return contact, nil
}

// SetFavorite flags or unflags a contact. Favorites float to the top of the
// list regardless of classification.
func (s *ContactService) SetFavorite(ctx context.Context, ownerID, contactID string, favorite bool) error {
	err := s.Store.Contacts().SetFavorite(ctx, ownerID, contactID, favorite)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// SetClassification moves a contact between the friend and acquaintance
// groups.
func (s *ContactService) SetClassification(ctx context.Context, ownerID, contactID string, cl domain.Classification) error {
	if !cl.Valid() {
		return ErrInvalidInput
	}
	err := s.Store.Contacts().SetClassification(ctx, ownerID, contactID, cl)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// RemoveContact deletes the relationship. Message history is untouched; the
// log is append-only.
func (s *ContactService) RemoveContact(ctx context.Context, ownerID, contactID string) error {
	err := s.Store.Contacts().DeleteContact(ctx, ownerID, contactID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ListContacts returns the owner's contacts, favorites first, each group
// ordered by display name ascending case-insensitive. A nil filter returns
// both classifications.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string, filter *domain.Classification) ([]domain.Contact, error) {
	if filter != nil && !filter.Valid() {
		return nil, ErrInvalidInput
	}
	return s.Store.Contacts().ListContacts(ctx, ownerID, filter)
}
