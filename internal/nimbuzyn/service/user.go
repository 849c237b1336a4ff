package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/cryptox"
	"github.com/nimbuzyn/nimbuzyn/pkg/idx"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

// publicIDAttempts bounds the collision-regeneration loop. With 6 hex chars
// of a fresh UUID per attempt a second collision is already vanishingly rare.
const publicIDAttempts = 10

type UserService struct {
	Store store.Store
}

// Register creates a new account. Username uniqueness is case-sensitive:
// "Alice" and "alice" are distinct accounts. An empty display name defaults
// to the username.
func (s *UserService) Register(ctx context.Context, username, displayName, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	publicID, err := s.generatePublicID(ctx)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		PublicID:     publicID,
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		AvatarColor:  domain.DefaultAvatarColor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		// The pre-check above raced with another insert.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	log.Info("user registered", slog.String("user_id", user.ID), slog.String("public_id", user.PublicID))
	return user, nil
}

// generatePublicID mints a "NIM-XXXXXX" handle and re-rolls on collision
// instead of failing registration.
func (s *UserService) generatePublicID(ctx context.Context) (string, error) {
	for range publicIDAttempts {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		candidate := domain.PublicIDPrefix + raw[:6]

		taken, err := s.Store.Users().PublicIDExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("service: exhausted public id attempts")
}

// Login verifies credentials and returns the account. Unknown username and
// wrong password both come back as ErrInvalidCredentials. Accounts with an
// active TOTP second factor additionally need a valid totpCode.
func (s *UserService) Login(ctx context.Context, username, password, totpCode string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login failed", slog.String("user_id", user.ID))
			return domain.User{}, ErrInvalidCredentials
		}
		// Malformed stored hash: corrupted credential, not a mismatch.
		return domain.User{}, err
	}

	if user.HasMFA() {
		if totpCode == "" {
			return domain.User{}, ErrMFARequired
		}
		if !totp.Validate(totpCode, *user.MFASecret) {
			log.Warn("login failed on mfa", slog.String("user_id", user.ID))
			return domain.User{}, ErrInvalidCredentials
		}
	}

	return user, nil
}

// GetByID fetches a user by internal id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// GetByPublicID fetches a user by their shareable handle.
func (s *UserService) GetByPublicID(ctx context.Context, publicID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByPublicID(ctx, strings.TrimSpace(publicID))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// ChangeUsername renames the account; the public id never changes.
func (s *UserService) ChangeUsername(ctx context.Context, userID, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	err := s.Store.Users().UpdateUsername(ctx, userID, newUsername)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrUsernameTaken
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	}
	return err
}

// ChangeDisplayName updates the name shown to contacts.
func (s *UserService) ChangeDisplayName(ctx context.Context, userID, displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	err := s.Store.Users().UpdateDisplayName(ctx, userID, displayName)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ChangePassword verifies the current password before storing a new hash.
// The read and write run in one transaction so the verified hash cannot be
// swapped underneath the update.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrPasswordMismatch) {
				return ErrInvalidCredentials
			}
			return err
		}

		hash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return err
		}
		return tx.Users().UpdatePasswordHash(ctx, userID, hash)
	})
}
