package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pquerna/otp/totp"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
	"github.com/nimbuzyn/nimbuzyn/pkg/cryptox"
	"github.com/nimbuzyn/nimbuzyn/pkg/slogx"
)

// MFAService manages the optional TOTP second factor. Enrollment is two-step:
// BeginEnrollment stores a pending secret, ConfirmEnrollment activates it
// after the user proves their authenticator produces matching codes.
type MFAService struct {
	Store  store.Store
	Issuer string // shown in the authenticator app
}

// Enrollment is handed to the UI to render the QR code / manual secret.
type Enrollment struct {
	Secret string // base32 TOTP secret
	URL    string // otpauth:// provisioning URL
}

// BeginEnrollment generates a fresh TOTP secret for the user. Calling it
// again before confirmation replaces the pending secret.
func (s *MFAService) BeginEnrollment(ctx context.Context, userID string) (Enrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Enrollment{}, ErrNotFound
		}
		return Enrollment{}, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Username,
	})
	if err != nil {
		return Enrollment{}, err
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return Enrollment{}, err
	}
	return Enrollment{Secret: key.Secret(), URL: key.URL()}, nil
}

// ConfirmEnrollment activates MFA once the user submits a valid code from
// their authenticator.
func (s *MFAService) ConfirmEnrollment(ctx context.Context, userID, code string) error {
	log := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.MFASecret == nil {
			return ErrMFANotEnrolled
		}
		if !totp.Validate(code, *user.MFASecret) {
			return ErrInvalidCredentials
		}

		if err := tx.Users().EnableMFA(ctx, userID); err != nil {
			return err
		}
		log.Info("mfa enabled", slog.String("user_id", userID))
		return nil
	})
}

// Disable turns MFA off. Requires the account password, not a TOTP code, so
// a lost authenticator does not lock the user out of their own device.
func (s *MFAService) Disable(ctx context.Context, userID, password string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !user.HasMFA() {
			return ErrMFANotEnrolled
		}

		if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrPasswordMismatch) {
				return ErrInvalidCredentials
			}
			return err
		}
		return tx.Users().DisableMFA(ctx, userID)
	})
}
