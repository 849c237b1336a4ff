package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFAEnrollment(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	mfa := &MFAService{Store: db, Issuer: "nimbuzyn-test"}

	user := registerUser(t, users, "alice", "password123")

	t.Run("confirm before begin fails", func(t *testing.T) {
		err := mfa.ConfirmEnrollment(ctx, user.ID, "000000")
		require.ErrorIs(t, err, ErrMFANotEnrolled)
	})

	enrollment, err := mfa.BeginEnrollment(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://")

	t.Run("pending enrollment does not gate login yet", func(t *testing.T) {
		_, err := users.Login(ctx, "alice", "password123", "")
		require.NoError(t, err)
	})

	t.Run("confirm rejects a wrong code", func(t *testing.T) {
		err := mfa.ConfirmEnrollment(ctx, user.ID, "000000")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, mfa.ConfirmEnrollment(ctx, user.ID, code))

	t.Run("login requires a code once active", func(t *testing.T) {
		_, err := users.Login(ctx, "alice", "password123", "")
		require.ErrorIs(t, err, ErrMFARequired)

		_, err = users.Login(ctx, "alice", "password123", "999999")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		_, err = users.Login(ctx, "alice", "password123", code)
		require.NoError(t, err)
	})

	t.Run("disable needs the account password", func(t *testing.T) {
		require.ErrorIs(t, mfa.Disable(ctx, user.ID, "wrong"), ErrInvalidCredentials)
		require.NoError(t, mfa.Disable(ctx, user.ID, "password123"))

		_, err := users.Login(ctx, "alice", "password123", "")
		require.NoError(t, err, "code no longer required")
	})
}
