package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestStore(t)
	users := &UserService{Store: db}
	settings := &SettingsService{Store: db}

	user := registerUser(t, users, "alice", "password123")

	t.Run("fresh account starts with the defaults", func(t *testing.T) {
		got, err := settings.Get(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.DefaultSettings(), got)
	})

	t.Run("update round trips", func(t *testing.T) {
		want := domain.Settings{Theme: domain.ThemeLight, Notifications: false, FontSize: 18}
		require.NoError(t, settings.Update(ctx, user.ID, want))

		got, err := settings.Get(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("rejects unknown theme", func(t *testing.T) {
		err := settings.Update(ctx, user.ID, domain.Settings{Theme: "sepia", FontSize: 14})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects non-positive font size", func(t *testing.T) {
		err := settings.Update(ctx, user.ID, domain.Settings{Theme: domain.ThemeDark, FontSize: 0})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := settings.Get(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
