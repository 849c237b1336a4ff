package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/store"
)

// SettingsService reads and writes the per-user UI preferences stored on the
// user row.
type SettingsService struct {
	Store store.Store
}

func (s *SettingsService) Get(ctx context.Context, userID string) (domain.Settings, error) {
	settings, err := s.Store.Users().GetSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Settings{}, ErrNotFound
	}
	return settings, err
}

func (s *SettingsService) Update(ctx context.Context, userID string, settings domain.Settings) error {
	if settings.Theme != domain.ThemeDark && settings.Theme != domain.ThemeLight {
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidInput, settings.Theme)
	}
	if settings.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive", ErrInvalidInput)
	}

	err := s.Store.Users().UpdateSettings(ctx, userID, settings)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
