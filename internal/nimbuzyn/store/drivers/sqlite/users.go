package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, public_id, username, display_name, password_hash,
	avatar_color, mfa_secret, mfa_enabled, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var mfaSecret sql.NullString
	var mfaEnabled sql.NullTime
	err := row.Scan(
		&u.ID, &u.PublicID, &u.Username, &u.DisplayName, &u.PasswordHash,
		&u.AvatarColor, &mfaSecret, &mfaEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.MFASecret = mapNullStringPtr(mfaSecret)
	u.MFAEnabled = mapNullTimePtr(mfaEnabled)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, public_id, username, display_name, password_hash,
			avatar_color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.PublicID, u.Username, u.DisplayName, u.PasswordHash,
		u.AvatarColor, u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) GetUserByPublicID(ctx context.Context, publicID string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE public_id = ?`, publicID))
}

func (r *usersRepo) PublicIDExists(ctx context.Context, publicID string) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE public_id = ?`, publicID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *usersRepo) UpdateUsername(ctx context.Context, userID, username string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
		username, time.Now().UTC(), userID)
	if err != nil {
		return mapConstraint(err)
	}
	return affectedOrNotFound(res, nil)
}

func (r *usersRepo) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`,
		displayName, time.Now().UTC(), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID))
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, updated_at = ? WHERE id = ?`,
		secret, time.Now().UTC(), userID))
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, updated_at = ? WHERE id = ?`,
		now, now, userID))
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = NULL, mfa_secret = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID))
}

func (r *usersRepo) GetSettings(ctx context.Context, userID string) (domain.Settings, error) {
	var s domain.Settings
	var theme string
	var notifications int64
	err := r.db.QueryRowContext(ctx,
		`SELECT theme, notifications, font_size FROM users WHERE id = ?`, userID).
		Scan(&theme, &notifications, &s.FontSize)
	if err != nil {
		return domain.Settings{}, mapNotFound(err)
	}
	s.Theme = domain.Theme(theme)
	s.Notifications = notifications != 0
	return s, nil
}

func (r *usersRepo) UpdateSettings(ctx context.Context, userID string, s domain.Settings) error {
	notifications := 0
	if s.Notifications {
		notifications = 1
	}
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE users SET theme = ?, notifications = ?, font_size = ?, updated_at = ? WHERE id = ?`,
		string(s.Theme), notifications, s.FontSize, time.Now().UTC(), userID))
}
