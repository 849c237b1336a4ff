package sqlite

import (
	"context"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

type contactsRepo struct {
	db dbtx
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	favorite := 0
	if c.Favorite {
		favorite = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, owner_id, contact_id, classification, favorite, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.ContactID, string(c.Classification), favorite, c.AddedAt,
	)
	return mapConstraint(err)
}

const contactSelect = `
	SELECT c.id, c.owner_id, c.contact_id, c.classification, c.favorite, c.added_at,
		u.display_name, u.public_id, u.avatar_color
	FROM contacts c
	JOIN users u ON u.id = c.contact_id`

func (r *contactsRepo) GetContact(ctx context.Context, ownerID, contactID string) (domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		contactSelect+` WHERE c.owner_id = ? AND c.contact_id = ?`, ownerID, contactID)

	var c domain.Contact
	var classification string
	var favorite int64
	err := row.Scan(&c.ID, &c.OwnerID, &c.ContactID, &classification, &favorite,
		&c.AddedAt, &c.DisplayName, &c.PublicID, &c.AvatarColor)
	if err != nil {
		return domain.Contact{}, mapNotFound(err)
	}
	c.Classification = domain.Classification(classification)
	c.Favorite = favorite != 0
	return c, nil
}

func (r *contactsRepo) SetFavorite(ctx context.Context, ownerID, contactID string, favorite bool) error {
	val := 0
	if favorite {
		val = 1
	}
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE contacts SET favorite = ? WHERE owner_id = ? AND contact_id = ?`,
		val, ownerID, contactID))
}

func (r *contactsRepo) SetClassification(ctx context.Context, ownerID, contactID string, cl domain.Classification) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE contacts SET classification = ? WHERE owner_id = ? AND contact_id = ?`,
		string(cl), ownerID, contactID))
}

func (r *contactsRepo) DeleteContact(ctx context.Context, ownerID, contactID string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE owner_id = ? AND contact_id = ?`,
		ownerID, contactID))
}

func (r *contactsRepo) ListContacts(ctx context.Context, ownerID string, filter *domain.Classification) ([]domain.Contact, error) {
	// Favorites form a contiguous leading group; both groups sort by the
	// target's display name, case-insensitively. Computed here at query
	// time so the ordering stays correct as favorite flags change.
	query := contactSelect + ` WHERE c.owner_id = ?`
	args := []any{ownerID}
	if filter != nil {
		query += ` AND c.classification = ?`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY c.favorite DESC, u.display_name COLLATE NOCASE ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		var classification string
		var favorite int64
		err := rows.Scan(&c.ID, &c.OwnerID, &c.ContactID, &classification, &favorite,
			&c.AddedAt, &c.DisplayName, &c.PublicID, &c.AvatarColor)
		if err != nil {
			return nil, err
		}
		c.Classification = domain.Classification(classification)
		c.Favorite = favorite != 0
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
