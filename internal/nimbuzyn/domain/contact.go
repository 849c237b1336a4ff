package domain

import "time"

// Classification partitions a contact list into its two display groups.
type Classification string

const (
	ClassificationFriend       Classification = "friend"
	ClassificationAcquaintance Classification = "acquaintance"
)

// Valid reports whether c is one of the two known classifications.
func (c Classification) Valid() bool {
	return c == ClassificationFriend || c == ClassificationAcquaintance
}

// Contact is a directed relationship: the owner added the target. The target
// may or may not have added the owner back; nothing here is mutual.
type Contact struct {
	ID             string
	OwnerID        string
	ContactID      string // target user's internal id
	Classification Classification
	Favorite       bool
	AddedAt        time.Time

	// Denormalised from the target user at query time for display and
	// ordering; never stored on the contact row.
	DisplayName string
	PublicID    string
	AvatarColor uint32
}
