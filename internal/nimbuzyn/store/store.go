package store

import (
	"context"
	"errors"
	"time"

	"github.com/nimbuzyn/nimbuzyn/internal/nimbuzyn/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by the sqlite driver.
// It exposes sub-repositories to keep concerns tidy and testable, and Tx for
// multi-step operations that must be atomic (e.g. sending a message, which
// writes the message row and updates its conversation together).
type Store interface {
	Users() Users
	Contacts() Contacts
	Messages() Messages
	Products() Products

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repositories plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user; id and public id are provided by the
	// service. Returns ErrAlreadyExists when the username or public id is
	// taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetUserByPublicID(ctx context.Context, publicID string) (domain.User, error)

	// PublicIDExists is used by the collision-check loop at registration.
	PublicIDExists(ctx context.Context, publicID string) (bool, error)

	// UpdateUsername returns ErrAlreadyExists when the name is taken.
	UpdateUsername(ctx context.Context, userID, username string) error
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateMFASecret stores a pending TOTP secret; EnableMFA activates it;
	// DisableMFA clears both secret and activation timestamp.
	UpdateMFASecret(ctx context.Context, userID, secret string) error
	EnableMFA(ctx context.Context, userID string) error
	DisableMFA(ctx context.Context, userID string) error

	GetSettings(ctx context.Context, userID string) (domain.Settings, error)
	UpdateSettings(ctx context.Context, userID string, s domain.Settings) error
}

type Contacts interface {
	// CreateContact returns ErrAlreadyExists for a duplicate
	// (owner, contact) pair.
	CreateContact(ctx context.Context, c domain.Contact) error

	GetContact(ctx context.Context, ownerID, contactID string) (domain.Contact, error)

	SetFavorite(ctx context.Context, ownerID, contactID string, favorite bool) error
	SetClassification(ctx context.Context, ownerID, contactID string, cl domain.Classification) error
	DeleteContact(ctx context.Context, ownerID, contactID string) error

	// ListContacts returns the owner's contacts joined with the target
	// user's display fields, ordered favorites first and then by display
	// name ascending, case-insensitive. Filter of nil means both groups.
	ListContacts(ctx context.Context, ownerID string, filter *domain.Classification) ([]domain.Contact, error)
}

type Messages interface {
	// GetConversation looks up the conversation row for a participant pair
	// without creating one. Callers pass ids in any order; the driver
	// normalises them. Returns ErrNotFound when the pair has never talked.
	GetConversation(ctx context.Context, userA, userB string) (domain.Conversation, error)

	// GetOrCreateConversation resolves the single conversation row for a
	// participant pair, creating it on first contact. Only the send path
	// should create; read paths use GetConversation.
	GetOrCreateConversation(ctx context.Context, userA, userB string) (domain.Conversation, error)

	// CreateMessage appends one immutable message row.
	CreateMessage(ctx context.Context, m domain.Message) error

	// BumpConversation records the latest message preview and increments
	// the recipient's unread counter.
	BumpConversation(ctx context.Context, conversationID, preview string, at time.Time, recipientID string) error

	// ListMessages returns the conversation log ordered by sent time then
	// id. Limit <= 0 means no limit.
	ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error)

	// ListConversations returns every conversation the user participates
	// in, most recently active first.
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)

	// MarkConversationRead zeroes the user's unread counter.
	MarkConversationRead(ctx context.Context, conversationID, userID string) error
}

type Products interface {
	// CreateProduct returns ErrAlreadyExists for a duplicate
	// (owner, code) pair.
	CreateProduct(ctx context.Context, p domain.Product) error

	GetProduct(ctx context.Context, ownerID, productID string) (domain.Product, error)

	// UpdateProduct rewrites all mutable fields; ErrAlreadyExists when the
	// new code collides with another product of the same owner.
	UpdateProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, ownerID, productID string) error

	ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error)

	// SearchProducts matches query as a case-insensitive substring of code
	// or name.
	SearchProducts(ctx context.Context, ownerID, query string) ([]domain.Product, error)

	// SummarizeInventory aggregates from the authoritative quantity/value
	// columns; profit is recomputed in the query, never read back from the
	// stored derived column.
	SummarizeInventory(ctx context.Context, ownerID string) (domain.InventorySummary, error)
}
