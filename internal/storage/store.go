// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/spendwise-app/SpendWise/internal/models"
)

// ErrNotFound is returned when an identity or expense does not exist.
var ErrNotFound = errors.New("not found")

// IdentityStore persists identities and their friend-graph fields.
type IdentityStore interface {
	// CreateIdentity inserts a new identity.
	CreateIdentity(ctx context.Context, identity *models.Identity) error

	// GetIdentity retrieves an identity by ID, including its friend graph.
	// Returns ErrNotFound if it does not exist.
	GetIdentity(ctx context.Context, id string) (*models.Identity, error)

	// GetIdentityByEmail retrieves an identity by email.
	// Returns ErrNotFound if it does not exist.
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)

	// GetIdentitiesByIDs retrieves several identities keyed by ID.
	// Missing IDs are omitted from the result.
	GetIdentitiesByIDs(ctx context.Context, ids []string) (map[string]*models.Identity, error)

	// SaveIdentity overwrites the identity's profile and friend-graph sets.
	SaveIdentity(ctx context.Context, identity *models.Identity) error
}

// ExpenseStore persists expenses and their shares.
type ExpenseStore interface {
	// CreateExpense persists a new expense. The ID and CreatedAt fields
	// are populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its shares.
	// Returns ErrNotFound if it does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// SaveExpense overwrites the expense amount and share states.
	SaveExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesSharedWith returns every expense with a share for identityID,
	// newest date first. Shares are returned unfiltered.
	ListExpensesSharedWith(ctx context.Context, identityID string) ([]*models.Expense, error)

	// ListExpensesByOwner returns the identity's own expenses, newest date first.
	ListExpensesByOwner(ctx context.Context, ownerID string) ([]*models.Expense, error)
}

// InboxStore persists per-identity pending payment requests.
type InboxStore interface {
	// AppendInboxEntry adds entry to identityID's inbox.
	// An existing entry for the same expense is replaced.
	AppendInboxEntry(ctx context.Context, identityID string, entry models.InboxEntry) error

	// RemoveInboxEntry removes and returns the entry for expenseID.
	// Returns nil, nil when there is no such entry.
	RemoveInboxEntry(ctx context.Context, identityID, expenseID string) (*models.InboxEntry, error)

	// ListInbox returns identityID's pending entries, oldest first.
	ListInbox(ctx context.Context, identityID string) ([]models.InboxEntry, error)
}

// Tx is a unit of work. Everything written through it commits together or not at all.
type Tx interface {
	IdentityStore
	ExpenseStore
	InboxStore
}

// Store defines the interface for SpendWise storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the domain packages.
type Store interface {
	IdentityStore
	ExpenseStore
	InboxStore

	// InTx runs fn inside a single transaction. It commits when fn returns nil
	// and rolls back otherwise, returning fn's error unchanged.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
