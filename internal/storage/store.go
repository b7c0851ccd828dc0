// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup of a missing or soft-deleted row.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is wrapped when a member name is already taken in a group.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group with its initial members.
	// The group.ID and group.CreatedAt fields are populated by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves an active group and its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns every active group, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup soft-deletes a group.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMember appends a member to a group.
	// Returns an error wrapping ErrAlreadyExists if the name is taken.
	AddMember(ctx context.Context, groupID, name string) error

	// ResetGroup soft-deletes every active expense and settlement of a group in a
	// single transaction. Members are kept.
	ResetGroup(ctx context.Context, groupID string) error

	// CreateExpense persists an expense with its payers and owers atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an active expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns the active expenses of a group, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense soft-deletes an expense.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a repayment between two members.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves an active settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns the active settlements of a group, oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement soft-deletes a settlement.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// GetLedger reads a group with all of its active expenses and settlements
	// inside one transaction, so balances are never computed from a torn read.
	GetLedger(ctx context.Context, groupID string) (*models.Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}
