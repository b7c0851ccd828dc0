package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// GetLedger reads a group and its active records inside one transaction.
func (s *SQLiteStore) GetLedger(ctx context.Context, groupID string) (*models.Ledger, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := listExpenses(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := listSettlements(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	return &models.Ledger{Group: group, Expenses: expenses, Settlements: settlements}, nil
}
