package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// CreateExpense persists an expense with its payer and ower shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = s.now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireActiveGroup(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, group_id, description, amount, created_at) VALUES (?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for member, amount := range expense.Payers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, member, amount) VALUES (?, ?, ?)",
			expense.ID, member, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense payer: %w", err)
		}
	}

	for member, amount := range expense.Owers {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_owers (expense_id, member, amount) VALUES (?, ?, ?)",
			expense.ID, member, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense ower: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an active expense by ID with its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, created_at
		 FROM expenses WHERE id = ? AND deleted_at IS NULL`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	byID := map[string]*models.Expense{expense.ID: expense}
	if err := loadShares(ctx, s.db, byID, "expense_id = ?", expenseID); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves the active expenses of a group, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, groupID)
}

// DeleteExpense soft-deletes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.softDelete(ctx, "expenses", "expense", expenseID)
}

func listExpenses(ctx context.Context, q queryer, groupID string) ([]*models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, description, amount, created_at
		 FROM expenses WHERE group_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Description,
			&expense.Amount, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}
	where := "expense_id IN (SELECT id FROM expenses WHERE group_id = ? AND deleted_at IS NULL)"
	if err := loadShares(ctx, q, byID, where, groupID); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadShares fills Payers and Owers of the expenses in byID from the share rows
// matching where.
func loadShares(ctx context.Context, q queryer, byID map[string]*models.Expense, where string, arg any) error {
	for _, e := range byID {
		e.Payers = make(map[string]int64)
		e.Owers = make(map[string]int64)
	}

	tables := []struct {
		name  string
		field func(*models.Expense) map[string]int64
	}{
		{"expense_payers", func(e *models.Expense) map[string]int64 { return e.Payers }},
		{"expense_owers", func(e *models.Expense) map[string]int64 { return e.Owers }},
	}

	for _, table := range tables {
		rows, err := q.QueryContext(ctx,
			"SELECT expense_id, member, amount FROM "+table.name+" WHERE "+where, arg)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", table.name, err)
		}

		for rows.Next() {
			var expenseID, member string
			var amount int64
			if err := rows.Scan(&expenseID, &member, &amount); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan %s: %w", table.name, err)
			}
			if e, ok := byID[expenseID]; ok {
				table.field(e)[member] = amount
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate %s: %w", table.name, err)
		}
	}
	return nil
}
