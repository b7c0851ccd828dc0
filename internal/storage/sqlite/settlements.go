package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const settlementColumns = "id, group_id, from_member, to_member, amount, note, created_at"

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = s.now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireActiveGroup(ctx, tx, settlement.GroupID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_member, to_member, amount, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromMember, settlement.ToMember,
		settlement.Amount, nullableString(settlement.Note), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSettlement retrieves an active settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ? AND deleted_at IS NULL",
		settlementID,
	)
	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves the active settlements of a group, oldest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return listSettlements(ctx, s.db, groupID)
}

// DeleteSettlement soft-deletes a settlement.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	return s.softDelete(ctx, "settlements", "settlement", settlementID)
}

func listSettlements(ctx context.Context, q queryer, groupID string) ([]*models.Settlement, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+settlementColumns+` FROM settlements
		 WHERE group_id = ? AND deleted_at IS NULL
		 ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

func scanSettlement(row interface{ Scan(...any) error }) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note sql.NullString
	if err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMember,
		&settlement.ToMember, &settlement.Amount, &note, &settlement.CreatedAt); err != nil {
		return nil, err
	}
	settlement.Note = note.String
	return settlement, nil
}
