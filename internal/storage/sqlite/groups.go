package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = s.now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, name := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, name, position) VALUES (?, ?, ?)",
			group.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves an active group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return getGroup(ctx, s.db, groupID)
}

func getGroup(ctx context.Context, q queryer, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ? AND deleted_at IS NULL",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT name FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.Members = append(group.Members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return group, nil
}

// ListGroups retrieves every active group with its members, oldest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.created_at, m.name
		 FROM groups g LEFT JOIN group_members m ON m.group_id = g.id
		 WHERE g.deleted_at IS NULL
		 ORDER BY g.created_at, g.rowid, m.position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	var current *models.Group
	for rows.Next() {
		var id, name string
		var createdAt int64
		var member sql.NullString
		if err := rows.Scan(&id, &name, &createdAt, &member); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		if current == nil || current.ID != id {
			current = &models.Group{ID: id, Name: name, CreatedAt: createdAt}
			groups = append(groups, current)
		}
		if member.Valid {
			current.Members = append(current.Members, member.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup soft-deletes a group. Its records stay in place but are no longer
// reachable.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.softDelete(ctx, "groups", "group", groupID)
}

// AddMember appends a member to the end of a group's member list.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireActiveGroup(ctx, tx, groupID); err != nil {
		return err
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND name = ?", groupID, name,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("member %q: %w", name, storage.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check member existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, name, position)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1 FROM group_members WHERE group_id = ?`,
		groupID, name, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResetGroup soft-deletes all active expenses and settlements of a group.
func (s *SQLiteStore) ResetGroup(ctx context.Context, groupID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireActiveGroup(ctx, tx, groupID); err != nil {
		return err
	}

	now := s.now().Unix()
	for _, table := range []string{"expenses", "settlements"} {
		_, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET deleted_at = ? WHERE group_id = ? AND deleted_at IS NULL",
			now, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
