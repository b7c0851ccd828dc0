package models

import "slices"

// Group is a set of members who split expenses with each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Members are the member names in the order they joined.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, or 0.
	DeletedAt int64
}

// HasMember reports whether name is a member of the group.
func (g *Group) HasMember(name string) bool {
	return slices.Contains(g.Members, name)
}

// Ledger is a consistent snapshot of a group's active records.
type Ledger struct {
	Group       *Group
	Expenses    []*Expense
	Settlements []*Settlement
}
