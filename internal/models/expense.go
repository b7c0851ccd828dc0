package models

// Expense is money spent on behalf of the group.
//
// The sum of Payers always equals Amount, and so does the sum of Owers. The
// service layer computes the ower shares before the expense is stored.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the money was spent on (e.g., "Dinner").
	Description string

	// Amount is the total in cents.
	Amount int64

	// Payers maps member name to the cents they fronted.
	Payers map[string]int64

	// Owers maps member name to the cents they are responsible for.
	Owers map[string]int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, or 0.
	DeletedAt int64
}
