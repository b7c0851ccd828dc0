package models

// Settlement is a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromMember paid (the debtor settling up).
	FromMember string

	// ToMember received the payment (the creditor being paid).
	ToMember string

	// Amount is the payment in cents. Always positive.
	Amount int64

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, or 0.
	DeletedAt int64
}
