package api

// Expense is money spent on behalf of the group.
type Expense struct {
	ID          string           `json:"id"`
	GroupID     string           `json:"group_id"`
	Description string           `json:"description"`
	AmountCents int64            `json:"amount_cents"`
	Amount      string           `json:"amount"`
	Payers      map[string]int64 `json:"payers_cents"`
	Owers       map[string]int64 `json:"owers_cents"`
	CreatedAt   int64            `json:"created_at"`
}

// CreateExpenseRequest records an expense.
//
// Exactly one of PaidBy and Payers names who fronted the money; PaidBy covers the
// whole amount. The owers are either ExactShares, or SplitAmong (default: every
// group member) with optional Weights (default: 1 each).
type CreateExpenseRequest struct {
	GroupID     string            `json:"group_id"`
	Description string            `json:"description"`
	Amount      string            `json:"amount"`
	PaidBy      string            `json:"paid_by,omitempty"`
	Payers      map[string]string `json:"payers,omitempty"`
	SplitAmong  []string          `json:"split_among,omitempty"`
	Weights     []int64           `json:"weights,omitempty"`
	ExactShares map[string]string `json:"exact_shares,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}
