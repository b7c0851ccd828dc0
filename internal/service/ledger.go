package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Plan is a group's computed position: who stands where and who should pay whom.
type Plan struct {
	Group *models.Group

	// Balances holds every member and every record participant. Positive means
	// owed money.
	Balances calculator.Balances

	// Paid and Owed are gross cents per participant across all records.
	Paid map[string]int64
	Owed map[string]int64

	Transactions []calculator.Transaction
}

// Ledger turns a group's stored records into balances and a settlement plan.
// Both the RPC services and the event worker use it.
type Ledger struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewLedger creates a Ledger. m may be nil.
func NewLedger(store storage.Store, m *metrics.Metrics) *Ledger {
	return &Ledger{store: store, metrics: m}
}

// Plan reads the group's active records in one consistent snapshot and settles them.
func (l *Ledger) Plan(ctx context.Context, groupID string) (*Plan, error) {
	ledger, err := l.store.GetLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	records := Records(ledger)
	balances, err := calculator.ComputeBalances(records)
	if err != nil {
		var unbalanced *calculator.UnbalancedRecordError
		if errors.As(err, &unbalanced) {
			l.metrics.IncUnbalanced()
		}
		return nil, fmt.Errorf("failed to compute balances for group %s: %w", groupID, err)
	}
	for _, member := range ledger.Group.Members {
		if _, ok := balances[member]; !ok {
			balances[member] = 0
		}
	}

	txns, err := calculator.Simplify(balances)
	if err != nil {
		return nil, fmt.Errorf("failed to settle group %s: %w", groupID, err)
	}
	l.metrics.ObservePlan(len(txns))

	plan := &Plan{
		Group:        ledger.Group,
		Balances:     balances,
		Paid:         make(map[string]int64, len(balances)),
		Owed:         make(map[string]int64, len(balances)),
		Transactions: txns,
	}
	for _, r := range records {
		for member, amount := range r.Paid {
			plan.Paid[member] += amount
		}
		for member, amount := range r.Owed {
			plan.Owed[member] += amount
		}
	}
	return plan, nil
}

// Records flattens expenses and settlements into calculator records. A settlement
// from A to B counts as A paying an amount that B owes.
func Records(ledger *models.Ledger) []calculator.ExpenseRecord {
	records := make([]calculator.ExpenseRecord, 0, len(ledger.Expenses)+len(ledger.Settlements))
	for _, e := range ledger.Expenses {
		records = append(records, calculator.ExpenseRecord{ID: e.ID, Paid: e.Payers, Owed: e.Owers})
	}
	for _, s := range ledger.Settlements {
		records = append(records, calculator.ExpenseRecord{
			ID:   s.ID,
			Paid: map[string]int64{s.FromMember: s.Amount},
			Owed: map[string]int64{s.ToMember: s.Amount},
		})
	}
	return records
}
