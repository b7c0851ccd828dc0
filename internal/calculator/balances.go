package calculator

import (
	"maps"
	"slices"
)

// RecordTolerance is how far a record's paid total may drift from its owed total.
// Allocate always reconciles exactly, so any drift is a defect.
const RecordTolerance int64 = 0

// ExpenseRecord is the minimal view of an expense needed for balance calculations.
// All amounts are in cents.
type ExpenseRecord struct {
	ID   string
	Paid map[string]int64 // who fronted money
	Owed map[string]int64 // who is responsible for how much
}

// Totals returns the sum of the paid map and the sum of the owed map. ok is false
// when either sum does not fit in an int64.
func (r ExpenseRecord) Totals() (paid, owed int64, ok bool) {
	paid, ok = sumCents(r.Paid)
	if !ok {
		return paid, 0, false
	}
	owed, ok = sumCents(r.Owed)
	return paid, owed, ok
}

func sumCents(amounts map[string]int64) (int64, bool) {
	var total int64
	for _, amount := range amounts {
		var ok bool
		if total, ok = addCents(total, amount); !ok {
			return total, false
		}
	}
	return total, true
}

// addCents returns a+b; ok is false if the sum leaves the int64 range.
func addCents(a, b int64) (sum int64, ok bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return sum, false
	}
	return sum, true
}

// subCents returns a-b; ok is false if the difference leaves the int64 range.
func subCents(a, b int64) (diff int64, ok bool) {
	diff = a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return diff, false
	}
	return diff, true
}

// ValidateRecord returns an *UnbalancedRecordError if the record's paid and owed
// totals disagree or cannot be represented.
func ValidateRecord(r ExpenseRecord) error {
	paid, owed, ok := r.Totals()
	if !ok {
		return &UnbalancedRecordError{RecordID: r.ID, Paid: paid, Owed: owed, Overflow: true}
	}
	if diff, ok := subCents(paid, owed); !ok || diff > RecordTolerance || diff < -RecordTolerance {
		return &UnbalancedRecordError{RecordID: r.ID, Paid: paid, Owed: owed}
	}
	return nil
}

// Balances maps a participant to their net position in cents.
// Positive = owed money, Negative = owes money. A participant missing from the map
// has a balance of zero.
type Balances map[string]int64

// Participants returns the participants in lexicographic order.
func (b Balances) Participants() []string {
	return slices.Sorted(maps.Keys(b))
}

// Sum returns the total of all balances. It is zero for balances derived from
// balanced records.
func (b Balances) Sum() int64 {
	var sum int64
	for _, amount := range b {
		sum += amount
	}
	return sum
}

// ComputeBalances aggregates net balances across the given records.
//
// Every record is validated before anything is aggregated, so an unbalanced record
// fails the whole call instead of skewing the result. A record that pushes any
// balance out of the int64 range fails the same way, flagged as Overflow.
func ComputeBalances(records []ExpenseRecord) (Balances, error) {
	for _, r := range records {
		if err := ValidateRecord(r); err != nil {
			return nil, err
		}
	}

	balances := make(Balances)
	for _, r := range records {
		for participant, amount := range r.Paid {
			sum, ok := addCents(balances[participant], amount)
			if !ok {
				return nil, overflowed(r)
			}
			balances[participant] = sum
		}
		for participant, amount := range r.Owed {
			diff, ok := subCents(balances[participant], amount)
			if !ok {
				return nil, overflowed(r)
			}
			balances[participant] = diff
		}
	}
	return balances, nil
}

func overflowed(r ExpenseRecord) *UnbalancedRecordError {
	paid, owed, _ := r.Totals()
	return &UnbalancedRecordError{RecordID: r.ID, Paid: paid, Owed: owed, Overflow: true}
}

// Plan computes balances for the records and the transactions that settle them.
func Plan(records []ExpenseRecord) (Balances, []Transaction, error) {
	balances, err := ComputeBalances(records)
	if err != nil {
		return nil, nil, err
	}
	txns, err := Simplify(balances)
	if err != nil {
		return balances, nil, err
	}
	return balances, txns, nil
}
