package calculator

import (
	"container/heap"
	"math"
)

// SettledThreshold is the largest balance magnitude, in cents, that counts as
// settled. Such balances never produce a transaction.
const SettledThreshold int64 = 1

// Transaction is a recommended transfer from a debtor to a creditor.
type Transaction struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount int64  // Always positive
}

// party is one side of the matching; amount is the magnitude still to settle.
type party struct {
	id     string
	amount int64
}

// partyHeap pops the largest magnitude first. Equal magnitudes pop in
// lexicographic order of id so runs over the same input are identical.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].amount != h[j].amount {
		return h[i].amount > h[j].amount
	}
	return h[i].id < h[j].id
}
func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)   { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Simplify reduces balances to a short list of transfers.
//
// Algorithm (greedy extremal matching):
//   - balances with magnitude <= SettledThreshold are settled and dropped
//   - repeatedly match the largest debtor with the largest creditor
//   - transfer min(debt, credit); whoever still has more than the threshold
//     left goes back into its queue
//   - stop when either side runs out
//
// The result has at most (#creditors + #debtors - 1) transactions. An empty
// result means everyone is settled.
//
// Sub-threshold amounts dropped along the way are tracked; if one side is left
// holding more than the other side's dropped amounts can explain, the balances
// never netted to zero and an *InvariantViolationError is returned. A debt of
// math.MinInt64 has no positive counterpart and is rejected the same way.
func Simplify(balances Balances) ([]Transaction, error) {
	var creditors, debtors partyHeap
	var creditNoise, debitNoise int64

	for _, id := range balances.Participants() {
		amount := balances[id]
		switch {
		case amount == math.MinInt64:
			return nil, &InvariantViolationError{Participant: id, Residual: amount}
		case amount > SettledThreshold:
			creditors = append(creditors, party{id: id, amount: amount})
		case amount < -SettledThreshold:
			debtors = append(debtors, party{id: id, amount: -amount})
		case amount > 0:
			creditNoise += amount
		case amount < 0:
			debitNoise -= amount
		}
	}
	heap.Init(&creditors)
	heap.Init(&debtors)

	txns := make([]Transaction, 0, max(len(creditors)+len(debtors)-1, 0))
	for creditors.Len() > 0 && debtors.Len() > 0 {
		debtor := heap.Pop(&debtors).(party)
		creditor := heap.Pop(&creditors).(party)

		amount := min(debtor.amount, creditor.amount)
		txns = append(txns, Transaction{From: debtor.id, To: creditor.id, Amount: amount})

		debtor.amount -= amount
		creditor.amount -= amount

		if debtor.amount > SettledThreshold {
			heap.Push(&debtors, debtor)
		} else {
			debitNoise += debtor.amount
		}
		if creditor.amount > SettledThreshold {
			heap.Push(&creditors, creditor)
		} else {
			creditNoise += creditor.amount
		}
	}

	if err := checkResidual(creditors, debitNoise, 1); err != nil {
		return nil, err
	}
	if err := checkResidual(debtors, creditNoise, -1); err != nil {
		return nil, err
	}
	return txns, nil
}

// checkResidual fails if the parties left unmatched hold more than absorbable.
// sign is +1 for creditors and -1 for debtors.
func checkResidual(left partyHeap, absorbable int64, sign int64) error {
	if left.Len() == 0 {
		return nil
	}
	var residual int64
	fits := true
	for _, p := range left {
		if residual, fits = addCents(residual, p.amount); !fits {
			break
		}
	}
	if fits && residual <= absorbable {
		return nil
	}
	top := left[0]
	return &InvariantViolationError{
		Participant: top.id,
		Residual:    sign * top.amount,
		Absorbable:  absorbable,
	}
}
