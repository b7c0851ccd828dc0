package calculator

import (
	"maps"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name     string
		balances Balances
		want     []Transaction
	}{
		{
			name:     "empty",
			balances: Balances{},
			want:     []Transaction{},
		},
		{
			name:     "everyone even",
			balances: Balances{"a": 0, "b": 0},
			want:     []Transaction{},
		},
		{
			name:     "a single cent counts as settled",
			balances: Balances{"a": 0, "b": 1},
			want:     []Transaction{},
		},
		{
			name:     "two cents is a debt",
			balances: Balances{"a": 2, "b": -2},
			want:     []Transaction{{From: "b", To: "a", Amount: 2}},
		},
		{
			name:     "one creditor, two debtors",
			balances: Balances{"A": 600, "B": -300, "C": -300},
			want: []Transaction{
				{From: "B", To: "A", Amount: 300},
				{From: "C", To: "A", Amount: 300},
			},
		},
		{
			name:     "largest debtor first",
			balances: Balances{"A": 50, "B": -20, "C": -30},
			want: []Transaction{
				{From: "C", To: "A", Amount: 30},
				{From: "B", To: "A", Amount: 20},
			},
		},
		{
			name:     "ties break by name",
			balances: Balances{"d": -10, "c": -10, "b": 10, "a": 10},
			want: []Transaction{
				{From: "c", To: "a", Amount: 10},
				{From: "d", To: "b", Amount: 10},
			},
		},
		{
			name:     "partially settled creditor is matched again",
			balances: Balances{"A": 100, "B": -70, "C": -30, "D": 50, "E": -50},
			want: []Transaction{
				{From: "B", To: "A", Amount: 70},
				{From: "E", To: "D", Amount: 50},
				{From: "C", To: "A", Amount: 30},
			},
		},
		{
			name:     "settled cents absorb a small creditor",
			balances: Balances{"a": 3, "b": -1, "c": -1, "d": -1},
			want:     []Transaction{},
		},
		{
			name:     "cents left over after matching absorb a small debtor",
			balances: Balances{"a": 7, "b": 7, "c": -6, "d": -6, "e": -2},
			want: []Transaction{
				{From: "c", To: "a", Amount: 6},
				{From: "d", To: "b", Amount: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simplify(tt.balances)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimplify_DoesNotModifyInput(t *testing.T) {
	balances := Balances{"A": 600, "B": -300, "C": -300}
	before := maps.Clone(balances)

	_, err := Simplify(balances)
	require.NoError(t, err)
	assert.Equal(t, before, balances)
}

func TestSimplify_InvariantViolation(t *testing.T) {
	t.Run("creditor with nobody to pay", func(t *testing.T) {
		txns, err := Simplify(Balances{"a": 500})
		assert.Nil(t, txns)

		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "a", violation.Participant)
		assert.Equal(t, int64(500), violation.Residual)
	})

	t.Run("debtor outlasts creditors", func(t *testing.T) {
		txns, err := Simplify(Balances{"a": -500, "b": 100})
		assert.Nil(t, txns)

		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "a", violation.Participant)
		assert.Equal(t, int64(-400), violation.Residual)
		assert.Zero(t, violation.Absorbable)
		assert.Contains(t, err.Error(), "a left with -400")
	})

	t.Run("residual beyond int64", func(t *testing.T) {
		txns, err := Simplify(Balances{"a": math.MaxInt64, "b": math.MaxInt64, "c": 2})
		assert.Nil(t, txns)

		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
	})

	t.Run("most negative balance", func(t *testing.T) {
		txns, err := Simplify(Balances{"a": math.MinInt64, "b": math.MaxInt64})
		assert.Nil(t, txns)

		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, "a", violation.Participant)
		assert.Equal(t, int64(math.MinInt64), violation.Residual)
	})
}

func TestSimplify_SettlesWholeAmounts(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))

	for round := 0; round < 500; round++ {
		balances := randomBalances(rng, rng.IntN(10)+1, 100)

		txns, err := Simplify(balances)
		require.NoError(t, err)

		after := apply(balances, txns)
		for id, amount := range after {
			require.Zerof(t, amount, "%s left with %d; balances %v, txns %v", id, amount, balances, txns)
		}
	}
}

func TestSimplify_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 27))

	for round := 0; round < 1000; round++ {
		n := rng.IntN(12) + 1
		balances := randomBalances(rng, n, 1)

		txns, err := Simplify(balances)
		require.NoErrorf(t, err, "balances %v", balances)

		var creditors, debtors int
		for _, amount := range balances {
			switch {
			case amount > SettledThreshold:
				creditors++
			case amount < -SettledThreshold:
				debtors++
			}
		}
		if creditors+debtors > 0 {
			require.LessOrEqual(t, len(txns), creditors+debtors-1)
		} else {
			require.Empty(t, txns)
		}

		for _, txn := range txns {
			require.Positive(t, txn.Amount)
			require.NotEqual(t, txn.From, txn.To)
			require.Negative(t, balances[txn.From], "payer must be a debtor")
			require.Positive(t, balances[txn.To], "payee must be a creditor")
		}

		// Nobody overshoots: a debtor never becomes a creditor or vice versa,
		// and what is left over is bounded by the dropped cents.
		after := apply(balances, txns)
		var leftover int64
		for id, amount := range after {
			before := balances[id]
			require.False(t, before > 0 && amount < 0, "%s flipped from %d to %d", id, before, amount)
			require.False(t, before < 0 && amount > 0, "%s flipped from %d to %d", id, before, amount)
			leftover += abs(amount)
		}
		require.LessOrEqual(t, leftover, int64(2*n))

		again, err := Simplify(balances)
		require.NoError(t, err)
		require.Equal(t, txns, again, "simplify must be deterministic")
	}
}

func TestSimplify_RecordsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(100, 200))
	members := []string{"ana", "ben", "cai", "dev"}

	records := make([]ExpenseRecord, 0, 30)
	for i := 0; i < 30; i++ {
		records = append(records, randomRecord(rng, "", members))
	}

	balances, txns, err := Plan(records)
	require.NoError(t, err)

	// Recording the plan as repayments leaves nothing to settle.
	for _, txn := range txns {
		records = append(records, ExpenseRecord{
			Paid: map[string]int64{txn.From: txn.Amount},
			Owed: map[string]int64{txn.To: txn.Amount},
		})
	}
	settled, err := ComputeBalances(records)
	require.NoError(t, err)
	assert.Equal(t, apply(balances, txns), settled)

	remaining, err := Simplify(settled)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

// randomBalances returns n zero-sum balances, each a multiple of unit.
func randomBalances(rng *rand.Rand, n int, unit int64) Balances {
	names := []string{"ana", "ben", "cai", "dev", "eli", "fay", "gus", "hal", "ivy", "jon", "kim", "lea"}
	balances := make(Balances, n)
	var sum int64
	for i := 0; i < n-1; i++ {
		amount := (rng.Int64N(2001) - 1000) * unit
		balances[names[i]] = amount
		sum += amount
	}
	balances[names[n-1]] = -sum
	return balances
}

// apply returns the balances after every transaction has been paid.
func apply(b Balances, txns []Transaction) Balances {
	out := maps.Clone(b)
	for _, t := range txns {
		out[t.From] += t.Amount
		out[t.To] -= t.Amount
	}
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
