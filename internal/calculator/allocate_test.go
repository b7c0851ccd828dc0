package calculator

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		weights []int64
		want    []int64
	}{
		{
			name:    "remainder goes to the first position",
			total:   100,
			weights: []int64{1, 1, 1},
			want:    []int64{34, 33, 33},
		},
		{
			name:    "zero total",
			total:   0,
			weights: []int64{1, 2, 3},
			want:    []int64{0, 0, 0},
		},
		{
			name:    "no participants",
			total:   100,
			weights: []int64{},
			want:    []int64{},
		},
		{
			name:    "all weights zero",
			total:   100,
			weights: []int64{0, 0},
			want:    []int64{0, 0},
		},
		{
			name:    "remainder skips zero weights",
			total:   101,
			weights: []int64{0, 1, 1},
			want:    []int64{0, 51, 50},
		},
		{
			name:    "exact proportional split",
			total:   10,
			weights: []int64{1, 2, 3, 4},
			want:    []int64{1, 2, 3, 4},
		},
		{
			name:    "remainder is positional, not by weight",
			total:   10,
			weights: []int64{1, 100},
			want:    []int64{1, 9},
		},
		{
			name:    "percentages",
			total:   1000,
			weights: []int64{30, 0, 70},
			want:    []int64{300, 0, 700},
		},
		{
			name:    "single unit between equals",
			total:   1,
			weights: []int64{5, 5},
			want:    []int64{1, 0},
		},
		{
			name:    "negative weights are excluded",
			total:   9,
			weights: []int64{-3, 1, 2},
			want:    []int64{0, 3, 6},
		},
		{
			name:    "negative total",
			total:   -100,
			weights: []int64{1, 1, 1},
			want:    []int64{-34, -33, -33},
		},
		{
			name:    "no overflow on large totals",
			total:   math.MaxInt64,
			weights: []int64{1, 1},
			want:    []int64{math.MaxInt64/2 + 1, math.MaxInt64 / 2},
		},
		{
			name:    "most negative total",
			total:   math.MinInt64,
			weights: []int64{1, 1},
			want:    []int64{math.MinInt64 / 2, math.MinInt64 / 2},
		},
		{
			name:    "weights summing just past 64 bits",
			total:   100,
			weights: []int64{math.MaxInt64, math.MaxInt64, 3},
			want:    []int64{50, 50, 0},
		},
		{
			name:    "weights summing to exactly 2^64",
			total:   100,
			weights: []int64{math.MaxInt64, math.MaxInt64, 2},
			want:    []int64{50, 50, 0},
		},
		{
			name:    "three maximal weights",
			total:   100,
			weights: []int64{math.MaxInt64, math.MaxInt64, math.MaxInt64},
			want:    []int64{34, 33, 33},
		},
		{
			name:    "maximal weights and total",
			total:   math.MaxInt64,
			weights: []int64{math.MaxInt64, math.MaxInt64},
			want:    []int64{math.MaxInt64/2 + 1, math.MaxInt64 / 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.total, tt.weights)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocate_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 2000; i++ {
		total := rng.Int64N(1_000_000)
		weights := make([]int64, rng.IntN(12)+1)
		for j := range weights {
			// roughly a third of the weights are zero
			if rng.IntN(3) > 0 {
				weights[j] = rng.Int64N(1000)
			}
		}

		got := Allocate(total, weights)
		require.Len(t, got, len(weights))

		var sum, weightSum int64
		for j, share := range got {
			sum += share
			weightSum += weights[j]
			if weights[j] == 0 {
				require.Zerof(t, share, "zero weight at %d received %d (weights %v)", j, share, weights)
			}
			require.GreaterOrEqual(t, share, int64(0))
		}
		if weightSum > 0 {
			require.Equalf(t, total, sum, "allocate(%d, %v) = %v", total, weights, got)
		} else {
			require.Zero(t, sum)
		}

		require.Equal(t, got, Allocate(total, weights), "allocation must be deterministic")
	}
}

func TestAllocate_HugeWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for i := 0; i < 500; i++ {
		total := rng.Int64() - rng.Int64()
		weights := make([]int64, rng.IntN(6)+2)
		for j := range weights {
			weights[j] = math.MaxInt64 - rng.Int64N(1_000_000)
		}

		got := Allocate(total, weights)
		require.Len(t, got, len(weights))

		var sum int64
		for _, share := range got {
			var ok bool
			sum, ok = addCents(sum, share)
			require.True(t, ok, "partial sums of %v must stay in range", got)
		}
		require.Equalf(t, total, sum, "allocate(%d, %v) = %v", total, weights, got)
	}
}

func TestEqualWeights(t *testing.T) {
	assert.Equal(t, []int64{1, 1, 1}, EqualWeights(3))
	assert.Empty(t, EqualWeights(0))
	assert.Equal(t, []int64{334, 333, 333}, Allocate(1000, EqualWeights(3)))
}
