package calculator

import (
	"math/bits"

	"github.com/shopspring/decimal"
)

// Allocate splits total across the given weights so that the parts sum exactly
// to total.
//
// Each position first receives floor(|total| * weight / sum(weights)), computed
// with 128-bit intermediate products so no precision is lost. When the weights
// themselves add up past 64 bits the shares are computed with arbitrary-precision
// decimals instead. The units left over by truncation (always fewer than the
// number of positive weights) are then handed out one at a time to
// positive-weight positions in input order. The first participants absorb the
// rounding remainder regardless of their weight.
//
// A weight of zero (or a negative weight) never receives a unit. When all weights
// are zero, or there are none, every position gets zero. A negative total is
// allocated by magnitude and negated.
func Allocate(total int64, weights []int64) []int64 {
	shares := make([]int64, len(weights))

	// Two's complement negation in uint64 also covers math.MinInt64.
	magnitude := uint64(total)
	if total < 0 {
		magnitude = -magnitude
	}

	var sum uint64
	var overflow bool
	for _, w := range weights {
		if w <= 0 {
			continue
		}
		var carry uint64
		sum, carry = bits.Add64(sum, uint64(w), 0)
		overflow = overflow || carry != 0
	}
	if magnitude == 0 || (sum == 0 && !overflow) {
		return shares
	}

	parts := make([]uint64, len(weights))
	if overflow {
		allocateWide(magnitude, weights, parts)
	} else {
		for i, w := range weights {
			if w <= 0 {
				continue
			}
			// magnitude*w/sum <= magnitude, so hi < sum and the quotient fits in 64 bits.
			hi, lo := bits.Mul64(magnitude, uint64(w))
			parts[i], _ = bits.Div64(hi, lo, sum)
		}
	}

	var allocated uint64
	for _, p := range parts {
		allocated += p
	}
	remainder := magnitude - allocated
	for i := 0; remainder > 0; i++ {
		if weights[i] <= 0 {
			continue
		}
		parts[i]++
		remainder--
	}

	for i, p := range parts {
		if total < 0 {
			shares[i] = int64(-p)
		} else {
			shares[i] = int64(p)
		}
	}
	return shares
}

// allocateWide fills parts with floor(magnitude*w/sum) for weight sums that do
// not fit in 64 bits.
func allocateWide(magnitude uint64, weights []int64, parts []uint64) {
	sum := decimal.Zero
	for _, w := range weights {
		if w > 0 {
			sum = sum.Add(decimal.NewFromInt(w))
		}
	}
	m := decimal.NewFromUint64(magnitude)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		q, _ := m.Mul(decimal.NewFromInt(w)).QuoRem(sum, 0)
		// sum exceeds every single weight, so q < magnitude.
		parts[i] = q.BigInt().Uint64()
	}
}

// EqualWeights returns n weights of 1, the weight vector for an even split.
func EqualWeights(n int) []int64 {
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = 1
	}
	return weights
}
