// Package engine holds the pure fund calculations: pro-rata allocation, the
// distribution waterfall, fund performance metrics and portfolio
// concentration. Nothing in this package performs I/O or mutates its inputs.
package engine

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision amounts are rounded to when split across partners.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// PercentOf returns rate percent of amount.
func PercentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// ProRataShare returns the slice of total owed to a holder of ownershipPercent.
func ProRataShare(total, ownershipPercent decimal.Decimal) decimal.Decimal {
	return PercentOf(total, ownershipPercent)
}

// SharePercent returns part as a percentage of whole, 0 when whole is 0.
func SharePercent(part, whole decimal.Decimal) decimal.Decimal {
	return SafeDiv(part, whole).Mul(hundred)
}

// SafeDiv divides, returning 0 for a zero denominator. An empty fund has no
// meaningful ratio, so zero is the defined answer rather than an error.
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Ratio is SafeDiv reported as a float multiple (DPI, TVPI, MOIC...).
func Ratio(num, den decimal.Decimal) float64 {
	return SafeDiv(num, den).InexactFloat64()
}

// RoundMoney rounds to MoneyPlaces.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(d, decimal.Zero)
}

// SplitProRata splits a non-negative total by the given percentages. Every
// share is first rounded down to MoneyPlaces; the cents left over go one at a
// time to the shares with the largest remainders, earlier shares winning ties.
// No share is negative and the parts add back to total exactly. An empty
// weight list yields an empty result.
func SplitProRata(total decimal.Decimal, percents []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(percents))
	if len(percents) == 0 {
		return shares
	}

	remainders := make([]decimal.Decimal, len(percents))
	allocated := decimal.Zero
	for i, p := range percents {
		exact := ProRataShare(total, NonNegative(p))
		shares[i] = exact.RoundFloor(MoneyPlaces)
		remainders[i] = exact.Sub(shares[i])
		allocated = allocated.Add(shares[i])
	}

	order := make([]int, len(percents))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return remainders[b].Cmp(remainders[a])
	})

	leftover := total.Sub(allocated)
	if leftover.IsNegative() {
		// Percentages above 100 in total; take the excess back from the end.
		for i := len(shares) - 1; i >= 0 && leftover.IsNegative(); i-- {
			take := decimal.Min(shares[i], leftover.Neg())
			shares[i] = shares[i].Sub(take)
			leftover = leftover.Add(take)
		}
		return shares
	}

	// Whole cents are spread evenly first, then one each in remainder order.
	cents := leftover.Div(cent).Floor()
	n := decimal.NewFromInt(int64(len(shares)))
	each := cents.Div(n).Floor()
	extra := cents.Sub(each.Mul(n)).IntPart()
	for rank, i := range order {
		add := each
		if int64(rank) < extra {
			add = add.Add(decimal.NewFromInt(1))
		}
		shares[i] = shares[i].Add(add.Mul(cent))
	}

	// Sub-cent residue from a total finer than MoneyPlaces.
	if residue := leftover.Sub(cents.Mul(cent)); !residue.IsZero() {
		shares[order[0]] = shares[order[0]].Add(residue)
	}

	return shares
}

var cent = decimal.New(1, -MoneyPlaces)

// OwnershipPercents derives each commitment's percentage of the total. The
// result always sums to exactly 100 unless every amount is zero. Leading
// entries are rounded down so the last one, which takes the residue, never
// drops below its exact share.
func OwnershipPercents(amounts []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(amounts))
	total := decimal.Sum(decimal.Zero, amounts...)
	if total.IsZero() || len(amounts) == 0 {
		return out
	}

	assigned := decimal.Zero
	last := len(amounts) - 1
	for i, a := range amounts[:last] {
		out[i] = SharePercent(a, total).RoundFloor(ownershipPlaces)
		assigned = assigned.Add(out[i])
	}
	out[last] = hundred.Sub(assigned)

	return out
}

const ownershipPlaces = 10
