package service

import (
	"github.com/shopspring/decimal"
)

// PrizePool maps tie-groups of rank positions to payouts from a fixed prize
// table (1st place first). A group spanning positions start..start+size-1
// collects the table entries it covers and splits them evenly; positions
// beyond the table contribute nothing.
type PrizePool struct {
	table []decimal.Decimal
}

func NewPrizePool(table []decimal.Decimal) PrizePool {
	return PrizePool{table: table}
}

// Positions returns how many rank positions carry prize money.
func (p PrizePool) Positions() int {
	return len(p.table)
}

// GroupPayout returns the group's total prize and the even per-student share.
// The division is exact decimal arithmetic; no rounding is applied, so a
// two-way tie over 10+7 pays 8.5 each.
func (p PrizePool) GroupPayout(startPosition, size int) (total, perStudent decimal.Decimal) {
	total = decimal.Zero
	if size <= 0 || startPosition < 1 {
		return total, decimal.Zero
	}
	for pos := startPosition; pos < startPosition+size && pos <= len(p.table); pos++ {
		total = total.Add(p.table[pos-1])
	}
	return total, total.Div(decimal.NewFromInt(int64(size)))
}
