package service

import "github.com/shopspring/decimal"

// round2 rounds half away from zero to 2 decimal places through decimal
// arithmetic, avoiding float drift on money values.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// computeAmounts derives the snapshot for a base amount and a percentage
// rate: tax = round2(base*rate/100), total = round2(base+tax).
func computeAmounts(base, rate float64) (tax, total float64) {
	b := decimal.NewFromFloat(base)
	t := b.Mul(decimal.NewFromFloat(rate)).Div(decimal.NewFromInt(100)).Round(2)
	tax, _ = t.Float64()
	total, _ = b.Add(t).Round(2).Float64()
	return tax, total
}
