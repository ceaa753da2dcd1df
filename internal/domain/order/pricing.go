package order

import "github.com/shopspring/decimal"

// Price returns unitPrice × quantity rounded to cents, computed in decimal
// so that e.g. 0.1 × 3 yields 0.3.
func Price(unitPrice float64, quantity int) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	return total.InexactFloat64()
}
