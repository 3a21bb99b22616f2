package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/olviko/shiftledger/internal/domain"
)

// Amounts are stored as BIGINT minor units, scaled by 10^AmountScale.
// Fixed-point storage keeps turnover arithmetic exact and cheap to sum.

func decimalToMinor(d decimal.Decimal) int64 {
	return d.Shift(domain.AmountScale).IntPart()
}

func minorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -domain.AmountScale)
}
