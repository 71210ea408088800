// Package money holds the shared monetary arithmetic used by the lending
// domain. All amounts are shopspring decimals rounded to 2 decimal places
// using round-half-up; this is the single rounding mode for the whole
// service.
package money

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// ApplyPercentage returns amount * ratePercent / 100 rounded to 2 decimal
// places. The rate is expressed as a percentage, e.g. 12.5 for 12.5%.
func ApplyPercentage(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(ratePercent).Div(oneHundred))
}

// Round2 rounds half-up to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FloorToInt truncates towards negative infinity. Used when displaying
// receivable summaries.
func FloorToInt(d decimal.Decimal) int64 {
	return d.Floor().IntPart()
}

// CeilToInt rounds up to the next integer. Used when displaying payable
// totals. The floor/ceil split between receivables and payables is
// intentional and must stay per call site.
func CeilToInt(d decimal.Decimal) int64 {
	return d.Ceil().IntPart()
}
