package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthlyPayment computes the standard annuity payment for a loan:
// P*r*(1+r)^n / ((1+r)^n - 1), where r is the monthly rate derived from the
// annual percentage rate and n the term in months. The payment is fixed at
// issuance and never recomputed.
//
// A rate that rounds to 0.00% would make the annuity formula divide by zero,
// so that case falls back to straight principal/term.
func MonthlyPayment(principal decimal.Decimal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}

	monthlyRate := annualRatePercent.InexactFloat64() / 12 / 100
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	p := principal.InexactFloat64()
	n := float64(termMonths)
	growth := math.Pow(1+monthlyRate, n)
	payment := p * monthlyRate * growth / (growth - 1)

	return decimal.NewFromFloat(payment).Round(2)
}
