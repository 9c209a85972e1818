package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		termMonths int
		expected   string
	}{
		{
			name:       "standard 3 year loan",
			principal:  10000,
			annualRate: 12.00,
			termMonths: 36,
			expected:   "332.14",
		},
		{
			name:       "small short loan",
			principal:  1000,
			annualRate: 6.00,
			termMonths: 12,
			expected:   "86.07",
		},
		{
			name:       "zero rate falls back to straight principal over term",
			principal:  1200,
			annualRate: 0,
			termMonths: 12,
			expected:   "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := MonthlyPayment(
				decimal.NewFromFloat(tt.principal),
				decimal.NewFromFloat(tt.annualRate),
				tt.termMonths,
			)
			assert.Equal(t, tt.expected, payment.String())
		})
	}
}

func TestMonthlyPayment_InvalidTerm(t *testing.T) {
	payment := MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(12), 0)
	assert.True(t, payment.IsZero())

	payment = MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(12), -6)
	assert.True(t, payment.IsZero())
}

func TestMonthlyPayment_PaysOffWithinTerm(t *testing.T) {
	principal := decimal.NewFromInt(25000)
	rate := decimal.NewFromFloat(8.50)
	term := 60

	payment := MonthlyPayment(principal, rate, term)
	total := payment.Mul(decimal.NewFromInt(int64(term)))

	// The fixed payment must cover principal plus interest, and the rounded
	// total should stay within one payment of the exact annuity.
	assert.True(t, total.GreaterThan(principal))
	assert.True(t, total.LessThan(principal.Mul(decimal.NewFromFloat(1.5))))
}
