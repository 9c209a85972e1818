package services

import (
	"time"

	"novabank/internal/config"
	"novabank/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// networkPrefixes maps card networks to their leading digit.
var networkPrefixes = map[string]string{
	models.NetworkVisa:       "4",
	models.NetworkMastercard: "5",
}

// GenerateCard builds a new card with a randomized number, expiry, and CVV
// and the configured default limit and APR. The first statement is empty and
// the payment due date sits one billing cycle out.
func GenerateCard(cfg config.LedgerConfig, now time.Time) models.Card {
	network := gofakeit.RandomString([]string{models.NetworkVisa, models.NetworkMastercard})
	number := networkPrefixes[network] + gofakeit.DigitN(uint(models.CardNumberLength-1))

	return models.Card{
		CardNumber:       number,
		ExpiryDate:       now.AddDate(cfg.CardValidityYears, 0, 0).Format("01/06"),
		CVV:              gofakeit.DigitN(3),
		Network:          network,
		CreditLimit:      decimal.NewFromFloat(cfg.DefaultCreditLimit),
		CreditBalance:    decimal.Zero,
		APR:              decimal.NewFromFloat(cfg.DefaultAPR),
		StatementBalance: decimal.Zero,
		MinimumPayment:   decimal.Zero,
		PaymentDueDate:   now.AddDate(0, 1, 0),
	}
}

// DrawLoanRate draws an annual interest rate uniformly from the configured
// band, rounded to 2 decimal places.
func DrawLoanRate(cfg config.LedgerConfig) decimal.Decimal {
	rate := gofakeit.Float64Range(cfg.LoanRateMin, cfg.LoanRateMax)
	return decimal.NewFromFloat(rate).Round(2)
}

// FirstOfNextMonth returns midnight on the first day of the month after t,
// in t's location.
func FirstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}
