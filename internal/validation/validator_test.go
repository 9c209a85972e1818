package validation

import (
	"testing"

	"novabank/internal/dto"

	"github.com/stretchr/testify/assert"
)

func validCardApplication() dto.CardApplication {
	return dto.CardApplication{
		FullName:         "Alice Johnson",
		Address:          "12 Market Street",
		DateOfBirth:      "1990-04-02",
		EmploymentStatus: "employed",
		Employer:         "Initech",
		AnnualIncome:     85000,
	}
}

func TestValidator_CardApplication(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(validCardApplication()))
}

func TestValidator_CardApplication_MissingFields(t *testing.T) {
	v := NewValidator()

	application := validCardApplication()
	application.FullName = ""
	application.Employer = ""

	err := v.Struct(application)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "full_name is required")
	assert.Contains(t, err.Error(), "employer is required")
}

func TestValidator_CardApplication_BadDate(t *testing.T) {
	v := NewValidator()

	application := validCardApplication()
	application.DateOfBirth = "02/04/1990"

	err := v.Struct(application)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_of_birth")
}

func TestValidator_LoanApplication(t *testing.T) {
	v := NewValidator()

	application := dto.LoanApplication{
		FullName:         "Alice Johnson",
		Address:          "12 Market Street",
		DateOfBirth:      "1990-04-02",
		EmploymentStatus: "employed",
		AnnualIncome:     85000,
		LoanAmount:       10000,
		TermMonths:       36,
	}
	assert.NoError(t, v.Struct(application))

	application.LoanAmount = 0
	err := v.Struct(application)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "loan_amount")

	application.LoanAmount = 10000
	application.TermMonths = 3
	err = v.Struct(application)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "term_months must be at least 6")
}

func TestValidator_ExtensionRequest(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(dto.ExtensionRequest{Kind: "card", InstrumentID: "8842"}))
	assert.NoError(t, v.Struct(dto.ExtensionRequest{Kind: "loan", InstrumentID: "any-id"}))

	err := v.Struct(dto.ExtensionRequest{Kind: "mortgage", InstrumentID: "8842"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be one of: card loan")

	err = v.Struct(dto.ExtensionRequest{Kind: "card"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "instrument_id is required")
}

func TestValidator_CustomRules(t *testing.T) {
	v := NewValidator()

	type probe struct {
		AccountNumber string  `json:"account_number" validate:"omitempty,account_number"`
		CardLastFour  string  `json:"card_last_four" validate:"omitempty,card_last4"`
		Amount        float64 `json:"amount" validate:"omitempty,positive_amount"`
	}

	assert.NoError(t, v.Struct(probe{AccountNumber: "4829103746", CardLastFour: "8842", Amount: 10}))

	err := v.Struct(probe{AccountNumber: "12345"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account_number must be a 10-digit account number")

	err = v.Struct(probe{CardLastFour: "88421"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "card_last_four must be the last 4 digits")
}
