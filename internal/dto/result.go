package dto

import (
	"time"

	"novabank/internal/errors"
	"novabank/internal/models"
)

// Result is the caller-facing outcome of a ledger operation. Business-rule
// failures are recovered into a Result rather than propagated as Go errors:
// the caller (a UI screen or the assistant's tool dispatcher) renders Message
// directly and may branch on Code.
type Result struct {
	Success bool        `json:"success"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

// TransferResult is the outcome of a transfer
type TransferResult struct {
	Result
}

// CardResult is the outcome of a card application
type CardResult struct {
	Result
	NewCard *models.Card `json:"new_card,omitempty"`
}

// LoanResult is the outcome of a loan application
type LoanResult struct {
	Result
	NewLoan *models.Loan `json:"new_loan,omitempty"`
}

// ExtensionResult is the outcome of a payment extension request. NewDueDate
// is the machine-readable value; NewDueDateDisplay is formatted for rendering.
type ExtensionResult struct {
	Result
	NewDueDate        *time.Time `json:"new_due_date,omitempty"`
	NewDueDateDisplay string     `json:"new_due_date_display,omitempty"`
}

// RegistrationResult is the outcome of registering a new account
type RegistrationResult struct {
	Result
	Account *models.Account `json:"account,omitempty"`
}

// StatementResult is a card statement snapshot for display
type StatementResult struct {
	Result
	CardLastFour     string     `json:"card_last_four,omitempty"`
	StatementBalance string     `json:"statement_balance,omitempty"`
	MinimumPayment   string     `json:"minimum_payment,omitempty"`
	PaymentDueDate   *time.Time `json:"payment_due_date,omitempty"`
}

// CardTransactionsResult is a recent-activity listing for one card
type CardTransactionsResult struct {
	Result
	CardLastFour string               `json:"card_last_four,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
}

// OK builds a successful Result with the given message
func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail builds a failed Result from a ledger error code, using the code's
// default message unless a custom one is supplied.
func Fail(code errors.Code, message string) Result {
	if message == "" {
		message = errors.MessageFor(code)
	}
	return Result{Success: false, Code: code, Message: message}
}

// FailFromError builds a failed Result from an error chain, resolving the
// embedded ledger code and message.
func FailFromError(err error) Result {
	return Result{
		Success: false,
		Code:    errors.CodeOf(err),
		Message: errors.MessageOf(err),
	}
}
