package services

import (
	"novabank/internal/dto"
	"novabank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerServiceInterface moves money between accounts
type LedgerServiceInterface interface {
	// Transfer sends amount from the authenticated caller to the account
	// matching recipientIdentifier (display name first, then account number).
	Transfer(callerID uuid.UUID, recipientIdentifier string, amount decimal.Decimal) dto.TransferResult
}

// IssuerServiceInterface creates credit instruments
type IssuerServiceInterface interface {
	IssueCard(callerID uuid.UUID, application dto.CardApplication) dto.CardResult
	IssueLoan(callerID uuid.UUID, application dto.LoanApplication) dto.LoanResult
}

// ExtensionServiceInterface advances payment due dates
type ExtensionServiceInterface interface {
	RequestExtension(callerID uuid.UUID, request dto.ExtensionRequest) dto.ExtensionResult
}

// AccountServiceInterface registers accounts and serves display reads.
// Reads are unguarded snapshots and must never feed a later write.
type AccountServiceInterface interface {
	Register(name string) dto.RegistrationResult
	GetAccount(id uuid.UUID) (*models.Account, error)
	ListContacts() ([]models.Account, error)
}

// StatementServiceInterface serves card statement and activity reads
type StatementServiceInterface interface {
	CardStatement(callerID uuid.UUID, cardLastFour string) dto.StatementResult
	CardTransactions(callerID uuid.UUID, cardLastFour string, limit int) dto.CardTransactionsResult
}

// MetricsRecorderInterface records operational metrics for ledger operations
type MetricsRecorderInterface interface {
	RecordTransfer(status string)
	ObserveTransferAmount(amount float64)
	RecordIssuance(instrument, status string)
	RecordExtension(kind, status string)
	RecordConflict(operation string)
}
