package repositories

import (
	"time"

	"novabank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepositoryInterface is the store adapter consumed by the ledger
// services. Reads are unguarded snapshots for display; every mutation runs as
// a single atomic commit that re-validates its preconditions against the
// latest persisted state, retrying bounded-many times on store conflicts
// before surfacing ErrTransientConflict.
type AccountRepositoryInterface interface {
	Create(account *models.Account, opening []models.Transaction) error
	GetByID(id uuid.UUID) (*models.Account, error)
	GetByName(name string) (*models.Account, error)
	GetByAccountNumber(accountNumber string) (*models.Account, error)
	GetAll() ([]models.Account, error)
	CheckAccountNumberExists(accountNumber string) (bool, error)
	GenerateUniqueAccountNumber() (string, error)

	// Atomic multi-row commits.
	ExecuteAtomicTransfer(fromAccountID, toAccountID uuid.UUID, amount decimal.Decimal, debit, credit models.Transaction) error
	DisburseLoan(loan *models.Loan, disbursement *models.Transaction) error
	AppendCard(card *models.Card) error
	UpdateCardDueDate(cardID uuid.UUID, dueDate time.Time) error
	UpdateLoanDueDate(loanID uuid.UUID, dueDate time.Time) error
}

// TransactionRepositoryInterface is the append-only transaction log. Records
// are never updated or deleted.
type TransactionRepositoryInterface interface {
	Append(transaction *models.Transaction) error
	GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
	GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error)
	GetRecentByCardID(cardID uuid.UUID, limit int) ([]models.Transaction, error)
}
