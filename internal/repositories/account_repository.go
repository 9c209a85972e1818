package repositories

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"novabank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrSenderNotFound       = fmt.Errorf("sender %w", ErrAccountNotFound)
	ErrAmbiguousAccountName = errors.New("more than one account matches that name")
	ErrAccountNumberExists  = errors.New("account number already exists")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrCardNotFound         = errors.New("card not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrTransientConflict    = errors.New("store conflict: concurrent commit retries exhausted")
)

const defaultMaxCommitRetries = 3

// accountRepository implements AccountRepositoryInterface
type accountRepository struct {
	db         *gorm.DB
	maxRetries int
	mu         sync.Mutex // For account number generation
}

// NewAccountRepository creates a new account repository. maxCommitRetries
// bounds the optimistic retry loop around atomic commits; values below 1 fall
// back to the default.
func NewAccountRepository(db *gorm.DB, maxCommitRetries int) AccountRepositoryInterface {
	if maxCommitRetries < 1 {
		maxCommitRetries = defaultMaxCommitRetries
	}
	return &accountRepository{
		db:         db,
		maxRetries: maxCommitRetries,
	}
}

// Create creates a new account together with its opening transactions in one
// database transaction. Embedded cards and loans are created by association.
func (r *accountRepository) Create(account *models.Account, opening []models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAccountNumberExists
			}
			return fmt.Errorf("failed to create account: %w", err)
		}

		if len(opening) > 0 {
			for i := range opening {
				opening[i].AccountID = account.ID
			}
			if err := tx.Create(&opening).Error; err != nil {
				return fmt.Errorf("failed to create opening transactions: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves an account by ID, including its cards and loans
func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Preload("Cards").Preload("Loans").
		First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByName retrieves an account by exact display-name match. When several
// accounts share the name the lookup refuses to guess and reports
// ErrAmbiguousAccountName.
func (r *accountRepository) GetByName(name string) (*models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("name = ?", name).Limit(2).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get account by name: %w", err)
	}

	switch len(accounts) {
	case 0:
		return nil, ErrAccountNotFound
	case 1:
		return &accounts[0], nil
	default:
		return nil, ErrAmbiguousAccountName
	}
}

// GetByAccountNumber retrieves an account by account number
func (r *accountRepository) GetByAccountNumber(accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}
	return &account, nil
}

// GetAll retrieves all accounts, oldest first. Used for contact listings.
func (r *accountRepository) GetAll() ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accounts, nil
}

// CheckAccountNumberExists checks if an account number already exists
func (r *accountRepository) CheckAccountNumberExists(accountNumber string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check account number existence: %w", err)
	}
	return count > 0, nil
}

// GenerateUniqueAccountNumber generates a collision-checked account number
func (r *accountRepository) GenerateUniqueAccountNumber() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxAttempts := 10
	for i := 0; i < maxAttempts; i++ {
		accountNumber := models.GenerateAccountNumber()

		exists, err := r.CheckAccountNumberExists(accountNumber)
		if err != nil {
			return "", err
		}
		if !exists {
			return accountNumber, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique account number after %d attempts", maxAttempts)
}

// lockForUpdate adds a FOR UPDATE row lock to the query. sqlite rejects the
// clause and its single-writer model already serializes writers, so the clause
// is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// ExecuteAtomicTransfer moves amount between two accounts and appends the
// paired transaction records, all in one commit. The sender's balance is
// re-validated against the freshly locked row, not the caller's snapshot, so
// two racing transfers can never jointly overdraw an account. Both records
// share a single timestamp.
func (r *accountRepository) ExecuteAtomicTransfer(fromAccountID, toAccountID uuid.UUID, amount decimal.Decimal, debit, credit models.Transaction) error {
	return r.withConflictRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			fromAcct := &models.Account{}
			if err := lockForUpdate(tx).
				First(fromAcct, "id = ?", fromAccountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSenderNotFound
				}
				return fmt.Errorf("failed to lock source account: %w", err)
			}

			if fromAcct.Balance.LessThan(amount) {
				return ErrInsufficientFunds
			}

			newFromBalance := fromAcct.Balance.Sub(amount)
			if err := tx.Model(fromAcct).Update("balance", newFromBalance).Error; err != nil {
				return fmt.Errorf("failed to debit source account: %w", err)
			}

			toAcct := &models.Account{}
			if err := lockForUpdate(tx).
				First(toAcct, "id = ?", toAccountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return fmt.Errorf("failed to lock destination account: %w", err)
			}

			newToBalance := toAcct.Balance.Add(amount)
			if err := tx.Model(toAcct).Update("balance", newToBalance).Error; err != nil {
				return fmt.Errorf("failed to credit destination account: %w", err)
			}

			timestamp := time.Now().UTC()
			debit.AccountID = fromAccountID
			debit.Direction = models.DirectionDebit
			debit.Amount = amount
			debit.Timestamp = timestamp
			credit.AccountID = toAccountID
			credit.Direction = models.DirectionCredit
			credit.Amount = amount
			credit.Timestamp = timestamp

			if err := tx.Create(&debit).Error; err != nil {
				return fmt.Errorf("failed to create debit transaction: %w", err)
			}
			if err := tx.Create(&credit).Error; err != nil {
				return fmt.Errorf("failed to create credit transaction: %w", err)
			}

			return nil
		})
	})
}

// DisburseLoan credits the owning account with the loan principal, appends
// the loan, and writes the single disbursement transaction in one commit.
func (r *accountRepository) DisburseLoan(loan *models.Loan, disbursement *models.Transaction) error {
	return r.withConflictRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			account := &models.Account{}
			if err := lockForUpdate(tx).
				First(account, "id = ?", loan.AccountID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return fmt.Errorf("failed to lock account: %w", err)
			}

			newBalance := account.Balance.Add(loan.Principal)
			if err := tx.Model(account).Update("balance", newBalance).Error; err != nil {
				return fmt.Errorf("failed to credit loan amount: %w", err)
			}

			if err := tx.Create(loan).Error; err != nil {
				return fmt.Errorf("failed to create loan: %w", err)
			}

			disbursement.AccountID = loan.AccountID
			disbursement.Direction = models.DirectionCredit
			disbursement.Amount = loan.Principal
			if err := tx.Create(disbursement).Error; err != nil {
				return fmt.Errorf("failed to create disbursement transaction: %w", err)
			}

			return nil
		})
	})
}

// AppendCard appends a newly issued card to its account
func (r *accountRepository) AppendCard(card *models.Card) error {
	return r.withConflictRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Account{}).
				Where("id = ?", card.AccountID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("failed to verify account: %w", err)
			}
			if count == 0 {
				return ErrAccountNotFound
			}

			if err := tx.Create(card).Error; err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}

			return nil
		})
	})
}

// UpdateCardDueDate persists a new payment due date for a card. The card is
// locked and re-read in the commit so the write never clobbers a concurrent
// change to the same row.
func (r *accountRepository) UpdateCardDueDate(cardID uuid.UUID, dueDate time.Time) error {
	return r.withConflictRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			card := &models.Card{}
			if err := lockForUpdate(tx).
				First(card, "id = ?", cardID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCardNotFound
				}
				return fmt.Errorf("failed to lock card: %w", err)
			}

			if err := tx.Model(card).Update("payment_due_date", dueDate).Error; err != nil {
				return fmt.Errorf("failed to update card due date: %w", err)
			}
			return nil
		})
	})
}

// UpdateLoanDueDate persists a new payment due date for a loan
func (r *accountRepository) UpdateLoanDueDate(loanID uuid.UUID, dueDate time.Time) error {
	return r.withConflictRetry(func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			loan := &models.Loan{}
			if err := lockForUpdate(tx).
				First(loan, "id = ?", loanID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrLoanNotFound
				}
				return fmt.Errorf("failed to lock loan: %w", err)
			}

			if err := tx.Model(loan).Update("payment_due_date", dueDate).Error; err != nil {
				return fmt.Errorf("failed to update loan due date: %w", err)
			}
			return nil
		})
	})
}

// withConflictRetry re-runs op when the store reports a serialization
// conflict, with exponential backoff, and surfaces ErrTransientConflict once
// the retry budget is spent. Business-rule errors pass through untouched.
func (r *accountRepository) withConflictRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))*10) * time.Millisecond
			time.Sleep(backoff)
		}

		err = op()
		if err == nil || !isTransientConflict(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransientConflict, err)
}

// isTransientConflict recognizes the conflict shapes of the backing stores:
// postgres serialization/deadlock failures and sqlite busy locks.
func isTransientConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
