package models

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountNumberLength is the fixed length of generated account numbers.
const AccountNumberLength = 10

var (
	ErrInvalidBalance    = errors.New("balance cannot be negative")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account represents one user's banking relationship: a cash balance plus the
// credit instruments the account owns. Accounts are created at registration
// and never deleted.
type Account struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	AccountNumber string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_number"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	AvatarURL     string          `gorm:"type:varchar(512)" json:"avatar_url,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	// Associations. Cards and Loans are exclusively owned by this account.
	Cards []Card `gorm:"foreignKey:AccountID" json:"cards,omitempty"`
	Loans []Loan `gorm:"foreignKey:AccountID" json:"loans,omitempty"`
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// BeforeUpdate hook for Account
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name is required")
	}

	if !ValidateAccountNumber(a.AccountNumber) {
		return fmt.Errorf("account number must be %d digits", AccountNumberLength)
	}

	if a.Balance.LessThan(decimal.Zero) {
		return ErrInvalidBalance
	}

	return nil
}

// CanWithdraw checks if the amount can be withdrawn
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero) && a.Balance.GreaterThanOrEqual(amount)
}

// Debit debits the account's cash balance
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("debit amount must be positive")
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit credits the account's cash balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("credit amount must be positive")
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// PrimaryCard returns the account's first card, or nil when the account owns
// no cards. Callers that receive an empty last-4 default to this card.
func (a *Account) PrimaryCard() *Card {
	if len(a.Cards) == 0 {
		return nil
	}
	return &a.Cards[0]
}

// CardByLastFour finds an owned card by the last 4 digits of its number.
func (a *Account) CardByLastFour(lastFour string) *Card {
	for i := range a.Cards {
		if a.Cards[i].LastFour() == lastFour {
			return &a.Cards[i]
		}
	}
	return nil
}

// LoanByID finds an owned loan by its id.
func (a *Account) LoanByID(id uuid.UUID) *Loan {
	for i := range a.Loans {
		if a.Loans[i].ID == id {
			return &a.Loans[i]
		}
	}
	return nil
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// GenerateAccountNumber generates a random 10-digit account number. The first
// digit is non-zero so the number survives round trips through systems that
// strip leading zeros. Uniqueness is enforced by the repository.
func GenerateAccountNumber() string {
	digits := make([]byte, AccountNumberLength)
	digits[0] = byte('1' + rand.Intn(9))
	for i := 1; i < AccountNumberLength; i++ {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

// ValidateAccountNumber validates an account number format
func ValidateAccountNumber(accountNumber string) bool {
	if len(accountNumber) != AccountNumberLength {
		return false
	}

	for _, char := range accountNumber {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}
