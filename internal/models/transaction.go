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

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

var (
	ErrInvalidDirection         = errors.New("invalid transaction direction")
	ErrInvalidTransactionAmount = errors.New("transaction amount must be positive")
)

// Transaction is one side of a money movement: an immutable, append-only
// record owned by a single account. Transfer commits write exactly two of
// these (a debit and a credit with the same amount and timestamp); loan
// disbursements write exactly one credit. Records are stored independently of
// the account document so statements can be queried without loading the
// account.
type Transaction struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Direction    string          `gorm:"type:varchar(10);not null" json:"direction"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description  string          `gorm:"type:text;not null" json:"description"`
	Counterparty string          `gorm:"type:varchar(255);not null" json:"counterparty"`
	Category     string          `gorm:"type:varchar(50);not null" json:"category"`
	Reference    string          `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	CardID       *uuid.UUID      `gorm:"type:uuid;index" json:"card_id,omitempty"`
	Timestamp    time.Time       `gorm:"not null;index" json:"timestamp"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.Timestamp.IsZero() {
		t.Timestamp = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}

	if t.Reference == "" {
		t.Reference = GenerateTransactionReference()
	}

	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if !IsValidDirection(t.Direction) {
		return ErrInvalidDirection
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}

	if t.Description == "" {
		return errors.New("transaction description is required")
	}

	if t.Category == "" {
		return errors.New("transaction category is required")
	}

	return nil
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidDirection checks if the transaction direction is valid
func IsValidDirection(direction string) bool {
	switch direction {
	case DirectionCredit, DirectionDebit:
		return true
	default:
		return false
	}
}

// GenerateTransactionReference generates a unique transaction reference
func GenerateTransactionReference() string {
	return fmt.Sprintf("TXN-%d-%06d", time.Now().UnixNano(), rand.Intn(1000000))
}
