package models

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	NetworkVisa       = "Visa"
	NetworkMastercard = "Mastercard"

	CardNumberLength = 16
)

var (
	ErrInvalidCardNetwork = errors.New("invalid card network")
	ErrCreditLimitBreach  = errors.New("credit balance exceeds credit limit")

	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// Card is a revolving credit instrument owned by exactly one account. Its
// balance is mutated by card-spend flows outside the ledger core; the core
// issues cards and moves their due dates.
type Card struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	CardNumber       string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"card_number"`
	ExpiryDate       string          `gorm:"type:varchar(5);not null" json:"expiry_date"`
	CVV              string          `gorm:"type:varchar(4);not null" json:"cvv"`
	Network          string          `gorm:"type:varchar(20);not null" json:"network"`
	CreditLimit      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"credit_limit"`
	CreditBalance    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"credit_balance"`
	APR              decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"apr"`
	StatementBalance decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"statement_balance"`
	MinimumPayment   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"minimum_payment"`
	PaymentDueDate   time.Time       `gorm:"not null" json:"payment_due_date"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Transactions []Transaction `gorm:"foreignKey:CardID" json:"-"`
}

// BeforeCreate hook for Card
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

// BeforeUpdate hook for Card
func (c *Card) BeforeUpdate(tx *gorm.DB) error {
	c.UpdatedAt = time.Now()
	return c.Validate()
}

// Validate validates the card fields
func (c *Card) Validate() error {
	if c.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if len(c.CardNumber) != CardNumberLength {
		return errors.New("card number must be 16 digits")
	}

	if !expiryPattern.MatchString(c.ExpiryDate) {
		return errors.New("expiry date must be in MM/YY format")
	}

	if len(c.CVV) != 3 {
		return errors.New("cvv must be 3 digits")
	}

	if !IsValidCardNetwork(c.Network) {
		return ErrInvalidCardNetwork
	}

	if c.CreditLimit.LessThanOrEqual(decimal.Zero) {
		return errors.New("credit limit must be positive")
	}

	// Invariant: credit balance never exceeds the credit limit.
	if c.CreditBalance.GreaterThan(c.CreditLimit) {
		return ErrCreditLimitBreach
	}

	if c.APR.LessThan(decimal.Zero) {
		return errors.New("apr cannot be negative")
	}

	return nil
}

// LastFour returns the last 4 digits of the card number, the identifier users
// quote when referring to a card.
func (c *Card) LastFour() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// AvailableCredit returns the spendable headroom on the card.
func (c *Card) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CreditBalance)
}

// TableName returns the table name for Card
func (c *Card) TableName() string {
	return "cards"
}

// IsValidCardNetwork checks if the card network is supported
func IsValidCardNetwork(network string) bool {
	switch network {
	case NetworkVisa, NetworkMastercard:
		return true
	default:
		return false
	}
}
