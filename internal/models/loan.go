package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LoanStatusActive  = "active"
	LoanStatusPaidOff = "paid_off"
)

var ErrInvalidLoanStatus = errors.New("invalid loan status")

// Loan is an installment instrument owned by exactly one account. The monthly
// payment is computed once at issuance and never recomputed; the remaining
// balance starts at the principal and only decreases.
type Loan struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Principal        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	TermMonths       int             `gorm:"not null" json:"term_months"`
	MonthlyPayment   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_balance"`
	Status           string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	PaymentDueDate   time.Time       `gorm:"not null" json:"payment_due_date"`
	CreatedAt        time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook for Loan
func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	if l.Status == "" {
		l.Status = LoanStatusActive
	}

	now := time.Now()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = now
	}

	return l.Validate()
}

// BeforeUpdate hook for Loan
func (l *Loan) BeforeUpdate(tx *gorm.DB) error {
	l.UpdatedAt = time.Now()
	return l.Validate()
}

// Validate validates the loan fields
func (l *Loan) Validate() error {
	if l.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return errors.New("principal must be positive")
	}

	if l.InterestRate.LessThan(decimal.Zero) {
		return errors.New("interest rate cannot be negative")
	}

	if l.TermMonths <= 0 {
		return errors.New("term must be at least one month")
	}

	if l.MonthlyPayment.LessThanOrEqual(decimal.Zero) {
		return errors.New("monthly payment must be positive")
	}

	// Invariant: the remaining balance never exceeds the principal.
	if l.RemainingBalance.GreaterThan(l.Principal) {
		return errors.New("remaining balance exceeds principal")
	}

	if l.RemainingBalance.LessThan(decimal.Zero) {
		return errors.New("remaining balance cannot be negative")
	}

	if !IsValidLoanStatus(l.Status) {
		return ErrInvalidLoanStatus
	}

	return nil
}

// IsPaidOff reports whether the loan has been fully repaid.
func (l *Loan) IsPaidOff() bool {
	return l.Status == LoanStatusPaidOff || l.RemainingBalance.IsZero()
}

// TableName returns the table name for Loan
func (l *Loan) TableName() string {
	return "loans"
}

// IsValidLoanStatus checks if the loan status is valid
func IsValidLoanStatus(status string) bool {
	switch status {
	case LoanStatusActive, LoanStatusPaidOff:
		return true
	default:
		return false
	}
}
