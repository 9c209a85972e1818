package database

import (
	"testing"
	"time"

	"novabank/internal/config"
	"novabank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the ledger schema. The
// pool is pinned to a single connection so concurrent commits serialize at
// the driver instead of racing separate :memory: databases.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CreateTestAccount persists an account with the given name and balance and
// a fresh unique account number.
func CreateTestAccount(t *testing.T, db *DB, name string, balance float64) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:            uuid.New(),
		Name:          name,
		AccountNumber: models.GenerateAccountNumber(),
		Balance:       decimal.NewFromFloat(balance),
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

// CreateTestCard attaches a card with the given number to an account
func CreateTestCard(t *testing.T, db *DB, accountID uuid.UUID, cardNumber string) *models.Card {
	t.Helper()

	card := &models.Card{
		AccountID:      accountID,
		CardNumber:     cardNumber,
		ExpiryDate:     "12/29",
		CVV:            "123",
		Network:        models.NetworkVisa,
		CreditLimit:    decimal.NewFromInt(5000),
		CreditBalance:  decimal.Zero,
		APR:            decimal.NewFromFloat(24.99),
		PaymentDueDate: mustParseDate(t, "2026-09-15"),
	}

	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}

	return card
}

// CreateTestLoan attaches an active loan to an account
func CreateTestLoan(t *testing.T, db *DB, accountID uuid.UUID, principal float64, termMonths int) *models.Loan {
	t.Helper()

	amount := decimal.NewFromFloat(principal)
	loan := &models.Loan{
		AccountID:        accountID,
		Principal:        amount,
		InterestRate:     decimal.NewFromFloat(8.50),
		TermMonths:       termMonths,
		MonthlyPayment:   decimal.NewFromFloat(100.00),
		RemainingBalance: amount,
		Status:           models.LoanStatusActive,
		StartDate:        mustParseDate(t, "2026-08-01"),
		PaymentDueDate:   mustParseDate(t, "2026-09-01"),
	}

	if err := db.Create(loan).Error; err != nil {
		t.Fatalf("failed to create test loan: %v", err)
	}

	return loan
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return parsed
}
