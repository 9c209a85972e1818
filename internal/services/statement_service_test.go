package services

import (
	"testing"
	"time"

	"novabank/internal/database"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// StatementServiceTestSuite exercises the card statement and activity reads.
type StatementServiceTestSuite struct {
	suite.Suite
	db      *database.DB
	txns    repositories.TransactionRepositoryInterface
	service StatementServiceInterface

	holder *models.Account
	card   *models.Card
}

func (s *StatementServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	accounts := repositories.NewAccountRepository(s.db.DB, 3)
	s.txns = repositories.NewTransactionRepository(s.db.DB)
	s.service = NewStatementService(accounts, s.txns, testLogger())

	s.holder = database.CreateTestAccount(s.T(), s.db, "Alice Johnson", 1000.00)
	s.card = database.CreateTestCard(s.T(), s.db, s.holder.ID, "4532876109238842")

	err := s.db.Model(&models.Card{}).
		Where("id = ?", s.card.ID).
		UpdateColumns(map[string]interface{}{
			"statement_balance": decimal.NewFromFloat(423.87),
			"minimum_payment":   decimal.NewFromFloat(35.00),
		}).Error
	s.Require().NoError(err)
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}

func (s *StatementServiceTestSuite) spendOnCard(description string, amount float64, at time.Time) {
	record := &models.Transaction{
		AccountID:    s.holder.ID,
		Direction:    models.DirectionDebit,
		Amount:       decimal.NewFromFloat(amount),
		Description:  description,
		Counterparty: description,
		Category:     models.CategoryShopping,
		CardID:       &s.card.ID,
		Timestamp:    at,
	}
	s.Require().NoError(s.txns.Append(record))
}

func (s *StatementServiceTestSuite) TestCardStatement_PrimaryCardByDefault() {
	result := s.service.CardStatement(s.holder.ID, "")

	s.True(result.Success)
	s.Equal("8842", result.CardLastFour)
	s.Equal("423.87", result.StatementBalance)
	s.Equal("35.00", result.MinimumPayment)
	s.Contains(result.Message, "statement balance of $423.87")
	s.Contains(result.Message, "minimum payment of $35.00")
}

func (s *StatementServiceTestSuite) TestCardStatement_ByLastFour() {
	result := s.service.CardStatement(s.holder.ID, "8842")

	s.True(result.Success)
	s.Equal("8842", result.CardLastFour)
	s.Require().NotNil(result.PaymentDueDate)
}

func (s *StatementServiceTestSuite) TestCardStatement_UnknownCard() {
	result := s.service.CardStatement(s.holder.ID, "1234")

	s.False(result.Success)
	s.Equal(errors.InstrumentNotFound, result.Code)
	s.Equal("Error: Card ending in 1234 not found.", result.Message)
}

func (s *StatementServiceTestSuite) TestCardStatement_NoCards() {
	bare := database.CreateTestAccount(s.T(), s.db, "Bob Smith", 500.00)

	result := s.service.CardStatement(bare.ID, "")

	s.False(result.Success)
	s.Equal(errors.InstrumentNotFound, result.Code)
}

func (s *StatementServiceTestSuite) TestCardStatement_NotLoggedIn() {
	result := s.service.CardStatement(uuid.Nil, "")

	s.False(result.Success)
	s.Equal(errors.NotLoggedIn, result.Code)
}

func (s *StatementServiceTestSuite) TestCardTransactions_NewestFirstWithDefaultLimit() {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		s.spendOnCard("Purchase", 10+float64(i), base.Add(time.Duration(i)*time.Hour))
	}

	result := s.service.CardTransactions(s.holder.ID, "", 0)

	s.True(result.Success)
	s.Equal("8842", result.CardLastFour)
	s.Require().Len(result.Transactions, defaultActivityLimit)

	// Newest first.
	for i := 1; i < len(result.Transactions); i++ {
		s.False(result.Transactions[i].Timestamp.After(result.Transactions[i-1].Timestamp))
	}
}

func (s *StatementServiceTestSuite) TestCardTransactions_ExplicitLimit() {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		s.spendOnCard("Purchase", 25, base.Add(time.Duration(i)*time.Hour))
	}

	result := s.service.CardTransactions(s.holder.ID, "8842", 2)

	s.True(result.Success)
	s.Len(result.Transactions, 2)
}

func (s *StatementServiceTestSuite) TestCardTransactions_ExcludesOtherActivity() {
	// A cash transfer with no card attached must not show up.
	record := &models.Transaction{
		AccountID:    s.holder.ID,
		Direction:    models.DirectionDebit,
		Amount:       decimal.NewFromFloat(50),
		Description:  "Payment to Bob Smith",
		Counterparty: "Bob Smith",
		Category:     models.CategoryTransfers,
		Timestamp:    time.Now().UTC(),
	}
	s.Require().NoError(s.txns.Append(record))

	result := s.service.CardTransactions(s.holder.ID, "", 10)

	s.True(result.Success)
	s.Empty(result.Transactions)
}

func (s *StatementServiceTestSuite) TestCardTransactions_UnknownCard() {
	result := s.service.CardTransactions(s.holder.ID, "9999", 5)

	s.False(result.Success)
	s.Equal(errors.InstrumentNotFound, result.Code)
}
