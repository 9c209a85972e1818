package repositories

import (
	"sync"
	"testing"
	"time"

	"novabank/internal/database"
	"novabank/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountRepo(t *testing.T) (*database.DB, AccountRepositoryInterface) {
	t.Helper()
	db := database.SetupTestDB(t)
	return db, NewAccountRepository(db.DB, 3)
}

func TestAccountRepository_CreateAndGetByID(t *testing.T) {
	_, repo := setupAccountRepo(t)

	account := &models.Account{
		ID:            uuid.New(),
		Name:          "Alice Johnson",
		AccountNumber: models.GenerateAccountNumber(),
		Balance:       decimal.NewFromFloat(1000.00),
	}
	opening := []models.Transaction{{
		Direction:    models.DirectionCredit,
		Amount:       decimal.NewFromFloat(1000.00),
		Description:  "Initial Deposit",
		Counterparty: "Nova Bank",
		Category:     models.CategoryIncome,
		Timestamp:    time.Now().UTC(),
	}}

	require.NoError(t, repo.Create(account, opening))

	got, err := repo.GetByID(account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.Equal(t, "1000", got.Balance.String())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	_, repo := setupAccountRepo(t)

	_, err := repo.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_GetByName(t *testing.T) {
	db, repo := setupAccountRepo(t)
	created := database.CreateTestAccount(t, db, "Bob Smith", 500.00)

	got, err := repo.GetByName("Bob Smith")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestAccountRepository_GetByName_NotFound(t *testing.T) {
	_, repo := setupAccountRepo(t)

	_, err := repo.GetByName("Nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_GetByName_Ambiguous(t *testing.T) {
	db, repo := setupAccountRepo(t)
	database.CreateTestAccount(t, db, "Bob Smith", 500.00)
	database.CreateTestAccount(t, db, "Bob Smith", 750.00)

	_, err := repo.GetByName("Bob Smith")
	assert.ErrorIs(t, err, ErrAmbiguousAccountName)
}

func TestAccountRepository_GetByAccountNumber(t *testing.T) {
	db, repo := setupAccountRepo(t)
	created := database.CreateTestAccount(t, db, "Carol Davis", 250.00)

	got, err := repo.GetByAccountNumber(created.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repo.GetByAccountNumber("0000000000")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_GenerateUniqueAccountNumber(t *testing.T) {
	_, repo := setupAccountRepo(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		number, err := repo.GenerateUniqueAccountNumber()
		require.NoError(t, err)
		assert.True(t, models.ValidateAccountNumber(number))
		assert.False(t, seen[number])
		seen[number] = true
	}
}

func TestAccountRepository_CheckAccountNumberExists(t *testing.T) {
	db, repo := setupAccountRepo(t)
	created := database.CreateTestAccount(t, db, "Dana Evans", 100.00)

	exists, err := repo.CheckAccountNumberExists(created.AccountNumber)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.CheckAccountNumberExists("0000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountRepository_ExecuteAtomicTransfer(t *testing.T) {
	db, repo := setupAccountRepo(t)
	from := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)
	to := database.CreateTestAccount(t, db, "Bob Smith", 200.00)

	debit := models.Transaction{
		Description:  "Payment to Bob Smith",
		Counterparty: "Bob Smith",
		Category:     models.CategoryTransfers,
	}
	credit := models.Transaction{
		Description:  "Payment from Alice Johnson",
		Counterparty: "Alice Johnson",
		Category:     models.CategoryTransfers,
	}

	err := repo.ExecuteAtomicTransfer(from.ID, to.ID, decimal.NewFromFloat(300.00), debit, credit)
	require.NoError(t, err)

	fromAfter, err := repo.GetByID(from.ID)
	require.NoError(t, err)
	toAfter, err := repo.GetByID(to.ID)
	require.NoError(t, err)
	assert.Equal(t, "700", fromAfter.Balance.String())
	assert.Equal(t, "500", toAfter.Balance.String())

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAccountRepository_ExecuteAtomicTransfer_InsufficientFunds(t *testing.T) {
	db, repo := setupAccountRepo(t)
	from := database.CreateTestAccount(t, db, "Alice Johnson", 100.00)
	to := database.CreateTestAccount(t, db, "Bob Smith", 200.00)

	err := repo.ExecuteAtomicTransfer(from.ID, to.ID, decimal.NewFromFloat(150.00),
		models.Transaction{Description: "d", Category: models.CategoryTransfers},
		models.Transaction{Description: "c", Category: models.CategoryTransfers})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Balance re-validation happens inside the commit: nothing changes.
	fromAfter, err := repo.GetByID(from.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", fromAfter.Balance.String())

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAccountRepository_ExecuteAtomicTransfer_MissingRecipient(t *testing.T) {
	db, repo := setupAccountRepo(t)
	from := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)

	err := repo.ExecuteAtomicTransfer(from.ID, uuid.New(), decimal.NewFromFloat(50.00),
		models.Transaction{Description: "d", Category: models.CategoryTransfers},
		models.Transaction{Description: "c", Category: models.CategoryTransfers})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// The debit on the source account rolled back with the commit.
	fromAfter, err := repo.GetByID(from.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", fromAfter.Balance.String())
}

func TestAccountRepository_ExecuteAtomicTransfer_MissingSender(t *testing.T) {
	db, repo := setupAccountRepo(t)
	to := database.CreateTestAccount(t, db, "Bob Smith", 500.00)

	err := repo.ExecuteAtomicTransfer(uuid.New(), to.ID, decimal.NewFromFloat(50.00),
		models.Transaction{Description: "d", Category: models.CategoryTransfers},
		models.Transaction{Description: "c", Category: models.CategoryTransfers})
	assert.ErrorIs(t, err, ErrSenderNotFound)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	toAfter, err := repo.GetByID(to.ID)
	require.NoError(t, err)
	assert.Equal(t, "500", toAfter.Balance.String())
}

func TestAccountRepository_ExecuteAtomicTransfer_Concurrent(t *testing.T) {
	db, repo := setupAccountRepo(t)
	from := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)
	to := database.CreateTestAccount(t, db, "Bob Smith", 0.00)

	const workers = 10
	amount := decimal.NewFromFloat(100.00)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.ExecuteAtomicTransfer(from.ID, to.ID, amount,
				models.Transaction{Description: "d", Category: models.CategoryTransfers},
				models.Transaction{Description: "c", Category: models.CategoryTransfers})
		}()
	}
	wg.Wait()

	fromAfter, err := repo.GetByID(from.ID)
	require.NoError(t, err)
	toAfter, err := repo.GetByID(to.ID)
	require.NoError(t, err)

	// However the commits interleave, money is conserved and never overdrawn.
	total := fromAfter.Balance.Add(toAfter.Balance)
	assert.Equal(t, "1000", total.String())
	assert.False(t, fromAfter.Balance.IsNegative())
}

func TestAccountRepository_DisburseLoan(t *testing.T) {
	db, repo := setupAccountRepo(t)
	holder := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)

	principal := decimal.NewFromFloat(10000.00)
	loan := &models.Loan{
		AccountID:        holder.ID,
		Principal:        principal,
		InterestRate:     decimal.NewFromFloat(8.25),
		TermMonths:       36,
		MonthlyPayment:   decimal.NewFromFloat(314.52),
		RemainingBalance: principal,
		Status:           models.LoanStatusActive,
		StartDate:        time.Now().UTC(),
		PaymentDueDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	disbursement := &models.Transaction{
		Description:  "Loan Disbursement",
		Counterparty: "Nova Bank Loans",
		Category:     models.CategoryIncome,
		Timestamp:    time.Now().UTC(),
	}

	require.NoError(t, repo.DisburseLoan(loan, disbursement))

	holderAfter, err := repo.GetByID(holder.ID)
	require.NoError(t, err)
	assert.Equal(t, "11000", holderAfter.Balance.String())
	require.Len(t, holderAfter.Loans, 1)

	assert.Equal(t, holder.ID, disbursement.AccountID)
	assert.Equal(t, models.DirectionCredit, disbursement.Direction)
	assert.True(t, disbursement.Amount.Equal(principal))
}

func TestAccountRepository_DisburseLoan_MissingAccount(t *testing.T) {
	_, repo := setupAccountRepo(t)

	loan := &models.Loan{
		AccountID:        uuid.New(),
		Principal:        decimal.NewFromFloat(5000),
		InterestRate:     decimal.NewFromFloat(5.00),
		TermMonths:       12,
		MonthlyPayment:   decimal.NewFromFloat(428.04),
		RemainingBalance: decimal.NewFromFloat(5000),
		Status:           models.LoanStatusActive,
		StartDate:        time.Now().UTC(),
		PaymentDueDate:   time.Now().UTC().AddDate(0, 1, 0),
	}

	err := repo.DisburseLoan(loan, &models.Transaction{
		Description: "Loan Disbursement",
		Category:    models.CategoryIncome,
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_AppendCard(t *testing.T) {
	db, repo := setupAccountRepo(t)
	holder := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)

	card := &models.Card{
		AccountID:      holder.ID,
		CardNumber:     "4532876109238842",
		ExpiryDate:     "08/29",
		CVV:            "312",
		Network:        models.NetworkVisa,
		CreditLimit:    decimal.NewFromInt(5000),
		APR:            decimal.NewFromFloat(24.99),
		PaymentDueDate: time.Now().UTC().AddDate(0, 1, 0),
	}
	require.NoError(t, repo.AppendCard(card))

	holderAfter, err := repo.GetByID(holder.ID)
	require.NoError(t, err)
	require.Len(t, holderAfter.Cards, 1)
	assert.Equal(t, "8842", holderAfter.Cards[0].LastFour())
}

func TestAccountRepository_AppendCard_MissingAccount(t *testing.T) {
	_, repo := setupAccountRepo(t)

	card := &models.Card{
		AccountID:      uuid.New(),
		CardNumber:     "4532876109238842",
		ExpiryDate:     "08/29",
		CVV:            "312",
		Network:        models.NetworkVisa,
		CreditLimit:    decimal.NewFromInt(5000),
		APR:            decimal.NewFromFloat(24.99),
		PaymentDueDate: time.Now().UTC().AddDate(0, 1, 0),
	}
	assert.ErrorIs(t, repo.AppendCard(card), ErrAccountNotFound)
}

func TestAccountRepository_UpdateCardDueDate(t *testing.T) {
	db, repo := setupAccountRepo(t)
	holder := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)
	card := database.CreateTestCard(t, db, holder.ID, "4532876109238842")

	newDue := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateCardDueDate(card.ID, newDue))

	var persisted models.Card
	require.NoError(t, db.First(&persisted, "id = ?", card.ID).Error)
	assert.Equal(t, newDue, persisted.PaymentDueDate.UTC())
}

func TestAccountRepository_UpdateCardDueDate_NotFound(t *testing.T) {
	_, repo := setupAccountRepo(t)

	err := repo.UpdateCardDueDate(uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestAccountRepository_UpdateLoanDueDate(t *testing.T) {
	db, repo := setupAccountRepo(t)
	holder := database.CreateTestAccount(t, db, "Alice Johnson", 1000.00)
	loan := database.CreateTestLoan(t, db, holder.ID, 10000, 36)

	newDue := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLoanDueDate(loan.ID, newDue))

	var persisted models.Loan
	require.NoError(t, db.First(&persisted, "id = ?", loan.ID).Error)
	assert.Equal(t, newDue, persisted.PaymentDueDate.UTC())
}

func TestAccountRepository_UpdateLoanDueDate_NotFound(t *testing.T) {
	_, repo := setupAccountRepo(t)

	err := repo.UpdateLoanDueDate(uuid.New(), time.Now().UTC())
	assert.ErrorIs(t, err, ErrLoanNotFound)
}
