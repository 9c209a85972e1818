package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"novabank/internal/config"
	"novabank/internal/dto"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements AccountServiceInterface
type accountService struct {
	accounts repositories.AccountRepositoryInterface
	metrics  MetricsRecorderInterface
	logger   *slog.Logger
	cfg      config.LedgerConfig
	now      func() time.Time
}

// NewAccountService creates the account registration and lookup service
func NewAccountService(
	accounts repositories.AccountRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	cfg config.LedgerConfig,
) AccountServiceInterface {
	return &accountService{
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register opens a new account under the given display name: a unique account
// number, the configured starting balance, one default card, and the initial
// deposit record, all committed atomically. Display names are not required to
// be unique; duplicates make later name resolution ambiguous, which transfers
// surface to the sender.
func (s *accountService) Register(name string) dto.RegistrationResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return dto.RegistrationResult{Result: dto.Fail(errors.ValidationFailed, "Error: A display name is required.")}
	}

	accountNumber, err := s.accounts.GenerateUniqueAccountNumber()
	if err != nil {
		s.logger.Error("account number generation failed", "error", err)
		return dto.RegistrationResult{Result: dto.Fail(errors.PersistenceError, "")}
	}

	now := s.now()
	account := models.Account{
		ID:            uuid.New(),
		Name:          name,
		AccountNumber: accountNumber,
		Balance:       decimal.NewFromFloat(s.cfg.StartingBalance).Round(2),
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", accountNumber),
		Cards:         []models.Card{GenerateCard(s.cfg, now)},
	}

	var opening []models.Transaction
	if account.Balance.GreaterThan(decimal.Zero) {
		opening = append(opening, models.Transaction{
			AccountID:    account.ID,
			Direction:    models.DirectionCredit,
			Amount:       account.Balance,
			Description:  "Initial Deposit",
			Counterparty: "Nova Bank",
			Category:     models.CategoryIncome,
			Timestamp:    now,
		})
	}

	if err := s.accounts.Create(&account, opening); err != nil {
		if stderrors.Is(err, repositories.ErrAccountNumberExists) {
			s.logger.Warn("account number collided at commit", "account_number", accountNumber)
			return dto.RegistrationResult{Result: dto.Fail(errors.TransientConflict, "")}
		}
		s.logger.Error("account registration failed", "name", name, "error", err)
		return dto.RegistrationResult{Result: dto.Fail(errors.PersistenceError, "")}
	}

	s.logger.Info("account registered",
		"account_id", account.ID,
		"account_number", account.AccountNumber,
		"starting_balance", account.Balance.StringFixed(2))

	return dto.RegistrationResult{
		Result:  dto.OK(fmt.Sprintf("Welcome to Nova Bank, %s! Your account number is %s.", name, accountNumber)),
		Account: &account,
	}
}

// GetAccount returns one account with its cards and loans preloaded
func (s *accountService) GetAccount(id uuid.UUID) (*models.Account, error) {
	if id == uuid.Nil {
		return nil, errors.New(errors.NotLoggedIn)
	}

	account, err := s.accounts.GetByID(id)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAccountNotFound) {
			return nil, errors.New(errors.NotLoggedIn, errors.WithCause(err))
		}
		return nil, errors.New(errors.PersistenceError, errors.WithCause(err))
	}
	return account, nil
}

// ListContacts returns every account, for recipient pickers
func (s *accountService) ListContacts() ([]models.Account, error) {
	accounts, err := s.accounts.GetAll()
	if err != nil {
		return nil, errors.New(errors.PersistenceError, errors.WithCause(err))
	}
	return accounts, nil
}
