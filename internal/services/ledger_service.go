package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"novabank/internal/dto"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements LedgerServiceInterface
type ledgerService struct {
	accounts repositories.AccountRepositoryInterface
	metrics  MetricsRecorderInterface
	logger   *slog.Logger
}

// NewLedgerService creates the money-movement service
func NewLedgerService(
	accounts repositories.AccountRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) LedgerServiceInterface {
	return &ledgerService{
		accounts: accounts,
		metrics:  metrics,
		logger:   logger,
	}
}

// Transfer moves amount from the caller to the resolved recipient. The
// recipient identifier is matched against display names first and account
// numbers second; a name shared by several accounts is rejected rather than
// guessed at. On success exactly four effects land in one atomic commit: both
// balance changes and the paired debit/credit records.
func (s *ledgerService) Transfer(callerID uuid.UUID, recipientIdentifier string, amount decimal.Decimal) dto.TransferResult {
	if callerID == uuid.Nil {
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.NotLoggedIn, "")}
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.InvalidAmount, "")}
	}

	sender, err := s.accounts.GetByID(callerID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAccountNotFound) {
			s.metrics.RecordTransfer("rejected")
			return dto.TransferResult{Result: dto.Fail(errors.NotLoggedIn, "")}
		}
		s.logger.Error("failed to load sender", "error", err, "account_id", callerID)
		s.metrics.RecordTransfer("error")
		return dto.TransferResult{Result: dto.Fail(errors.PersistenceError, "")}
	}

	recipient, result := s.resolveRecipient(recipientIdentifier)
	if result != nil {
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: *result}
	}

	if recipient.ID == sender.ID {
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.SelfTransferNotAllowed, "")}
	}

	if sender.Balance.LessThan(amount) {
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.InsufficientFunds,
			fmt.Sprintf("Error: Insufficient funds. Your balance is $%s.", sender.Balance.StringFixed(2)))}
	}

	debit := models.Transaction{
		Description:  fmt.Sprintf("Payment to %s", recipient.Name),
		Counterparty: recipient.Name,
		Category:     models.CategoryTransfers,
	}
	credit := models.Transaction{
		Description:  fmt.Sprintf("Payment from %s", sender.Name),
		Counterparty: sender.Name,
		Category:     models.CategoryTransfers,
	}

	if err := s.accounts.ExecuteAtomicTransfer(sender.ID, recipient.ID, amount, debit, credit); err != nil {
		return s.transferFailure(err, sender.ID)
	}

	s.logger.Info("transfer completed",
		"from", sender.AccountNumber,
		"to", recipient.AccountNumber,
		"amount", amount.StringFixed(2))
	s.metrics.RecordTransfer("completed")
	s.metrics.ObserveTransferAmount(amount.InexactFloat64())

	return dto.TransferResult{
		Result: dto.OK(fmt.Sprintf("Success! You sent $%s.", amount.StringFixed(2))),
	}
}

// resolveRecipient matches the identifier by exact display name first, then
// by account number, failing when ambiguous or unmatched.
func (s *ledgerService) resolveRecipient(identifier string) (*models.Account, *dto.Result) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		result := dto.Fail(errors.RecipientNotFound, "Error: No recipient was specified.")
		return nil, &result
	}

	recipient, err := s.accounts.GetByName(identifier)
	if err == nil {
		return recipient, nil
	}

	if stderrors.Is(err, repositories.ErrAmbiguousAccountName) {
		result := dto.Fail(errors.AmbiguousRecipient,
			fmt.Sprintf("Error: More than one contact is named %q. Please use an account number instead.", identifier))
		return nil, &result
	}

	if !stderrors.Is(err, repositories.ErrAccountNotFound) {
		s.logger.Error("failed to resolve recipient by name", "error", err)
		result := dto.Fail(errors.PersistenceError, "")
		return nil, &result
	}

	recipient, err = s.accounts.GetByAccountNumber(identifier)
	if err == nil {
		return recipient, nil
	}

	if stderrors.Is(err, repositories.ErrAccountNotFound) {
		result := dto.Fail(errors.RecipientNotFound,
			fmt.Sprintf("Error: Contact or account %q not found.", identifier))
		return nil, &result
	}

	s.logger.Error("failed to resolve recipient by number", "error", err)
	result := dto.Fail(errors.PersistenceError, "")
	return nil, &result
}

// transferFailure maps commit errors to caller-facing results. A commit-time
// insufficient-funds failure re-reads the latest balance for the message,
// since the snapshot the caller saw is already stale.
func (s *ledgerService) transferFailure(err error, senderID uuid.UUID) dto.TransferResult {
	switch {
	case stderrors.Is(err, repositories.ErrInsufficientFunds):
		s.metrics.RecordTransfer("rejected")
		message := errors.MessageFor(errors.InsufficientFunds)
		if sender, readErr := s.accounts.GetByID(senderID); readErr == nil {
			message = fmt.Sprintf("Error: Insufficient funds. Your balance is $%s.", sender.Balance.StringFixed(2))
		}
		return dto.TransferResult{Result: dto.Fail(errors.InsufficientFunds, message)}

	case stderrors.Is(err, repositories.ErrSenderNotFound):
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.NotLoggedIn, "")}

	case stderrors.Is(err, repositories.ErrAccountNotFound):
		s.metrics.RecordTransfer("rejected")
		return dto.TransferResult{Result: dto.Fail(errors.RecipientNotFound, "")}

	case stderrors.Is(err, repositories.ErrTransientConflict):
		s.logger.Warn("transfer abandoned after conflict retries", "error", err, "sender_id", senderID)
		s.metrics.RecordConflict("transfer")
		s.metrics.RecordTransfer("conflict")
		return dto.TransferResult{Result: dto.Fail(errors.TransientConflict, "")}

	default:
		s.logger.Error("transfer commit failed", "error", err, "sender_id", senderID)
		s.metrics.RecordTransfer("error")
		return dto.TransferResult{Result: dto.Fail(errors.PersistenceError, "")}
	}
}
