package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"novabank/internal/config"
	"novabank/internal/dto"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"
	"novabank/internal/validation"

	"github.com/google/uuid"
)

// dueDateDisplayLayout is the human-facing format used in extension messages.
const dueDateDisplayLayout = "January 2, 2006"

// extensionService implements ExtensionServiceInterface
type extensionService struct {
	accounts  repositories.AccountRepositoryInterface
	validator *validation.Validator
	policy    ApprovalPolicy
	metrics   MetricsRecorderInterface
	logger    *slog.Logger
	cfg       config.LedgerConfig
}

// NewExtensionService creates the due-date extension service
func NewExtensionService(
	accounts repositories.AccountRepositoryInterface,
	validator *validation.Validator,
	policy ApprovalPolicy,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	cfg config.LedgerConfig,
) ExtensionServiceInterface {
	return &extensionService{
		accounts:  accounts,
		validator: validator,
		policy:    policy,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// RequestExtension pushes a card or loan payment due date out by the
// configured number of calendar days. The new date is computed from the
// instrument's current due date, not from today, so back-to-back extensions
// stack. Approval is probabilistic; a denial changes nothing.
func (s *extensionService) RequestExtension(callerID uuid.UUID, request dto.ExtensionRequest) dto.ExtensionResult {
	if callerID == uuid.Nil {
		s.metrics.RecordExtension(request.Kind, "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.NotLoggedIn, "")}
	}

	if err := s.validator.Struct(request); err != nil {
		s.metrics.RecordExtension(request.Kind, "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.ValidationFailed, fmt.Sprintf("Error: %v.", err))}
	}

	account, err := s.accounts.GetByID(callerID)
	if err != nil {
		s.metrics.RecordExtension(request.Kind, "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.NotLoggedIn, "")}
	}

	switch request.Kind {
	case "card":
		return s.extendCard(account, request)
	case "loan":
		return s.extendLoan(account, request)
	default:
		s.metrics.RecordExtension(request.Kind, "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.ValidationFailed, "")}
	}
}

func (s *extensionService) extendCard(account *models.Account, request dto.ExtensionRequest) dto.ExtensionResult {
	card := account.CardByLastFour(request.InstrumentID)
	if card == nil {
		s.metrics.RecordExtension("card", "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.InstrumentNotFound,
			fmt.Sprintf("Error: Card ending in %s not found.", request.InstrumentID))}
	}

	if !s.policy.Approve(s.cfg.ExtensionRejectionRate) {
		s.metrics.RecordExtension("card", "declined")
		return dto.ExtensionResult{Result: dto.Fail(errors.ExtensionDenied,
			fmt.Sprintf("We're sorry, but your request to extend the payment due date for the card ending in %s was denied.", request.InstrumentID))}
	}

	newDue := card.PaymentDueDate.AddDate(0, 0, s.cfg.ExtensionDays)
	if err := s.accounts.UpdateCardDueDate(card.ID, newDue); err != nil {
		return dto.ExtensionResult{Result: s.extensionFailure("card", err)}
	}

	s.logger.Info("card due date extended",
		"account_id", account.ID, "card_last4", request.InstrumentID, "new_due_date", newDue)
	s.metrics.RecordExtension("card", "approved")

	return dto.ExtensionResult{
		Result: dto.OK(fmt.Sprintf("Success! Your payment due date for the card ending in %s has been extended to %s.",
			request.InstrumentID, newDue.Format(dueDateDisplayLayout))),
		NewDueDate:        &newDue,
		NewDueDateDisplay: newDue.Format(dueDateDisplayLayout),
	}
}

func (s *extensionService) extendLoan(account *models.Account, request dto.ExtensionRequest) dto.ExtensionResult {
	loanID, err := uuid.Parse(request.InstrumentID)
	if err != nil {
		s.metrics.RecordExtension("loan", "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.InstrumentNotFound,
			fmt.Sprintf("Error: Loan with ID %s not found.", request.InstrumentID))}
	}

	loan := account.LoanByID(loanID)
	if loan == nil {
		s.metrics.RecordExtension("loan", "rejected")
		return dto.ExtensionResult{Result: dto.Fail(errors.InstrumentNotFound,
			fmt.Sprintf("Error: Loan with ID %s not found.", request.InstrumentID))}
	}

	if !s.policy.Approve(s.cfg.ExtensionRejectionRate) {
		s.metrics.RecordExtension("loan", "declined")
		return dto.ExtensionResult{Result: dto.Fail(errors.ExtensionDenied,
			fmt.Sprintf("We're sorry, but your request to extend the payment due date for loan %s was denied.", request.InstrumentID))}
	}

	newDue := loan.PaymentDueDate.AddDate(0, 0, s.cfg.ExtensionDays)
	if err := s.accounts.UpdateLoanDueDate(loan.ID, newDue); err != nil {
		return dto.ExtensionResult{Result: s.extensionFailure("loan", err)}
	}

	s.logger.Info("loan due date extended",
		"account_id", account.ID, "loan_id", loan.ID, "new_due_date", newDue)
	s.metrics.RecordExtension("loan", "approved")

	return dto.ExtensionResult{
		Result: dto.OK(fmt.Sprintf("Success! Your payment due date for loan %s has been extended to %s.",
			request.InstrumentID, newDue.Format(dueDateDisplayLayout))),
		NewDueDate:        &newDue,
		NewDueDateDisplay: newDue.Format(dueDateDisplayLayout),
	}
}

func (s *extensionService) extensionFailure(kind string, err error) dto.Result {
	switch {
	case stderrors.Is(err, repositories.ErrCardNotFound), stderrors.Is(err, repositories.ErrLoanNotFound):
		s.metrics.RecordExtension(kind, "rejected")
		return dto.Fail(errors.InstrumentNotFound, "")

	case stderrors.Is(err, repositories.ErrTransientConflict):
		s.logger.Warn("extension abandoned after conflict retries", "kind", kind, "error", err)
		s.metrics.RecordConflict("extend_" + kind)
		s.metrics.RecordExtension(kind, "conflict")
		return dto.Fail(errors.TransientConflict, "")

	default:
		s.logger.Error("extension commit failed", "kind", kind, "error", err)
		s.metrics.RecordExtension(kind, "error")
		return dto.Fail(errors.PersistenceError, "")
	}
}
