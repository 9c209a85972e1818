package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"novabank/internal/config"
	"novabank/internal/dto"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"
	"novabank/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// issuerService implements IssuerServiceInterface
type issuerService struct {
	accounts  repositories.AccountRepositoryInterface
	validator *validation.Validator
	policy    ApprovalPolicy
	metrics   MetricsRecorderInterface
	logger    *slog.Logger
	cfg       config.LedgerConfig
	now       func() time.Time
}

// NewIssuerService creates the instrument issuance service
func NewIssuerService(
	accounts repositories.AccountRepositoryInterface,
	validator *validation.Validator,
	policy ApprovalPolicy,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	cfg config.LedgerConfig,
) IssuerServiceInterface {
	return &issuerService{
		accounts:  accounts,
		validator: validator,
		policy:    policy,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// IssueCard processes a credit card application. The underwriting decision is
// probabilistic and independent of the application content; on approval a
// fresh card is generated and appended to the account in one commit, so a
// card is never partially created.
func (s *issuerService) IssueCard(callerID uuid.UUID, application dto.CardApplication) dto.CardResult {
	if callerID == uuid.Nil {
		s.metrics.RecordIssuance("card", "rejected")
		return dto.CardResult{Result: dto.Fail(errors.NotLoggedIn, "")}
	}

	if err := s.validator.Struct(application); err != nil {
		s.metrics.RecordIssuance("card", "rejected")
		return dto.CardResult{Result: dto.Fail(errors.ValidationFailed, fmt.Sprintf("Error: %v.", err))}
	}

	if !s.policy.Approve(s.cfg.CardRejectionRate) {
		s.metrics.RecordIssuance("card", "declined")
		return dto.CardResult{Result: dto.Fail(errors.ApplicationRejected,
			fmt.Sprintf("We're sorry, %s, but we were unable to approve your credit card application at this time.", application.FullName))}
	}

	card := GenerateCard(s.cfg, s.now())
	card.AccountID = callerID

	if err := s.accounts.AppendCard(&card); err != nil {
		return dto.CardResult{Result: s.issuanceFailure("card", err)}
	}

	s.logger.Info("card issued", "account_id", callerID, "card_last4", card.LastFour(), "network", card.Network)
	s.metrics.RecordIssuance("card", "approved")

	return dto.CardResult{
		Result: dto.OK(fmt.Sprintf("Congratulations, %s! Your new %s card has been approved.",
			application.FullName, card.Network)),
		NewCard: &card,
	}
}

// IssueLoan processes a loan application. On approval the interest rate is
// drawn from the configured band, the monthly payment is fixed by the annuity
// formula, and the disbursement lands in one atomic commit: balance credit,
// loan row, and the single Income transaction.
func (s *issuerService) IssueLoan(callerID uuid.UUID, application dto.LoanApplication) dto.LoanResult {
	if callerID == uuid.Nil {
		s.metrics.RecordIssuance("loan", "rejected")
		return dto.LoanResult{Result: dto.Fail(errors.NotLoggedIn, "")}
	}

	if err := s.validator.Struct(application); err != nil {
		s.metrics.RecordIssuance("loan", "rejected")
		return dto.LoanResult{Result: dto.Fail(errors.ValidationFailed, fmt.Sprintf("Error: %v.", err))}
	}

	principal := decimal.NewFromFloat(application.LoanAmount).Round(2)
	if principal.LessThanOrEqual(decimal.Zero) {
		s.metrics.RecordIssuance("loan", "rejected")
		return dto.LoanResult{Result: dto.Fail(errors.InvalidAmount, "")}
	}

	if !s.policy.Approve(s.cfg.LoanRejectionRate) {
		s.metrics.RecordIssuance("loan", "declined")
		return dto.LoanResult{Result: dto.Fail(errors.ApplicationRejected,
			fmt.Sprintf("We're sorry, %s, but we were unable to approve your loan application for $%s at this time.",
				application.FullName, principal.StringFixed(2)))}
	}

	rate := DrawLoanRate(s.cfg)
	now := s.now()

	loan := models.Loan{
		AccountID:        callerID,
		Principal:        principal,
		InterestRate:     rate,
		TermMonths:       application.TermMonths,
		MonthlyPayment:   MonthlyPayment(principal, rate, application.TermMonths),
		RemainingBalance: principal,
		Status:           models.LoanStatusActive,
		StartDate:        now,
		PaymentDueDate:   FirstOfNextMonth(now),
	}

	disbursement := models.Transaction{
		Description:  "Loan Disbursement",
		Counterparty: "Nova Bank Loans",
		Category:     models.CategoryIncome,
		Timestamp:    now,
	}

	if err := s.accounts.DisburseLoan(&loan, &disbursement); err != nil {
		return dto.LoanResult{Result: s.issuanceFailure("loan", err)}
	}

	s.logger.Info("loan disbursed",
		"account_id", callerID,
		"loan_id", loan.ID,
		"principal", principal.StringFixed(2),
		"rate", rate.StringFixed(2),
		"term_months", application.TermMonths)
	s.metrics.RecordIssuance("loan", "approved")

	return dto.LoanResult{
		Result: dto.OK(fmt.Sprintf("Congratulations! Your loan for $%s has been approved. The funds are now available in your account.",
			principal.StringFixed(2))),
		NewLoan: &loan,
	}
}

func (s *issuerService) issuanceFailure(instrument string, err error) dto.Result {
	switch {
	case stderrors.Is(err, repositories.ErrAccountNotFound):
		s.metrics.RecordIssuance(instrument, "rejected")
		return dto.Fail(errors.NotLoggedIn, "")

	case stderrors.Is(err, repositories.ErrTransientConflict):
		s.logger.Warn("issuance abandoned after conflict retries", "instrument", instrument, "error", err)
		s.metrics.RecordConflict("issue_" + instrument)
		s.metrics.RecordIssuance(instrument, "conflict")
		return dto.Fail(errors.TransientConflict, "")

	default:
		s.logger.Error("issuance commit failed", "instrument", instrument, "error", err)
		s.metrics.RecordIssuance(instrument, "error")
		return dto.Fail(errors.PersistenceError, "")
	}
}
