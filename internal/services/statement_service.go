package services

import (
	"fmt"
	"log/slog"

	"novabank/internal/dto"
	"novabank/internal/errors"
	"novabank/internal/models"
	"novabank/internal/repositories"

	"github.com/google/uuid"
)

// defaultActivityLimit caps a card activity listing when the caller does not
// name a limit.
const defaultActivityLimit = 5

// statementService implements StatementServiceInterface
type statementService struct {
	accounts     repositories.AccountRepositoryInterface
	transactions repositories.TransactionRepositoryInterface
	logger       *slog.Logger
}

// NewStatementService creates the card statement read service
func NewStatementService(
	accounts repositories.AccountRepositoryInterface,
	transactions repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) StatementServiceInterface {
	return &statementService{
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

// CardStatement returns the current statement snapshot for one of the
// caller's cards. An empty last-4 selects the account's primary card.
func (s *statementService) CardStatement(callerID uuid.UUID, cardLastFour string) dto.StatementResult {
	card, fail := s.resolveCard(callerID, cardLastFour)
	if fail != nil {
		return dto.StatementResult{Result: *fail}
	}

	due := card.PaymentDueDate
	return dto.StatementResult{
		Result: dto.OK(fmt.Sprintf("Your card ending in %s has a statement balance of $%s. The minimum payment of $%s is due on %s.",
			card.LastFour(),
			card.StatementBalance.StringFixed(2),
			card.MinimumPayment.StringFixed(2),
			due.Format(dueDateDisplayLayout))),
		CardLastFour:     card.LastFour(),
		StatementBalance: card.StatementBalance.StringFixed(2),
		MinimumPayment:   card.MinimumPayment.StringFixed(2),
		PaymentDueDate:   &due,
	}
}

// CardTransactions returns the most recent activity for one of the caller's
// cards, newest first. A non-positive limit falls back to the default.
func (s *statementService) CardTransactions(callerID uuid.UUID, cardLastFour string, limit int) dto.CardTransactionsResult {
	card, fail := s.resolveCard(callerID, cardLastFour)
	if fail != nil {
		return dto.CardTransactionsResult{Result: *fail}
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}

	records, err := s.transactions.GetRecentByCardID(card.ID, limit)
	if err != nil {
		s.logger.Error("card activity read failed", "card_last4", card.LastFour(), "error", err)
		return dto.CardTransactionsResult{Result: dto.Fail(errors.PersistenceError, "")}
	}

	return dto.CardTransactionsResult{
		Result:       dto.OK(fmt.Sprintf("Found %d recent transactions for the card ending in %s.", len(records), card.LastFour())),
		CardLastFour: card.LastFour(),
		Transactions: records,
	}
}

func (s *statementService) resolveCard(callerID uuid.UUID, cardLastFour string) (*models.Card, *dto.Result) {
	if callerID == uuid.Nil {
		fail := dto.Fail(errors.NotLoggedIn, "")
		return nil, &fail
	}

	account, err := s.accounts.GetByID(callerID)
	if err != nil {
		fail := dto.Fail(errors.NotLoggedIn, "")
		return nil, &fail
	}

	var card *models.Card
	if cardLastFour == "" {
		card = account.PrimaryCard()
		if card == nil {
			fail := dto.Fail(errors.InstrumentNotFound, "Error: You do not have any cards.")
			return nil, &fail
		}
	} else {
		card = account.CardByLastFour(cardLastFour)
		if card == nil {
			fail := dto.Fail(errors.InstrumentNotFound,
				fmt.Sprintf("Error: Card ending in %s not found.", cardLastFour))
			return nil, &fail
		}
	}

	return card, nil
}
