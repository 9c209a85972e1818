package repositories

import (
	"fmt"

	"novabank/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepositoryInterface. The
// transactions table is append-only; this type deliberately exposes no update
// or delete operations.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Append appends a transaction record to the log
func (r *transactionRepository) Append(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// GetByAccountID retrieves transactions for an account with pagination,
// newest first
func (r *transactionRepository) GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	if err := r.db.Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := r.db.Where("account_id = ?", accountID).
		Order("timestamp DESC").
		Offset(offset).Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}

	return transactions, total, nil
}

// GetRecentByAccountID retrieves the most recent transactions for an account
func (r *transactionRepository) GetRecentByAccountID(accountID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("account_id = ?", accountID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// GetRecentByCardID retrieves the most recent transactions linked to a card
func (r *transactionRepository) GetRecentByCardID(cardID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("card_id = ?", cardID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get card transactions: %w", err)
	}
	return transactions, nil
}
