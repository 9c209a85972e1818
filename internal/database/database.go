package database

import (
	"fmt"
	"time"

	"novabank/internal/config"
	"novabank/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Account{},
		&models.Card{},
		&models.Loan{},
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}

// CreateIndexes adds the lookup indexes the ledger's hot paths depend on.
// AutoMigrate covers the column-level indexes declared on the models; these
// are the compound and expression indexes it cannot express.
func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_accounts_name_lower ON accounts(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_transactions_account_id_timestamp ON transactions(account_id, timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_card_id_timestamp ON transactions(card_id, timestamp DESC) WHERE card_id IS NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_cards_account_id ON cards(account_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_account_id ON loans(account_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status)",
	}

	for _, query := range queries {
		if err := db.Exec(query).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
