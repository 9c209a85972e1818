package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Ledger   LedgerConfig
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LedgerConfig holds the business policy knobs for the ledger core.
type LedgerConfig struct {
	// StartingBalance is credited to every account at registration.
	StartingBalance float64

	// Defaults applied to newly issued cards.
	DefaultCreditLimit float64
	DefaultAPR         float64
	CardValidityYears  int

	// Simulated underwriting rejection rates, in [0,1].
	CardRejectionRate      float64
	LoanRejectionRate      float64
	ExtensionRejectionRate float64

	// Bounds for the uniformly drawn annual loan rate, in percent.
	LoanRateMin float64
	LoanRateMax float64

	// ExtensionDays is the calendar-day window added to a due date on an
	// approved payment extension.
	ExtensionDays int

	// MaxCommitRetries bounds the optimistic-commit retry loop before a
	// conflict is surfaced to the caller.
	MaxCommitRetries int
}

func Load() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "ledger_user"),
			Password:        getEnv("DB_PASSWORD", "ledger_password"),
			Name:            getEnv("DB_NAME", "ledger_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Ledger: LedgerConfig{
			StartingBalance:        getFloatEnv("LEDGER_STARTING_BALANCE", 1000.00),
			DefaultCreditLimit:     getFloatEnv("LEDGER_DEFAULT_CREDIT_LIMIT", 5000.00),
			DefaultAPR:             getFloatEnv("LEDGER_DEFAULT_APR", 24.99),
			CardValidityYears:      getIntEnv("LEDGER_CARD_VALIDITY_YEARS", 3),
			CardRejectionRate:      getFloatEnv("LEDGER_CARD_REJECTION_RATE", 0.20),
			LoanRejectionRate:      getFloatEnv("LEDGER_LOAN_REJECTION_RATE", 0.30),
			ExtensionRejectionRate: getFloatEnv("LEDGER_EXTENSION_REJECTION_RATE", 0.10),
			LoanRateMin:            getFloatEnv("LEDGER_LOAN_RATE_MIN", 3.00),
			LoanRateMax:            getFloatEnv("LEDGER_LOAN_RATE_MAX", 13.00),
			ExtensionDays:          getIntEnv("LEDGER_EXTENSION_DAYS", 14),
			MaxCommitRetries:       getIntEnv("LEDGER_MAX_COMMIT_RETRIES", 3),
		},
	}
}

// DSN builds the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
