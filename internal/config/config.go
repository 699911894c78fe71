package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultDailyRate is the daily interest rate applied when none is
// configured: 0.05% per calculation.
var DefaultDailyRate = decimal.RequireFromString("0.0005")

type Config struct {
	ServerPort string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// TxTimeout bounds every atomic unit against the database.
	TxTimeout time.Duration

	InterestRate decimal.Decimal

	// AccrualInterval drives the background interest sweep. Zero disables it;
	// accrual then runs only on demand through the API.
	AccrualInterval time.Duration
}

// Load reads configuration from the environment with sensible defaults.
// Keys use underscores, e.g. DATABASE_HOST, SERVER_PORT, LEDGER_TX_TIMEOUT.
func Load() *Config {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "bank_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("ledger.tx_timeout", "5s")
	v.SetDefault("ledger.interest_rate", DefaultDailyRate.String())
	v.SetDefault("ledger.accrual_interval", "0")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rate, err := decimal.NewFromString(v.GetString("ledger.interest_rate"))
	if err != nil || rate.IsNegative() {
		rate = DefaultDailyRate
	}

	return &Config{
		ServerPort:        v.GetString("server.port"),
		DBHost:            v.GetString("database.host"),
		DBPort:            v.GetString("database.port"),
		DBUser:            v.GetString("database.user"),
		DBPassword:        v.GetString("database.password"),
		DBName:            v.GetString("database.name"),
		DBSSLMode:         v.GetString("database.sslmode"),
		DBMaxOpenConns:    v.GetInt("database.max_open_conns"),
		DBMaxIdleConns:    v.GetInt("database.max_idle_conns"),
		DBConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		TxTimeout:         v.GetDuration("ledger.tx_timeout"),
		InterestRate:      rate,
		AccrualInterval:   v.GetDuration("ledger.accrual_interval"),
	}
}

func (c *Config) GetDBConnectionString() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}
