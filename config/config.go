// Package config handles loading and validation of application configuration
// from environment variables and potentially configuration files.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/pkg/valueobjects"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host         string `mapstructure:"HOST" yaml:"host"`
	Port         int    `mapstructure:"PORT" yaml:"port"`
	User         string `mapstructure:"USER" yaml:"user"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	Name         string `mapstructure:"NAME" yaml:"name"`
	SSLMode      string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and other
// URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// LedgerConfig holds tunables for the balance ledger and the debt
// simplification engine.
type LedgerConfig struct {
	// SettlementTolerance is the magnitude below which a balance is treated
	// as settled. Stored as a string so it converts losslessly to the exact
	// decimal type.
	SettlementTolerance string `mapstructure:"SETTLEMENT_TOLERANCE" yaml:"settlement_tolerance"`
	// DefaultCurrency is used for newly linked relationships before any
	// expense names a currency.
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY" yaml:"default_currency"`
}

// Tolerance parses the configured settlement tolerance into an exact decimal.
func (c *LedgerConfig) Tolerance() (decimal.Decimal, error) {
	tolerance, err := decimal.NewFromString(c.SettlementTolerance)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid settlement tolerance %q: %w", c.SettlementTolerance, err)
	}
	if !tolerance.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("settlement tolerance must be positive, got %q", c.SettlementTolerance)
	}
	return tolerance, nil
}

// Config is the root configuration structure.
type Config struct {
	Environment Environment    `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Database    DatabaseConfig `mapstructure:"DATABASE" yaml:"database"`
	Ledger      LedgerConfig   `mapstructure:"LEDGER" yaml:"ledger"`
	LogLevel    string         `mapstructure:"LOG_LEVEL" yaml:"log_level"`
}

// LoadConfig reads configuration from environment variables with sane
// defaults for local development.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "expense_tracker_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("LEDGER.SETTLEMENT_TOLERANCE", "0.01")
	v.SetDefault("LEDGER.DEFAULT_CURRENCY", "USD")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		{"ENVIRONMENT", "ENVIRONMENT"},
		{"LOG_LEVEL", "LOG_LEVEL"},
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"DATABASE.MAX_OPEN_CONNS", "DB_MAX_OPEN_CONNS"},
		{"DATABASE.MAX_IDLE_CONNS", "DB_MAX_IDLE_CONNS"},
		{"DATABASE.CONN_MAX_LIFE", "DB_CONN_MAX_LIFE"},
		{"LEDGER.SETTLEMENT_TOLERANCE", "LEDGER_SETTLEMENT_TOLERANCE"},
		{"LEDGER.DEFAULT_CURRENCY", "LEDGER_DEFAULT_CURRENCY"},
	}
	for _, binding := range envBindings {
		if err := v.BindEnv(binding[0], binding[1]); err != nil {
			return nil, fmt.Errorf("failed to bind env var %s: %w", binding[1], err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Infow("Loaded configuration",
		"environment", cfg.Environment,
		"dbHost", cfg.Database.Host,
		"dbName", cfg.Database.Name,
		"settlementTolerance", cfg.Ledger.SettlementTolerance)

	return &cfg, nil
}

// Validate checks the configuration for values that would only fail later at
// an awkward moment.
func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
	if _, err := c.Ledger.Tolerance(); err != nil {
		return err
	}
	if _, err := valueobjects.NewMoneyFromString("0", c.Ledger.DefaultCurrency); err != nil {
		return fmt.Errorf("unsupported default currency %q", c.Ledger.DefaultCurrency)
	}
	if c.Environment == EnvProduction && c.Database.Password == "" {
		return fmt.Errorf("database password is required in production")
	}
	return nil
}
