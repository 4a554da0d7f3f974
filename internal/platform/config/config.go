package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Base currency of the books; per-voucher exchange rates are captured
	// against it.
	BaseCurrency string

	// VoucherAtomicPosting selects the atomic poster (single DB transaction).
	// When false the composite, at-least-once poster is used instead; only
	// meant for backing stores that cannot span voucher insert and journal
	// posting in one transaction.
	VoucherAtomicPosting bool

	// Treasury classification rule, shared by vouchers and cheques.
	TreasuryCodePrefixes []string
	TreasuryNameKeywords []string

	// Fallback chart codes per system account role, used when no explicit
	// mapping row exists.
	SystemAccountDefaults map[string]string

	// Bounded retry for transient persistence failures.
	RetryMaxElapsed time.Duration

	RateLimit string // ulule/limiter formatted, e.g. "100-M"
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("BASE_CURRENCY", "EGP")
	viper.SetDefault("VOUCHER_ATOMIC_POSTING", true)
	viper.SetDefault("TREASURY_CODE_PREFIXES", "101,123")
	// Arabic and English terms for cash boxes, safes and banks; matches the
	// deployment language of the seeded chart of accounts.
	viper.SetDefault("TREASURY_NAME_KEYWORDS", "صندوق,خزينة,بنك,نقد,cash,bank")
	viper.SetDefault("RETRY_MAX_ELAPSED", "10s")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.SetDefault("SYSTEM_ACCOUNT_CASH", "1231")
	viper.SetDefault("SYSTEM_ACCOUNT_CUSTOMERS", "10201")
	viper.SetDefault("SYSTEM_ACCOUNT_SUPPLIERS", "201")
	viper.SetDefault("SYSTEM_ACCOUNT_NOTES_RECEIVABLE", "1222")
	viper.SetDefault("SYSTEM_ACCOUNT_NOTES_PAYABLE", "222")
	viper.SetDefault("SYSTEM_ACCOUNT_CUSTOMER_DEPOSITS", "226")
	viper.SetDefault("SYSTEM_ACCOUNT_OTHER_REVENUE", "4102")
	viper.SetDefault("SYSTEM_ACCOUNT_GENERAL_EXPENSES", "502")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.VoucherAtomicPosting = viper.GetBool("VOUCHER_ATOMIC_POSTING")
	cfg.TreasuryCodePrefixes = splitTrimmed(viper.GetString("TREASURY_CODE_PREFIXES"))
	cfg.TreasuryNameKeywords = splitTrimmed(viper.GetString("TREASURY_NAME_KEYWORDS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	retryMaxStr := viper.GetString("RETRY_MAX_ELAPSED")
	retryMax, err := time.ParseDuration(retryMaxStr)
	if err != nil {
		retryMax = 10 * time.Second
		log.Printf("Warning: Invalid value for RETRY_MAX_ELAPSED ('%s'). Defaulting to %s.\n", retryMaxStr, retryMax)
	}
	cfg.RetryMaxElapsed = retryMax

	cfg.SystemAccountDefaults = map[string]string{
		"CASH":              viper.GetString("SYSTEM_ACCOUNT_CASH"),
		"CUSTOMERS":         viper.GetString("SYSTEM_ACCOUNT_CUSTOMERS"),
		"SUPPLIERS":         viper.GetString("SYSTEM_ACCOUNT_SUPPLIERS"),
		"NOTES_RECEIVABLE":  viper.GetString("SYSTEM_ACCOUNT_NOTES_RECEIVABLE"),
		"NOTES_PAYABLE":     viper.GetString("SYSTEM_ACCOUNT_NOTES_PAYABLE"),
		"CUSTOMER_DEPOSITS": viper.GetString("SYSTEM_ACCOUNT_CUSTOMER_DEPOSITS"),
		"OTHER_REVENUE":     viper.GetString("SYSTEM_ACCOUNT_OTHER_REVENUE"),
		"GENERAL_EXPENSES":  viper.GetString("SYSTEM_ACCOUNT_GENERAL_EXPENSES"),
	}

	if !cfg.VoucherAtomicPosting {
		log.Println("Warning: VOUCHER_ATOMIC_POSTING is disabled; voucher posting falls back to the non-atomic composite path.")
	}

	return cfg, nil
}

func splitTrimmed(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
