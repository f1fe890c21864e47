package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/sheets"
)

// Config is the engine configuration, resolved from the config file,
// TARIFF_* environment variables and command-line flags via viper.
type Config struct {
	DatabasePath string
	CacheBackend string
	CacheTTLDays int
	RedisAddr    string
	RedisDB      int
	VATRate      float64

	// Escalation thresholds.
	DutySpreadMin    float64
	LowConfidenceMax float64
	SmallGapMax      float64
}

// SetDefaults registers the default values with viper. Called once from the
// root command before any config is read.
func SetDefaults() {
	viper.SetDefault("db.path", DefaultDatabasePath())
	viper.SetDefault("cache.backend", "sqlite")
	viper.SetDefault("cache.ttl_days", 30)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("vat.rate", 18.0)
	viper.SetDefault("policy.duty_spread_min", 4.0)
	viper.SetDefault("policy.low_confidence_max", 60.0)
	viper.SetDefault("policy.small_gap_max", 15.0)
}

// Load resolves the engine configuration from viper.
func Load() Config {
	return Config{
		DatabasePath:     ExpandPath(viper.GetString("db.path")),
		CacheBackend:     viper.GetString("cache.backend"),
		CacheTTLDays:     viper.GetInt("cache.ttl_days"),
		RedisAddr:        viper.GetString("redis.addr"),
		RedisDB:          viper.GetInt("redis.db"),
		VATRate:          viper.GetFloat64("vat.rate"),
		DutySpreadMin:    viper.GetFloat64("policy.duty_spread_min"),
		LowConfidenceMax: viper.GetFloat64("policy.low_confidence_max"),
		SmallGapMax:      viper.GetFloat64("policy.small_gap_max"),
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}

// LoadSheetsConfig loads Google Sheets configuration from viper and
// environment variables, viper taking precedence.
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		config.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		config.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		config.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		config.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		config.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		config.SpreadsheetName = v
	}

	// Fall back to the GOOGLE_SHEETS_* environment for anything unset.
	if config.ServiceAccountPath == "" && config.ClientID == "" {
		if err := config.LoadFromEnv(); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
