package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Matching    MatchingConfig
	Margin      MarginConfig
	Decision    DecisionConfig
	Risk        RiskConfig
	Batch       BatchConfig
	Cache       CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplaceConfig holds secondary-marketplace API configuration
type MarketplaceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	SiteID  string `mapstructure:"site_id"`
}

// MatchingConfig holds the matching cascade thresholds
type MatchingConfig struct {
	ImageThreshold    float64 `mapstructure:"image_threshold"`
	SemanticThreshold float64 `mapstructure:"semantic_threshold"`
	TextualThreshold  float64 `mapstructure:"textual_threshold"`
	MaxPriceDeviation float64 `mapstructure:"max_price_deviation"`
}

// MarginConfig holds the cost model
type MarginConfig struct {
	FxRate             float64 `mapstructure:"fx_rate"`
	ImportTaxRate      float64 `mapstructure:"import_tax_rate"`
	ShippingBase       float64 `mapstructure:"shipping_base"`
	MarketplaceFeeRate float64 `mapstructure:"marketplace_fee_rate"`
	MinMarginPct       float64 `mapstructure:"min_margin_pct"`
}

// DecisionConfig holds the aggregation weights and approval rule
type DecisionConfig struct {
	QuantWeight   float64 `mapstructure:"quant_weight"`
	QualWeight    float64 `mapstructure:"qual_weight"`
	MarginWeight  float64 `mapstructure:"margin_weight"`
	MinScore      float64 `mapstructure:"min_score"`
	MinCriteria   int     `mapstructure:"min_criteria"`
	ContinueFloor float64 `mapstructure:"continue_floor"`
	SoftThreshold float64 `mapstructure:"soft_threshold"` // quantitative soft threshold
}

// RiskConfig holds the risk model bounds
type RiskConfig struct {
	MediumThreshold     int     `mapstructure:"medium_threshold"`
	HighThreshold       int     `mapstructure:"high_threshold"`
	ReviewThreshold     int     `mapstructure:"review_threshold"`
	SuspiciousDeviation float64 `mapstructure:"suspicious_deviation"`
	SuspiciousMarginPct float64 `mapstructure:"suspicious_margin_pct"`
	LowMarginFloor      float64 `mapstructure:"low_margin_floor"`
}

// BatchConfig holds batch evaluation pacing
type BatchConfig struct {
	Concurrency      int           `mapstructure:"concurrency"`
	WaveDelay        time.Duration `mapstructure:"wave_delay"`
	CandidateTimeout time.Duration `mapstructure:"candidate_timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/arbiscout/")

	// Environment variable settings
	v.SetEnvPrefix("ARBISCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Marketplace defaults
	v.SetDefault("marketplace.base_url", "https://api.mercadolibre.com")
	v.SetDefault("marketplace.site_id", "MLB")

	// Matching defaults
	v.SetDefault("matching.image_threshold", 80.0)
	v.SetDefault("matching.semantic_threshold", 70.0)
	v.SetDefault("matching.textual_threshold", 60.0)
	v.SetDefault("matching.max_price_deviation", 2.5)

	// Margin defaults
	v.SetDefault("margin.fx_rate", 5.20)
	v.SetDefault("margin.import_tax_rate", 0.12)
	v.SetDefault("margin.shipping_base", 12.0)
	v.SetDefault("margin.marketplace_fee_rate", 0.10)
	v.SetDefault("margin.min_margin_pct", 15.0)

	// Decision defaults
	v.SetDefault("decision.quant_weight", 0.30)
	v.SetDefault("decision.qual_weight", 0.30)
	v.SetDefault("decision.margin_weight", 0.40)
	v.SetDefault("decision.min_score", 70.0)
	v.SetDefault("decision.min_criteria", 3)
	v.SetDefault("decision.continue_floor", 40.0)
	v.SetDefault("decision.soft_threshold", 70.0)

	// Risk defaults
	v.SetDefault("risk.medium_threshold", 40)
	v.SetDefault("risk.high_threshold", 70)
	v.SetDefault("risk.review_threshold", 50)
	v.SetDefault("risk.suspicious_deviation", 3.0)
	v.SetDefault("risk.suspicious_margin_pct", 1000.0)
	v.SetDefault("risk.low_margin_floor", 10.0)

	// Batch defaults
	v.SetDefault("batch.concurrency", 3)
	v.SetDefault("batch.wave_delay", "2s")
	v.SetDefault("batch.candidate_timeout", "60s")

	// Cache defaults
	v.SetDefault("cache.ttl", "6h")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Marketplace.BaseURL == "" {
		return fmt.Errorf("marketplace base URL is required (set ARBISCOUT_MARKETPLACE_BASE_URL)")
	}

	if config.Margin.FxRate <= 0 {
		return fmt.Errorf("fx rate must be positive, got: %v", config.Margin.FxRate)
	}

	if config.Matching.MaxPriceDeviation <= 0 {
		return fmt.Errorf("max price deviation must be positive, got: %v", config.Matching.MaxPriceDeviation)
	}

	weights := config.Decision.QuantWeight + config.Decision.QualWeight + config.Decision.MarginWeight
	if weights <= 0 {
		return fmt.Errorf("decision weights must sum to a positive value, got: %v", weights)
	}

	if config.Decision.MinCriteria < 1 || config.Decision.MinCriteria > 4 {
		return fmt.Errorf("decision min_criteria must be between 1 and 4, got: %d", config.Decision.MinCriteria)
	}

	if config.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got: %d", config.Batch.Concurrency)
	}

	return nil
}
