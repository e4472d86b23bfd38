package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"pulsechain-cluster-analyzer/internal/domain/service"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Neo4J    Neo4JConfig    `mapstructure:"neo4j"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPPort int    `mapstructure:"http_port"`
}

// ExplorerConfig represents the blockchain explorer API configuration
type ExplorerConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	TransferPageLimit int           `mapstructure:"transfer_page_limit"`
}

// AnalysisConfig represents clustering analysis configuration
type AnalysisConfig struct {
	DefaultTopHolders int                `mapstructure:"default_top_holders"`
	DefaultDaysBack   int                `mapstructure:"default_days_back"`
	FetchBatchSize    int                `mapstructure:"fetch_batch_size"`
	Thresholds        service.Thresholds `mapstructure:"thresholds"`
}

// NATSConfig represents NATS result publishing configuration
type NATSConfig struct {
	URL               string        `mapstructure:"url"`
	Subject           string        `mapstructure:"subject"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReconnectAttempts int           `mapstructure:"reconnect_attempts"`
	ReconnectDelay    time.Duration `mapstructure:"reconnect_delay"`
	Enabled           bool          `mapstructure:"enabled"`
}

// Neo4JConfig represents Neo4J configuration
type Neo4JConfig struct {
	URI                          string        `mapstructure:"uri"`
	Username                     string        `mapstructure:"username"`
	Password                     string        `mapstructure:"password"`
	Database                     string        `mapstructure:"database"`
	ConnectTimeout               time.Duration `mapstructure:"connect_timeout"`
	MaxConnectionPoolSize        int           `mapstructure:"max_connection_pool_size"`
	ConnectionAcquisitionTimeout time.Duration `mapstructure:"connection_acquisition_timeout"`
	Enabled                      bool          `mapstructure:"enabled"`
}

// Load loads configuration from environment variables and files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/pulsechain-cluster-analyzer")

	// Environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("")

	// Map environment variables to nested config keys
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Default values
	setDefaults()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.http_port", 8080)

	// Explorer defaults (PulseChain Scan, Blockscout-compatible)
	viper.SetDefault("explorer.base_url", "https://api.scan.pulsechain.com/api/v2")
	viper.SetDefault("explorer.request_timeout", "15s")
	viper.SetDefault("explorer.transfer_page_limit", 1000)

	// Analysis defaults
	viper.SetDefault("analysis.default_top_holders", 50)
	viper.SetDefault("analysis.default_days_back", 30)
	viper.SetDefault("analysis.fetch_batch_size", 5)

	defaults := service.DefaultThresholds()
	viper.SetDefault("analysis.thresholds.round_amount_share", defaults.RoundAmountShare)
	viper.SetDefault("analysis.thresholds.round_amount_min_length", defaults.RoundAmountMinLength)
	viper.SetDefault("analysis.thresholds.back_and_forth_window", defaults.BackAndForthWindow.String())
	viper.SetDefault("analysis.thresholds.similar_amount_share", defaults.SimilarAmountShare)
	viper.SetDefault("analysis.thresholds.similar_amount_tolerance", defaults.SimilarAmountTolerance)
	viper.SetDefault("analysis.thresholds.pair_trade_count", defaults.PairTradeCount)
	viper.SetDefault("analysis.thresholds.hub_counterparty_share", defaults.HubCounterpartyShare)
	viper.SetDefault("analysis.thresholds.burst_edge_count", defaults.BurstEdgeCount)
	viper.SetDefault("analysis.thresholds.pattern_weight", defaults.PatternWeight)
	viper.SetDefault("analysis.thresholds.indicator_weight", defaults.IndicatorWeight)
	viper.SetDefault("analysis.thresholds.high_volume_bonus", defaults.HighVolumeBonus)
	viper.SetDefault("analysis.thresholds.high_volume_threshold", defaults.HighVolumeThreshold)
	viper.SetDefault("analysis.thresholds.large_cluster_bonus", defaults.LargeClusterBonus)
	viper.SetDefault("analysis.thresholds.large_cluster_size", defaults.LargeClusterSize)
	viper.SetDefault("analysis.thresholds.high_risk_score", defaults.HighRiskScore)

	// NATS defaults
	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.subject", "cluster-analysis.completed")
	viper.SetDefault("nats.connect_timeout", "10s")
	viper.SetDefault("nats.reconnect_attempts", 5)
	viper.SetDefault("nats.reconnect_delay", "2s")
	viper.SetDefault("nats.enabled", false)

	// Neo4J defaults
	viper.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	viper.SetDefault("neo4j.username", "neo4j")
	viper.SetDefault("neo4j.password", "password")
	viper.SetDefault("neo4j.database", "neo4j")
	viper.SetDefault("neo4j.connect_timeout", "10s")
	viper.SetDefault("neo4j.max_connection_pool_size", 50)
	viper.SetDefault("neo4j.connection_acquisition_timeout", "60s")
	viper.SetDefault("neo4j.enabled", false)

	// Bind env for explorer and NATS URLs
	viper.BindEnv("explorer.base_url", "EXPLORER_BASE_URL")
	viper.BindEnv("nats.url", "NATS_URL")
}
