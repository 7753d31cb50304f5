package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Checker    CheckerConfig    `mapstructure:"checker"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Retry      RetryConfig      `mapstructure:"retry"`
	Axelar     AxelarConfig     `mapstructure:"axelar"`
	Axelarscan AxelarscanConfig `mapstructure:"axelarscan"`
	Subgraph   SubgraphConfig   `mapstructure:"subgraph"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
	Output   string `mapstructure:"output"`
}

// CheckerConfig holds settings for chain RPC health probes.
type CheckerConfig struct {
	CheckTimeout  time.Duration `mapstructure:"check_timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	MaxWorkers    int           `mapstructure:"max_workers"`
}

// CacheConfig holds settings for the query cache.
type CacheConfig struct {
	Freshness       time.Duration `mapstructure:"freshness"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RetryConfig controls how failed upstream loads are retried.
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// AxelarConfig holds configuration for the Axelar fee endpoints.
type AxelarConfig struct {
	AssetsURL    string        `mapstructure:"assets_url"`
	LCDURL       string        `mapstructure:"lcd_url"`
	GMPURL       string        `mapstructure:"gmp_url"`
	GasLimit     uint64        `mapstructure:"gas_limit"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// AxelarscanConfig holds configuration for the transfer history API.
type AxelarscanConfig struct {
	APIURL       string        `mapstructure:"api_url"`
	ExplorerURL  string        `mapstructure:"explorer_url"`
	Window       time.Duration `mapstructure:"window"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// SubgraphConfig holds the GraphQL endpoints of the Uniswap v3 subgraphs.
type SubgraphConfig struct {
	GatewayURL string        `mapstructure:"gateway_url"`
	APIKey     string        `mapstructure:"api_key"`
	SubgraphID string        `mapstructure:"subgraph_id"`
	PolygonURL string        `mapstructure:"polygon_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WalletConfig selects the wallet provider used by the signing flows.
type WalletConfig struct {
	URL          string `mapstructure:"url"`
	PrivateKey   string `mapstructure:"private_key"`
	DefaultChain int64  `mapstructure:"default_chain"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "swapbridge")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", "20s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("checker.check_timeout", "5s")
	v.SetDefault("checker.cache_ttl", "5m")
	v.SetDefault("checker.check_interval", "10m")
	v.SetDefault("checker.max_workers", 4)
	v.SetDefault("cache.freshness", "60s")
	v.SetDefault("cache.cleanup_interval", "5m")
	v.SetDefault("retry.max_attempts", 2)
	v.SetDefault("retry.initial_interval", "250ms")
	v.SetDefault("retry.max_interval", "2s")
	v.SetDefault("axelar.assets_url", "https://api.axelarscan.io/api/getAssets")
	v.SetDefault("axelar.lcd_url", "https://axelar-lcd.publicnode.com")
	v.SetDefault("axelar.gmp_url", "https://api.gmp.axelarscan.io")
	v.SetDefault("axelar.gas_limit", 300000)
	v.SetDefault("axelar.timeout", "10s")
	v.SetDefault("axelar.rate_limit_rps", 5)
	v.SetDefault("axelar.rate_burst", 5)
	v.SetDefault("axelarscan.api_url", "https://api.axelarscan.io")
	v.SetDefault("axelarscan.explorer_url", "https://axelarscan.io")
	v.SetDefault("axelarscan.window", "720h")
	v.SetDefault("axelarscan.timeout", "10s")
	v.SetDefault("axelarscan.rate_limit_rps", 5)
	v.SetDefault("axelarscan.rate_burst", 5)
	v.SetDefault("subgraph.gateway_url", "https://gateway.thegraph.com/api")
	v.SetDefault("subgraph.api_key", "")
	v.SetDefault("subgraph.subgraph_id", "5zvR82QoaXYFyDEKLZ9t6v9adgnptxYpKpSbxtgVENFV")
	v.SetDefault("subgraph.polygon_url", "https://api.thegraph.com/subgraphs/name/ianlapham/uniswap-v3-polygon")
	v.SetDefault("subgraph.timeout", "10s")
	v.SetDefault("wallet.url", "")
	v.SetDefault("wallet.private_key", "")
	v.SetDefault("wallet.default_chain", 1)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
		}
	}

	v.SetEnvPrefix("SWAPBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("wallet.private_key", "SWAPBRIDGE_WALLET_KEY", "SWAPBRIDGE_WALLET_PRIVATE_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c CheckerConfig) GetTimeout() time.Duration {
	return c.CheckTimeout
}

func (c CheckerConfig) GetCacheTTL() time.Duration {
	return c.CacheTTL
}

func (c CheckerConfig) GetCheckInterval() time.Duration {
	return c.CheckInterval
}

func (c CacheConfig) GetFreshness() time.Duration {
	return c.Freshness
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

// Endpoint returns the GraphQL URL serving the given network. ok is false
// when no subgraph indexes the network.
func (c SubgraphConfig) Endpoint(network string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "ethereum":
		return strings.TrimRight(c.GatewayURL, "/") + "/" + c.APIKey + "/subgraphs/id/" + c.SubgraphID, true
	case "polygon":
		return c.PolygonURL, c.PolygonURL != ""
	default:
		return "", false
	}
}
