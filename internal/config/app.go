package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	// Enabled turns on snapshot persistence; the service runs fully
	// in-memory without it.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type RateAPI struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Rate struct {
	// Initial confirmed selection before the first fetch or any
	// persisted snapshot is applied.
	CurrentCurrency string `mapstructure:"current_currency"`
	NativeCurrency  string `mapstructure:"native_currency"`

	IncludeUSDRate         bool `mapstructure:"include_usd_rate"`
	RefreshIntervalSeconds int  `mapstructure:"refresh_interval_seconds"`

	// QuoteCacheTTLSeconds > 0 enables the short-TTL quote cache in
	// front of the rate source.
	QuoteCacheTTLSeconds int   `mapstructure:"quote_cache_ttl_seconds"`
	QuoteCacheMaxItems   int64 `mapstructure:"quote_cache_max_items"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	RateAPI    RateAPI    `mapstructure:"rate_api"`
	Rate       Rate       `mapstructure:"rate"`
	Logging    Logging    `mapstructure:"logging"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("rate_api.timeout_seconds", 10)
	viper.SetDefault("rate.current_currency", "usd")
	viper.SetDefault("rate.native_currency", "eth")
	viper.SetDefault("rate.refresh_interval_seconds", 180)
	viper.SetDefault("rate.quote_cache_max_items", 128)
	viper.SetDefault("logging.level", "info")

	// db server env vars
	_ = viper.BindEnv("db_server.enabled", "DB_ENABLED")
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// rate api env vars
	_ = viper.BindEnv("rate_api.base_url", "RATE_API_BASE_URL")
	_ = viper.BindEnv("rate_api.timeout_seconds", "RATE_API_TIMEOUT_SECONDS")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
