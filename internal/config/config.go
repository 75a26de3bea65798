package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	HAFAS    HAFASConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Refresh  RefreshConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// HAFASConfig - параметры upstream HAFAS REST провайдера.
type HAFASConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	StationCacheTTL time.Duration
	BoardCacheTTL   time.Duration
}

// RefreshConfig - параметры фонового авто-обновления табло.
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
}

type LogConfig struct {
	Level string
}

// MinRefreshInterval - нижняя граница интервала авто-обновления; меньшие
// значения поднимаются до неё, чтобы не заваливать upstream запросами.
const MinRefreshInterval = 30 * time.Second

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env опционален: в контейнере всё приходит из окружения
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		HAFAS: HAFASConfig{
			BaseURL:        viper.GetString("HAFAS_BASE_URL"),
			RequestTimeout: time.Duration(viper.GetInt("HAFAS_REQUEST_TIMEOUT")) * time.Second,
			UserAgent:      viper.GetString("HAFAS_USER_AGENT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			StationCacheTTL: time.Duration(viper.GetInt("STATION_CACHE_TTL")) * time.Second,
			BoardCacheTTL:   time.Duration(viper.GetInt("BOARD_CACHE_TTL")) * time.Second,
		},
		Refresh: RefreshConfig{
			Enabled:  viper.GetBool("REFRESH_ENABLED"),
			Interval: time.Duration(viper.GetInt("REFRESH_INTERVAL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.HAFAS.BaseURL == "" {
		cfg.HAFAS.BaseURL = "https://v5.oebb.transport.rest"
	}
	if cfg.HAFAS.RequestTimeout == 0 {
		cfg.HAFAS.RequestTimeout = 10 * time.Second
	}
	if cfg.HAFAS.UserAgent == "" {
		cfg.HAFAS.UserAgent = "departures-microservice"
	}
	if cfg.Cache.StationCacheTTL == 0 {
		cfg.Cache.StationCacheTTL = 6 * time.Hour
	}
	if cfg.Cache.BoardCacheTTL == 0 {
		cfg.Cache.BoardCacheTTL = 30 * time.Second
	}
	if cfg.Refresh.Interval < MinRefreshInterval {
		cfg.Refresh.Interval = MinRefreshInterval
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
