package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config конфигурация приложения
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig конфигурация сервера
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig конфигурация базы данных (postgresql)
type DatabaseConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	ConnectRetries int           `mapstructure:"connect_retries"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	Migrate        bool          `mapstructure:"migrate"`
}

// StorageConfig выбор хранилища пользователей
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// LogConfig конфигурация логгера
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig конфигурация prometheus метрик
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Configuration priority (highest to lowest):
// 1. Environment variables with APP_ prefix (APP_DATABASE_HOST, APP_SERVER_PORT, etc.)
// 2. Bound environment variables (POSTGRES_HOST, SERVER_PORT, STORAGE_DRIVER, etc.)
// 3. .env file in root directory
// 4. Default values (hardcoded in setDefaults)

func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads the optional .env file from dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading .env file: %w", err)
		}
	}

	// Map environment variables to config keys.
	// APP_* is listed first so it wins over the short names.
	bindEnv(v, "database.host", "POSTGRES_HOST")
	bindEnv(v, "database.port", "POSTGRES_PORT")
	bindEnv(v, "database.user", "POSTGRES_USER")
	bindEnv(v, "database.password", "POSTGRES_PASSWORD")
	bindEnv(v, "database.dbname", "POSTGRES_DB")
	bindEnv(v, "database.sslmode", "POSTGRES_SSLMODE")
	bindEnv(v, "database.connect_retries", "POSTGRES_CONNECT_RETRIES")
	bindEnv(v, "database.retry_interval", "POSTGRES_RETRY_INTERVAL")
	bindEnv(v, "database.migrate", "POSTGRES_MIGRATE")

	bindEnv(v, "server.port", "SERVER_PORT")
	bindEnv(v, "server.host", "SERVER_HOST")
	bindEnv(v, "server.read_timeout", "SERVER_READ_TIMEOUT")
	bindEnv(v, "server.write_timeout", "SERVER_WRITE_TIMEOUT")
	bindEnv(v, "server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	bindEnv(v, "storage.driver", "STORAGE_DRIVER")

	bindEnv(v, "log.level", "LOG_LEVEL")
	bindEnv(v, "log.format", "LOG_FORMAT")

	bindEnv(v, "metrics.enabled", "METRICS_ENABLED")
	bindEnv(v, "metrics.path", "METRICS_PATH")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnv binds APP_<KEY> and env to key. A value for env found in the
// .env file replaces the default.
func bindEnv(v *viper.Viper, key, env string) {
	if fileKey := strings.ToLower(env); v.InConfig(fileKey) {
		v.SetDefault(key, v.Get(fileKey))
	}

	appEnv := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	// ошибка возможна только при пустом ключе
	_ = v.BindEnv(key, appEnv, env)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "users")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.connect_retries", 5)
	v.SetDefault("database.retry_interval", 2*time.Second)
	v.SetDefault("database.migrate", true)

	v.SetDefault("storage.driver", StorageDriverPostgres)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case StorageDriverPostgres:
		if err := validateDatabase(&cfg.Database); err != nil {
			return err
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s", cfg.Storage.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s", cfg.Log.Format)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics path: %q", cfg.Metrics.Path)
	}

	return nil
}

func validateDatabase(cfg *DatabaseConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", cfg.Port)
	}

	if cfg.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.ConnectRetries < 0 {
		return fmt.Errorf("invalid database connect retries: %d", cfg.ConnectRetries)
	}

	return nil
}

// GetDSN строка подключения к PostgreSQL
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetURL строка подключения в формате URL (нужна golang-migrate)
func (c *DatabaseConfig) GetURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr адрес HTTP сервера
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
