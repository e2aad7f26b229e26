package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Log           LogConfig
	Admin         AdminConfig
	Packages      PackagesConfig
	Notifications NotificationsConfig
	Receipts      ReceiptsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig configures the shared-password gate in front of the admin panels.
type AdminConfig struct {
	GateEnabled   bool
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
}

// PackagesConfig tunes package tracking behaviour.
type PackagesConfig struct {
	StrictCheckout  bool
	SummaryCacheTTL time.Duration
	ExportMaxRows   int
}

// NotificationsConfig controls the asynchronous check-in notification queue.
type NotificationsConfig struct {
	Enabled bool
	Workers int
	Retries int
}

// ReceiptsConfig controls receipt storage & signed download links.
type ReceiptsConfig struct {
	StorageDir       string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
	MaxFileSizeBytes int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Admin = AdminConfig{
		GateEnabled:   v.GetBool("ADMIN_GATE_ENABLED"),
		Password:      v.GetString("ADMIN_PASSWORD"),
		PasswordHash:  v.GetString("ADMIN_PASSWORD_HASH"),
		SessionSecret: v.GetString("ADMIN_SESSION_SECRET"),
		SessionTTL:    parseDuration(v.GetString("ADMIN_SESSION_TTL"), 8*time.Hour),
	}

	exportRows := v.GetInt("PACKAGES_EXPORT_MAX_ROWS")
	if exportRows <= 0 {
		exportRows = 1000
	}
	cfg.Packages = PackagesConfig{
		StrictCheckout:  v.GetBool("PACKAGES_STRICT_CHECKOUT"),
		SummaryCacheTTL: parseDuration(v.GetString("PACKAGES_SUMMARY_CACHE_TTL"), time.Minute),
		ExportMaxRows:   exportRows,
	}

	cfg.Notifications = NotificationsConfig{
		Enabled: v.GetBool("NOTIFICATIONS_ENABLED"),
		Workers: v.GetInt("NOTIFICATIONS_WORKERS"),
		Retries: v.GetInt("NOTIFICATIONS_RETRIES"),
	}

	maxReceipt := v.GetInt64("RECEIPTS_MAX_FILE_SIZE")
	if maxReceipt <= 0 {
		maxReceipt = 10 * 1024 * 1024
	}
	cfg.Receipts = ReceiptsConfig{
		StorageDir:       v.GetString("RECEIPTS_STORAGE_DIR"),
		SignedURLSecret:  v.GetString("RECEIPTS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("RECEIPTS_SIGNED_URL_TTL"), 15*time.Minute),
		MaxFileSizeBytes: maxReceipt,
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mailroom")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADMIN_GATE_ENABLED", true)
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_SESSION_SECRET", "dev_admin_secret")
	v.SetDefault("ADMIN_SESSION_TTL", "8h")

	v.SetDefault("PACKAGES_STRICT_CHECKOUT", false)
	v.SetDefault("PACKAGES_SUMMARY_CACHE_TTL", "1m")
	v.SetDefault("PACKAGES_EXPORT_MAX_ROWS", 1000)

	v.SetDefault("NOTIFICATIONS_ENABLED", true)
	v.SetDefault("NOTIFICATIONS_WORKERS", 1)
	v.SetDefault("NOTIFICATIONS_RETRIES", 3)

	v.SetDefault("RECEIPTS_STORAGE_DIR", "./receipts")
	v.SetDefault("RECEIPTS_SIGNED_URL_SECRET", "dev_receipts_secret")
	v.SetDefault("RECEIPTS_SIGNED_URL_TTL", "15m")
	v.SetDefault("RECEIPTS_MAX_FILE_SIZE", 10*1024*1024)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
