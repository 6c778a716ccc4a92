package config

import (
	"errors"
	"fmt"
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
	Env       string
	Port      int
	APIPrefix string
	// Timezone is the IANA zone used for "today" and calendar rendering.
	Timezone string

	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Rollbar    RollbarConfig
	Vouchers   VouchersConfig
	Payments   PaymentsConfig
	Attendance AttendanceConfig
	Notify     NotifyConfig
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
	AutoMigrate  bool
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles the catalog read-through cache.
type CacheConfig struct {
	Enabled    bool
	CatalogTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RollbarConfig enables server error reporting when a token is present.
type RollbarConfig struct {
	Token       string
	CodeVersion string
}

// VouchersConfig controls storage and validation of payment vouchers.
type VouchersConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	SignedURLSecret  string
	SignedURLTTL     time.Duration
}

// PaymentsConfig tunes payment plan creation.
type PaymentsConfig struct {
	InstallmentDueDays int
}

// AttendanceConfig tunes absence alerting.
type AttendanceConfig struct {
	AbsenceAlertThreshold int
}

// NotifyConfig configures guardian notification delivery.
type NotifyConfig struct {
	Workers        int
	Retries        int
	SendgridAPIKey string
	FromName       string
	FromAddress    string
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
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
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
	cfg.Timezone = v.GetString("APP_TIMEZONE")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_CACHE"),
		CatalogTTL: parseDuration(v.GetString("CATALOG_CACHE_TTL"), 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Rollbar = RollbarConfig{
		Token:       v.GetString("ROLLBAR_TOKEN"),
		CodeVersion: v.GetString("BUILD_VERSION"),
	}

	maxVoucherSize := v.GetInt64("VOUCHERS_MAX_FILE_SIZE")
	if maxVoucherSize <= 0 {
		maxVoucherSize = 5 * 1024 * 1024
	}
	cfg.Vouchers = VouchersConfig{
		StorageDir:       v.GetString("VOUCHERS_STORAGE_DIR"),
		MaxFileSizeBytes: maxVoucherSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("VOUCHERS_ALLOWED_MIME_TYPES")),
		SignedURLSecret:  v.GetString("VOUCHERS_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("VOUCHERS_SIGNED_URL_TTL"), 15*time.Minute),
	}

	dueDays := v.GetInt("INSTALLMENT_DUE_DAYS")
	if dueDays <= 0 {
		dueDays = 7
	}
	cfg.Payments = PaymentsConfig{InstallmentDueDays: dueDays}

	threshold := v.GetInt("ABSENCE_ALERT_THRESHOLD")
	if threshold <= 0 {
		threshold = 3
	}
	cfg.Attendance = AttendanceConfig{AbsenceAlertThreshold: threshold}

	cfg.Notify = NotifyConfig{
		Workers:        v.GetInt("NOTIFY_WORKERS"),
		Retries:        v.GetInt("NOTIFY_RETRIES"),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		FromName:       v.GetString("MAIL_FROM_NAME"),
		FromAddress:    v.GetString("MAIL_FROM_ADDRESS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("APP_TIMEZONE", "America/Lima")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "academia")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "academia-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("BUILD_VERSION", "dev")

	v.SetDefault("VOUCHERS_STORAGE_DIR", "./uploads/vouchers")
	v.SetDefault("VOUCHERS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("VOUCHERS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,application/pdf")
	v.SetDefault("VOUCHERS_SIGNED_URL_SECRET", "dev_vouchers_secret")
	v.SetDefault("VOUCHERS_SIGNED_URL_TTL", "15m")

	v.SetDefault("INSTALLMENT_DUE_DAYS", 7)
	v.SetDefault("ABSENCE_ALERT_THRESHOLD", 3)

	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM_NAME", "Academia")
	v.SetDefault("MAIL_FROM_ADDRESS", "no-reply@academia.local")
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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
