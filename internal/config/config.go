package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Mail     MailConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Cron     CronConfig
	Seed     SeedConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// OTPConfig holds one-time code policy
type OTPConfig struct {
	TTL            time.Duration
	ResendCooldown time.Duration
	Pepper         string
}

// MailConfig selects and configures the outbound notifier
type MailConfig struct {
	Provider  string
	APIKey    string
	FromName  string
	FromEmail string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	Timeout   time.Duration
}

// RedisConfig holds Redis configuration. Empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration. Empty URL disables event publishing.
type NATSConfig struct {
	URL string
}

// CronConfig holds scheduled job configuration
type CronConfig struct {
	PendingDigestSchedule string
	PendingAfter          time.Duration
}

// SeedConfig holds the dev-only lender account seeded at startup
type SeedConfig struct {
	LenderEmail string
	LenderName  string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}
	jwtCfg, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}
	otp, err := loadOTPConfig(appMode)
	if err != nil {
		return nil, err
	}
	mail, err := loadMailConfig(appMode)
	if err != nil {
		return nil, err
	}
	cronCfg, err := loadCronConfig()
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: db,
		JWT:      jwtCfg,
		OTP:      otp,
		Mail:     mail,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{URL: getEnv("NATS_URL", "")},
		Cron: cronCfg,
		Seed: SeedConfig{
			LenderEmail: getEnv("SEED_LENDER_EMAIL", ""),
			LenderName:  getEnv("SEED_LENDER_NAME", "Eazicred Lending"),
		},
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := "3306"
	switch driver {
	case "mysql":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'postgres')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "eazicred"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) (JWTConfig, error) {
	secret := getEnv(modePrefix(mode)+"JWT_SECRET", "")
	if secret == "" {
		if mode == "prod" {
			return JWTConfig{}, fmt.Errorf("PROD_JWT_SECRET is required in prod mode")
		}
		secret = "default_secret"
	}

	expiresIn, err := getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	if err != nil {
		return JWTConfig{}, err
	}

	return JWTConfig{Secret: secret, ExpiresIn: expiresIn}, nil
}

// loadOTPConfig loads one-time code policy
func loadOTPConfig(mode string) (OTPConfig, error) {
	ttl, err := getDuration("OTP_TTL", 15*time.Minute)
	if err != nil {
		return OTPConfig{}, err
	}
	cooldown, err := getDuration("OTP_RESEND_COOLDOWN", time.Minute)
	if err != nil {
		return OTPConfig{}, err
	}

	return OTPConfig{
		TTL:            ttl,
		ResendCooldown: cooldown,
		Pepper:         getEnv(modePrefix(mode)+"OTP_PEPPER", "default_pepper"),
	}, nil
}

// loadMailConfig loads notifier config
func loadMailConfig(mode string) (MailConfig, error) {
	defaultProvider := "log"
	if mode == "prod" {
		defaultProvider = "mailersend"
	}
	provider := strings.ToLower(getEnv("MAIL_PROVIDER", defaultProvider))
	switch provider {
	case "mailersend", "smtp", "log":
	default:
		return MailConfig{}, fmt.Errorf("invalid MAIL_PROVIDER: '%s' (must be 'mailersend', 'smtp' or 'log')", provider)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return MailConfig{}, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	timeout, err := getDuration("MAIL_TIMEOUT", 10*time.Second)
	if err != nil {
		return MailConfig{}, err
	}

	return MailConfig{
		Provider:  provider,
		APIKey:    getEnv("MAILERSEND_API_KEY", ""),
		FromName:  getEnv("MAIL_FROM_NAME", "Eazicred"),
		FromEmail: getEnv("MAIL_FROM_EMAIL", "no-reply@eazicred.com"),
		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  smtpPort,
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		Timeout:   timeout,
	}, nil
}

// loadCronConfig loads scheduled job config
func loadCronConfig() (CronConfig, error) {
	after, err := getDuration("PENDING_LOAN_AFTER", 72*time.Hour)
	if err != nil {
		return CronConfig{}, err
	}
	return CronConfig{
		PendingDigestSchedule: getEnv("PENDING_LOAN_DIGEST_SCHEDULE", "30 8 * * *"),
		PendingAfter:          after,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration from the environment
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://eazicred.com"
	}
	return origins
}
