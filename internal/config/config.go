package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	MemberStore MemberStoreConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	JWT         JWTConfig
	Schedule    ScheduleConfig
	Admin       AdminConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Version        string
	AllowedOrigins []string
	OrgTreePath    string
	UsersFilePath  string
}

// MemberStoreConfig selects where the member collection lives.
type MemberStoreConfig struct {
	Driver     string // json, memory, sqlite, postgres
	FilePath   string
	SQLiteDSN  string
	SeedOnBoot bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	Type     string // local, s3
	BasePath string
	BaseURL  string
	S3Bucket string
	S3Region string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type ScheduleConfig struct {
	Timezone     string
	LockedDay    time.Weekday
	SessionTTL   time.Duration
	SweepEvery   time.Duration
	DefaultColor string
}

// AdminConfig seeds the first administrator when the user store is empty.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		OrgTreePath:    getEnv("ORG_TREE_PATH", ""),
		UsersFilePath:  getEnv("USERS_FILE_PATH", "data/users.json"),
	}

	// Member store configuration
	config.MemberStore = MemberStoreConfig{
		Driver:     strings.ToLower(getEnv("MEMBER_STORE_DRIVER", "json")),
		FilePath:   getEnv("MEMBER_FILE_PATH", "data/members.json"),
		SQLiteDSN:  getEnv("MEMBER_SQLITE_DSN", "file:data/members.db?_pragma=busy_timeout(5000)"),
		SeedOnBoot: getEnvBool("MEMBER_SEED_ON_BOOT", false),
	}

	// Database configuration (postgres driver only)
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr_portal"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// File storage configuration
	config.Storage = StorageConfig{
		Type:     strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		BasePath: getEnv("STORAGE_BASE_PATH", "uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Bucket: getEnv("STORAGE_S3_BUCKET", ""),
		S3Region: getEnv("STORAGE_S3_REGION", ""),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Schedule editor configuration
	lockedDay, err := parseWeekday(getEnv("SCHEDULE_LOCKED_DAY", "sunday"))
	if err != nil {
		return nil, err
	}
	sessionTTL, err := time.ParseDuration(getEnv("SCHEDULE_SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_SESSION_TTL: %w", err)
	}
	sweepEvery, err := time.ParseDuration(getEnv("SCHEDULE_SWEEP_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_SWEEP_INTERVAL: %w", err)
	}

	config.Schedule = ScheduleConfig{
		Timezone:     getEnv("SCHEDULE_TIMEZONE", "Asia/Seoul"),
		LockedDay:    lockedDay,
		SessionTTL:   sessionTTL,
		SweepEvery:   sweepEvery,
		DefaultColor: getEnv("SCHEDULE_DEFAULT_COLOR", "#3788d8"),
	}

	config.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		Password: getEnv("ADMIN_PASSWORD", ""),
		Name:     getEnv("ADMIN_NAME", "관리자"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.MemberStore.Driver {
	case "json", "memory":
	case "sqlite":
		if c.MemberStore.SQLiteDSN == "" {
			return fmt.Errorf("MEMBER_SQLITE_DSN is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported MEMBER_STORE_DRIVER: %s", c.MemberStore.Driver)
	}

	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" || c.Storage.S3Region == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET and STORAGE_S3_REGION are required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	if c.Schedule.SessionTTL <= 0 {
		return fmt.Errorf("SCHEDULE_SESSION_TTL must be positive")
	}
	if c.Schedule.SweepEvery <= 0 {
		return fmt.Errorf("SCHEDULE_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location resolves the schedule timezone, falling back to a fixed KST offset when the
// tz database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		slog.Warn("Unknown schedule timezone, using fixed KST", "timezone", c.Schedule.Timezone, "error", err)
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(value string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return time.Sunday, fmt.Errorf("invalid SCHEDULE_LOCKED_DAY: %s", value)
	}
	return day, nil
}
