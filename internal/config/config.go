// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Storage drivers understood by StorageDriver.
const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// Object key schemes understood by KeyScheme.
const (
	KeySchemeTimestamp = "timestamp"
	KeySchemeRandom    = "random"
)

// DefaultMaxUploadBytes is the upload cap applied when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes = 10 << 20

// Config holds all runtime configuration for the service. It is built once
// by Load and passed by pointer to the components that need it.
type Config struct {
	Port     string `validate:"required,numeric"`
	AppEnv   string
	LogLevel string `validate:"omitempty,oneof=debug info warn warning error"`

	// Object storage (AWS S3, or any S3-compatible endpoint via the minio driver)
	StorageDriver    string `validate:"oneof=s3 minio"`
	StorageAccessKey string `validate:"required"`
	StorageSecretKey string `validate:"required"`
	StorageRegion    string `validate:"required_if=StorageDriver s3"`
	StorageBucket    string `validate:"required"`
	StorageEndpoint  string `validate:"required_if=StorageDriver minio"`
	StorageUseSSL    bool
	PublicBaseURL    string `validate:"omitempty,url"` // overrides the derived object URL base
	PublicRead       bool

	// Upload policy
	MaxUploadBytes   int64    `validate:"gt=0,lte=5368709120"` // one S3 PUT
	AllowedMIMETypes []string `validate:"min=1,dive,required"`
	KeyScheme        string   `validate:"oneof=timestamp random"`
	SniffContentType bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables.
// Missing values are not fatal here; see Validate.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, reading from environment")
	}

	return &Config{
		Port:     getEnv("PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", DriverS3)),
		StorageAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		StorageSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		StorageRegion:    getEnv("AWS_REGION", ""),
		StorageBucket:    getEnv("AWS_BUCKET_NAME", ""),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageUseSSL:    getBool("STORAGE_USE_SSL", true),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", ""),
		PublicRead:       getBool("PUBLIC_READ", true),

		MaxUploadBytes:   getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		AllowedMIMETypes: getList("ALLOWED_MIME_TYPES", []string{"image/jpeg", "image/png"}),
		KeyScheme:        strings.ToLower(getEnv("KEY_SCHEME", KeySchemeTimestamp)),
		SniffContentType: getBool("SNIFF_CONTENT_TYPE", false),

		ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 60*time.Second),
		WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Validate reports every problem with the configuration as a single error.
// The caller decides whether a problem is fatal.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getList splits a comma-separated variable, dropping empty items.
func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
