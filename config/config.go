package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	Port         string
	UploadDir    string // Audio payloads, served under /uploads/
	CoverDir     string // Cover images, served under /covers/
	MetadataFile string // JSON mirror of the track store
	WebDir       string // Static web UI root
	MaxUploadMB  int64

	LogLevel   string
	LogFile    string
	LogMaxSize int // megabytes per rotated log file

	// Optional object storage mirror, disabled when MinioEndpoint is empty
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() does not override variables that are already set.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without reading .env.
func FromEnv() *Config {
	maxUpload := getEnvInt("MAX_UPLOAD_MB", 100)
	if maxUpload <= 0 {
		maxUpload = 100
	}

	return &Config{
		Port:         getEnv("PORT", "5000"),
		UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
		CoverDir:     getEnv("COVER_DIR", "covers"),
		MetadataFile: getEnv("METADATA_FILE", "metadata.json"),
		WebDir:       getEnv("WEB_DIR", "public"),
		MaxUploadMB:  int64(maxUpload),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    os.Getenv("LOG_FILE"),
		LogMaxSize: getEnvInt("LOG_MAX_SIZE_MB", 50),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"), // no hardcoded default for secrets
		MinioBucket:    getEnv("MINIO_BUCKET", "trackdrop"),
		MinioRegion:    os.Getenv("MINIO_REGION"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
	}
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// MaxUploadBytes is the multipart size ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// MirrorEnabled reports whether uploads should be copied to object storage.
func (c *Config) MirrorEnabled() bool {
	return c.MinioEndpoint != ""
}
