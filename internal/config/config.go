package config

import (
	"os"
	"strconv"
	"time"

	"pdf-tools-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort       string
	TempDir          string
	MaxFileSize      int64
	LogLevel         string
	CleanupDelay     time.Duration
	EnableRasterizer bool
	EnableTranscode  bool
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Many PaaS provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:       getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		TempDir:          getEnvOrDefault("TEMP_DIR", "./temp"),
		MaxFileSize:      getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		CleanupDelay:     getEnvDurationOrDefault("CLEANUP_DELAY", 5*time.Minute),
		EnableRasterizer: getEnvBoolOrDefault("RASTERIZER_ENABLED", true),
		EnableTranscode:  getEnvBoolOrDefault("IMAGE_TRANSCODING_ENABLED", true),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetTempDir returns the scratch directory root
func (c *AppConfig) GetTempDir() string {
	return c.TempDir
}

// GetMaxFileSize returns the maximum allowed size per uploaded file
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetCleanupDelay returns how long generated artifacts outlive their response
func (c *AppConfig) GetCleanupDelay() time.Duration {
	return c.CleanupDelay
}

// RasterizerEnabled reports whether PDF pages may be rendered to images
func (c *AppConfig) RasterizerEnabled() bool {
	return c.EnableRasterizer
}

// ImageTranscodingEnabled reports whether non-native raster formats are
// converted before embedding
func (c *AppConfig) ImageTranscodingEnabled() bool {
	return c.EnableTranscode
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
