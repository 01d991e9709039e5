package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ironsheep/docscan-mcp/internal/imaging"
)

// Config holds the server settings read from the environment.
type Config struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
	LogFile   string

	// DetectMaxDim bounds the longest side of the working copy used for
	// corner detection. 0 disables downscaling.
	DetectMaxDim int `validate:"gte=0,lte=8192"`

	Interpolation string `validate:"oneof=bilinear nearest"`

	OCRLanguage    string `validate:"required"`
	TessdataPrefix string

	// MaxSessions caps the number of open refinement sessions.
	MaxSessions int `validate:"gte=1,lte=4096"`
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		DetectMaxDim:  500,
		Interpolation: "bilinear",
		OCRLanguage:   "eng",
		MaxSessions:   64,
	}
}

// LoadFromEnv reads DOCSCAN_* variables over the defaults and validates
// the result. Call godotenv first if a .env file should be honored.
func LoadFromEnv() (*Config, error) {
	def := Default()
	cfg := &Config{
		LogLevel:       strings.ToLower(getEnvOrDefault("DOCSCAN_LOG_LEVEL", def.LogLevel)),
		LogFormat:      strings.ToLower(getEnvOrDefault("DOCSCAN_LOG_FORMAT", def.LogFormat)),
		LogFile:        getEnvOrDefault("DOCSCAN_LOG_FILE", ""),
		Interpolation:  strings.ToLower(getEnvOrDefault("DOCSCAN_INTERPOLATION", def.Interpolation)),
		OCRLanguage:    getEnvOrDefault("DOCSCAN_OCR_LANGUAGE", def.OCRLanguage),
		TessdataPrefix: getEnvOrDefault("DOCSCAN_TESSDATA_PREFIX", ""),
	}

	var err error
	if cfg.DetectMaxDim, err = parseIntOrDefault("DOCSCAN_DETECT_MAX_DIM", def.DetectMaxDim); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = parseIntOrDefault("DOCSCAN_MAX_SESSIONS", def.MaxSessions); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// InterpolationMode returns the parsed Interpolation setting.
func (c *Config) InterpolationMode() imaging.Interpolation {
	mode, err := imaging.ParseInterpolation(c.Interpolation)
	if err != nil {
		return imaging.Bilinear
	}
	return mode
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, value)
	}
	return n, nil
}
