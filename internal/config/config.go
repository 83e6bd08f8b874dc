package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" default:"development"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogFile  string `envconfig:"LOG_FILE" default:"opledit.log"`

	// Remote panel settings
	Port       string `envconfig:"PORT" default:"8080"`
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`
	WebRoot    string `envconfig:"WEB_ROOT"`

	// Encoder settings
	MIDIPort       string `envconfig:"MIDI_PORT"`
	EncoderCC      uint8  `envconfig:"ENCODER_CC" default:"16"`
	EncoderChannel int    `envconfig:"ENCODER_CHANNEL" default:"-1"`
	EncoderMode    string `envconfig:"ENCODER_MODE" default:"twos-complement"`

	// Display settings
	LCDCols   int    `envconfig:"LCD_COLS" default:"16"`
	LCDRows   int    `envconfig:"LCD_ROWS" default:"2"`
	LCDLayout string `envconfig:"LCD_LAYOUT" default:"detail"`
}

// LoadConfig loads configuration from .env file and environment variables.
// Variables are read with the OPLEDIT_ prefix, e.g. OPLEDIT_MIDI_PORT.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("opledit", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"
}
