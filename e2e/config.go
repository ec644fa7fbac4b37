package e2e

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for E2E tests
type Config struct {
	ConfigPath string
	Notebook   string
	Timeout    time.Duration
	Cleanup    bool
}

// LoadConfig loads E2E test configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		ConfigPath: getEnvOrDefault("ONENOTE_E2E_CONFIG", "../config.json"),
		Notebook:   getEnvOrDefault("ONENOTE_E2E_NOTEBOOK", "E2E-Tests"),
		Timeout:    getTimeoutFromEnv("ONENOTE_E2E_TIMEOUT", 300*time.Second),
		Cleanup:    getBoolFromEnv("ONENOTE_E2E_CLEANUP", true),
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getTimeoutFromEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getBoolFromEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return result
}
