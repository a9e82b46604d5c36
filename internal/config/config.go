package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Plex
	PlexURL   string
	PlexToken string

	// Path mapping between the server's view of the filesystem and ours.
	// Either both prefixes are set or neither is.
	ContainerMediaPrefix string
	HostMediaPrefix      string

	// HTTP
	HTTPTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("LOG_LEVEL", "info")

	config := &Config{
		PlexURL:   strings.TrimRight(viper.GetString("PLEX_URL"), "/"),
		PlexToken: viper.GetString("PLEX_TOKEN"),

		ContainerMediaPrefix: viper.GetString("CONTAINER_MEDIA_PREFIX"),
		HostMediaPrefix:      viper.GetString("HOST_MEDIA_PREFIX"),

		HTTPTimeout: time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.PlexURL == "" {
		return nil, fmt.Errorf("PLEX_URL is required")
	}
	if config.PlexToken == "" {
		return nil, fmt.Errorf("PLEX_TOKEN is required")
	}

	// One prefix without the other cannot describe a mapping.
	if (config.ContainerMediaPrefix == "") != (config.HostMediaPrefix == "") {
		return nil, fmt.Errorf("CONTAINER_MEDIA_PREFIX and HOST_MEDIA_PREFIX must be set together")
	}

	return config, nil
}
