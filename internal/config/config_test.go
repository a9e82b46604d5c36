package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadRequiresPlexCredentials(t *testing.T) {
	viper.Reset()
	t.Setenv("PLEX_URL", "")
	t.Setenv("PLEX_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when PLEX_URL is missing")
	}

	viper.Reset()
	t.Setenv("PLEX_URL", "http://plex:32400")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when PLEX_TOKEN is missing")
	}
}

func TestLoadPrefixesMustBePaired(t *testing.T) {
	viper.Reset()
	t.Setenv("PLEX_URL", "http://plex:32400")
	t.Setenv("PLEX_TOKEN", "tok")
	t.Setenv("CONTAINER_MEDIA_PREFIX", "/data/media")
	t.Setenv("HOST_MEDIA_PREFIX", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for an unpaired prefix")
	}
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PLEX_URL", "http://plex:32400/")
	t.Setenv("PLEX_TOKEN", "tok")
	t.Setenv("CONTAINER_MEDIA_PREFIX", "")
	t.Setenv("HOST_MEDIA_PREFIX", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PlexURL != "http://plex:32400" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.PlexURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level should be info, got %q", cfg.LogLevel)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("default timeout should be 30s, got %v", cfg.HTTPTimeout)
	}
}
