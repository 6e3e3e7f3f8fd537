// Package config loads application configuration from defaults and
// environment variables using koanf. Config is immutable after Load and safe
// for concurrent reads.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before mapping them onto
// config keys, e.g. RECOMMENDER_SERVER_PORT -> server.port.
const envPrefix = "RECOMMENDER_"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Plex      PlexConfig      `koanf:"plex"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port string `koanf:"port"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// TMDBConfig configures the TMDB API client used for trending fallbacks and
// content search.
type TMDBConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

// PlexConfig configures the optional Plex watch-history import.
type PlexConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Token   string `koanf:"token"`

	// ImplicitRating is the rating value recorded for watched-but-unrated
	// Plex items. It must sit at or above the like threshold to contribute
	// positive signal.
	ImplicitRating int `koanf:"implicit_rating"`
}

// RecommendConfig holds the recommendation tunables. These were process-wide
// constants historically; they are plain config now so tests can vary them.
type RecommendConfig struct {
	// LikeThreshold is the minimum rating value that counts as a liked
	// interaction.
	LikeThreshold int `koanf:"like_threshold"`

	// OnlySimilarTaste drops items with an exact-zero similarity score from
	// personalized results instead of ranking them last.
	OnlySimilarTaste bool `koanf:"only_similar_taste"`

	// NormalizeOnPopularity divides co-occurrence counts by joint popularity.
	NormalizeOnPopularity bool `koanf:"normalize_on_popularity"`

	// DefaultLimit is the result size used when a request does not specify one.
	DefaultLimit int `koanf:"default_limit"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Path: "recommender.db"},
		TMDB: TMDBConfig{
			BaseURL: "https://api.themoviedb.org/3",
		},
		Plex: PlexConfig{
			Enabled:        false,
			ImplicitRating: 8,
		},
		Recommend: RecommendConfig{
			LikeThreshold:         7,
			OnlySimilarTaste:      true,
			NormalizeOnPopularity: true,
			DefaultLimit:          20,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults overridden by RECOMMENDER_*
// environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// The first underscore separates the section from the key, so
	// RECOMMENDER_RECOMMEND_LIKE_THRESHOLD maps to recommend.like_threshold.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		parts := strings.SplitN(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", 2)
		return strings.Join(parts, ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Recommend.LikeThreshold < 1 || c.Recommend.LikeThreshold > 10 {
		return fmt.Errorf("recommend.like_threshold must be between 1 and 10, got %d", c.Recommend.LikeThreshold)
	}
	if c.Recommend.DefaultLimit < 1 {
		return fmt.Errorf("recommend.default_limit must be positive, got %d", c.Recommend.DefaultLimit)
	}
	if c.Plex.Enabled {
		if c.Plex.URL == "" || c.Plex.Token == "" {
			return fmt.Errorf("plex.url and plex.token are required when plex import is enabled")
		}
		if c.Plex.ImplicitRating < 1 || c.Plex.ImplicitRating > 10 {
			return fmt.Errorf("plex.implicit_rating must be between 1 and 10, got %d", c.Plex.ImplicitRating)
		}
	}
	return nil
}
