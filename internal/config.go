package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/DukeRupert/pagelinks/internal/pagination"
	"github.com/DukeRupert/pagelinks/internal/service"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Storage Configuration
	StorageProvider string // "memory" or "postgres"
	ItemsTable      string // table listed by the postgres store
	SeedItems       int    // items created at startup by the memory store

	// Pagination Configuration
	PerPage        int
	Policy         pagination.Policy
	PageParam      string
	ParamBlacklist []string // nil keeps the default blacklist

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Storage defaults to an in-memory collection for development
		StorageProvider: getEnv("STORAGE_PROVIDER", "memory"),
		ItemsTable:      getEnv("ITEMS_TABLE", "items"),
		SeedItems:       getEnvInt("SEED_ITEMS", 95),

		PerPage:   getEnvInt("PER_PAGE", 20),
		PageParam: getEnv("PAGINATION_PAGE_PARAM", pagination.DefaultPageParam),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	policy, err := pagination.NewPolicy(
		getEnvInt("PAGINATION_INNER_WINDOW", pagination.DefaultInnerWindow),
		getEnvInt("PAGINATION_OUTER_WINDOW", pagination.DefaultOuterWindow),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination window: %w", err)
	}
	cfg.Policy = policy

	// Parse the blacklist from a comma-separated environment variable.
	// A set but empty variable disables the blacklist.
	if value, ok := os.LookupEnv("PAGINATION_PARAM_BLACKLIST"); ok {
		cfg.ParamBlacklist = []string{}
		for _, key := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				cfg.ParamBlacklist = append(cfg.ParamBlacklist, trimmed)
			}
		}
	}

	if cfg.PerPage < 1 || cfg.PerPage > service.MaxPerPage {
		return nil, fmt.Errorf("PER_PAGE must be between 1 and %d, got: %d", service.MaxPerPage, cfg.PerPage)
	}
	if cfg.SeedItems < 0 {
		return nil, fmt.Errorf("SEED_ITEMS must not be negative, got: %d", cfg.SeedItems)
	}

	// Validate storage configuration
	switch cfg.StorageProvider {
	case "memory":
	case "postgres":
		cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
		if cfg.DatabaseUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_PROVIDER is 'postgres'")
		}
	default:
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'memory' or 'postgres', got: %s", cfg.StorageProvider)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
