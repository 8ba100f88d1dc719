package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Default page URLs for the three scrape sources.
const (
	defaultGridURL    = "https://lumapr.com/system-overview/?lang=en"
	defaultOutagesURL = "https://lumapr.com/notable-outages/?lang=en"
	defaultStatusURL  = "https://miluma.lumapr.com/outages/status"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Store credentials. Both are required; the process refuses to start
	// without them.
	SupabaseURL string
	SupabaseKey string

	// Destination tables.
	GridTable    string
	OutagesTable string
	StatusTable  string

	// Source pages.
	GridURL    string
	OutagesURL string
	StatusURL  string

	FetchTimeout  time.Duration // static page fetch
	RenderTimeout time.Duration // headless render, navigation to selector
	RenderSettle  time.Duration // extra wait after the selector appears
	StoreTimeout  time.Duration // per store call

	// Directory for the status scraper's JSON side files.
	SnapshotDir string

	// serve mode.
	HTTPAddr        string
	ScrapeInterval  time.Duration
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Optional outage event sink.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. Missing store credentials are an error: there is no useful
// degraded mode without a destination.
func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_KEY"),

		GridTable:    envOrDefault("GRID_TABLE", "luma_scrape_results"),
		OutagesTable: envOrDefault("OUTAGES_TABLE", "luma_outages"),
		StatusTable:  envOrDefault("STATUS_TABLE", "outage_snapshot"),

		GridURL:    envOrDefault("GRID_URL", defaultGridURL),
		OutagesURL: envOrDefault("OUTAGES_URL", defaultOutagesURL),
		StatusURL:  envOrDefault("STATUS_URL", defaultStatusURL),

		SnapshotDir: envOrDefault("SNAPSHOT_DIR", "."),

		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaTopic: envOrDefault("KAFKA_TOPIC", "grid-outage-events"),
	}

	if cfg.SupabaseURL == "" {
		return nil, errors.New("SUPABASE_URL is required")
	}
	if cfg.SupabaseKey == "" {
		return nil, errors.New("SUPABASE_KEY is required")
	}

	var err error
	if cfg.FetchTimeout, err = durationOrDefault("FETCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.RenderTimeout, err = durationOrDefault("RENDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RenderSettle, err = durationOrDefault("RENDER_SETTLE", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = durationOrDefault("STORE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ScrapeInterval, err = durationOrDefault("SCRAPE_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.KafkaEnabled = os.Getenv("KAFKA_ENABLED") == "true"
	cfg.KafkaBrokers = splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
