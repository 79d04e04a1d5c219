package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv  string
	Port     string
	LogLevel string

	DedupWindow        time.Duration
	RequireKnownFlight bool

	// Static drawer registry and flight catalog
	DrawerFile string
	Drawers    map[string]int
	Flights    []string

	Database  DatabaseConfig
	Messaging MessagingConfig
	Serial    SerialConfig
}

// DatabaseConfig holds catalog database configuration
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Silent   bool
}

// MessagingConfig selects where scan outcomes are published
type MessagingConfig struct {
	Backend  string // "", "mqtt", "kafka" or "redis"
	Brokers  []string
	Topic    string
	ClientID string
}

// SerialConfig describes a handheld QR reader on a serial port
type SerialConfig struct {
	Device string
	Baud   int
}

// DefaultDrawers is the reference drawer table
func DefaultDrawers() map[string]int {
	return map[string]int{
		"DRW_001":  2,
		"DRW_002":  2,
		"DRW_003":  10,
		"DRW_004":  12,
		"DRAW_005": 8,
	}
}

// DefaultFlights is the reference flight catalog
func DefaultFlights() []string {
	return []string{"LAK345", "DL045", "AF123", "BA678", "EK088", "BA713"}
}

// Load loads configuration from .env, the optional drawer file and the environment
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dedup, err := time.ParseDuration(getEnv("DEDUP_WINDOW", "2s"))
	if err != nil {
		return nil, fmt.Errorf("DEDUP_WINDOW: %w", err)
	}
	if dedup <= 0 {
		return nil, fmt.Errorf("DEDUP_WINDOW must be positive, got %s", dedup)
	}

	baud, err := strconv.Atoi(getEnv("SERIAL_BAUD", "9600"))
	if err != nil {
		return nil, fmt.Errorf("SERIAL_BAUD: %w", err)
	}

	cfg := &Config{
		NodeEnv:            getEnv("NODE_ENV", "development"),
		Port:               getEnv("PORT", "8000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DedupWindow:        dedup,
		RequireKnownFlight: getEnv("REQUIRE_KNOWN_FLIGHT", "false") == "true",
		DrawerFile:         os.Getenv("DRAWER_CONFIG"),
		Drawers:            DefaultDrawers(),
		Flights:            DefaultFlights(),
		Database: DatabaseConfig{
			Enabled:  getEnv("DB_ENABLED", "false") == "true",
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "drawerscan"),
			Silent:   getEnv("DB_SILENT", "true") == "true",
		},
		Messaging: MessagingConfig{
			Backend:  strings.ToLower(os.Getenv("MESSAGING_BACKEND")),
			Brokers:  splitList(os.Getenv("MESSAGING_BROKERS")),
			Topic:    getEnv("MESSAGING_TOPIC", "drawerscan/scans"),
			ClientID: getEnv("MESSAGING_CLIENT_ID", "drawerscan"),
		},
		Serial: SerialConfig{
			Device: os.Getenv("SERIAL_DEVICE"),
			Baud:   baud,
		},
	}

	if cfg.DrawerFile != "" {
		file, err := LoadDrawerFile(cfg.DrawerFile)
		if err != nil {
			return nil, err
		}
		if len(file.Drawers) > 0 {
			cfg.Drawers = file.Drawers
		}
		if len(file.Flights) > 0 {
			cfg.Flights = file.Flights
		}
	}

	if raw := os.Getenv("DRAWER_CAPACITIES"); raw != "" {
		drawers, err := ParseCapacities(raw)
		if err != nil {
			return nil, fmt.Errorf("DRAWER_CAPACITIES: %w", err)
		}
		cfg.Drawers = drawers
	}
	if raw := os.Getenv("FLIGHTS"); raw != "" {
		cfg.Flights = splitList(raw)
	}

	switch cfg.Messaging.Backend {
	case "", "mqtt", "kafka", "redis":
	default:
		return nil, fmt.Errorf("MESSAGING_BACKEND: unsupported backend %q", cfg.Messaging.Backend)
	}
	if cfg.Messaging.Backend != "" && len(cfg.Messaging.Brokers) == 0 {
		return nil, fmt.Errorf("MESSAGING_BROKERS is required for backend %s", cfg.Messaging.Backend)
	}

	return cfg, nil
}

// ParseCapacities parses "ID=cap,ID=cap"
func ParseCapacities(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range splitList(raw) {
		id, val, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid entry %q, want ID=capacity", pair)
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid capacity for %s: %w", id, err)
		}
		if capacity < 0 {
			return nil, fmt.Errorf("negative capacity for %s", id)
		}
		out[strings.ToUpper(id)] = capacity
	}
	return out, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
