package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string

	// StatsLocation pins the calendar-date convention used by the "today's
	// sales" figures. Defaults to the process-local timezone.
	StatsLocation *time.Location
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "shoptracker.db"
	}

	loc := time.Local
	if name := os.Getenv("STATS_TIMEZONE"); name != "" {
		parsed, err := time.LoadLocation(name)
		if err != nil {
			log.Printf("invalid STATS_TIMEZONE value %q, using local time", name)
		} else {
			loc = parsed
		}
	}

	return Config{Secret: secret, DatabaseDSN: dsn, HTTPPort: port, StatsLocation: loc}
}
