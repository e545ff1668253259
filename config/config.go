package config

import (
	"os"
	"strconv"
)

// Config holds the business constants and process settings. Loaded once
// at startup from the environment and injected into services so tests
// can vary operating hours and the booking horizon.
type Config struct {
	// Operating hours: reservation slots start at OpeningHour and the
	// last slot starts at ClosingHour (inclusive).
	OpeningHour int
	ClosingHour int

	// Booking horizon in days from today.
	MaxDaysAdvance int

	// Reservation duration bounds in hours.
	MinDuration int
	MaxDuration int

	// Table type whose reservations block the entire day.
	BanquetTypeID uint

	// Token lifetime in minutes.
	TokenExpireMinutes int

	// Upload storage and the public base URL used to build image links.
	UploadDir string
	BaseURL   string
}

func Load() *Config {
	return &Config{
		OpeningHour:        envInt("OPENING_HOUR", 12),
		ClosingHour:        envInt("CLOSING_HOUR", 23),
		MaxDaysAdvance:     envInt("MAX_DAYS_ADVANCE", 14),
		MinDuration:        envInt("MIN_DURATION_HOURS", 1),
		MaxDuration:        envInt("MAX_DURATION_HOURS", 6),
		BanquetTypeID:      uint(envInt("BANQUET_TYPE_ID", 5)),
		TokenExpireMinutes: envInt("TOKEN_EXPIRE_MINUTES", 60),
		UploadDir:          envStr("UPLOAD_DIR", "public/uploads"),
		BaseURL:            envStr("BASE_URL", "http://localhost:8080"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
