package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DISPLAY_TZ debe resolverse aunque la imagen no traiga zoneinfo

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	HTTPTimeout   time.Duration
	LogLevel      slog.Level
	DatasetSource string
	ChatDelay     time.Duration
	DisplayTZ     *time.Location
	CORSOrigins   []string
}

// FromEnv lee el entorno; si hay un .env en el directorio actual lo carga
// primero sin pisar variables ya definidas.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	delay := 1500 * time.Millisecond
	if v := os.Getenv("CHAT_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			delay = time.Duration(ms) * time.Millisecond
		}
	}
	loc, err := time.LoadLocation(envOr("DISPLAY_TZ", "America/New_York"))
	if err != nil {
		loc = time.UTC
	}
	return Config{
		Port:          envOr("PORT", "8080"),
		HTTPTimeout:   to,
		LogLevel:      lvl,
		DatasetSource: os.Getenv("DATASET_SOURCE"),
		ChatDelay:     delay,
		DisplayTZ:     loc,
		CORSOrigins:   splitCSV(envOr("CORS_ORIGINS", "*")),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
