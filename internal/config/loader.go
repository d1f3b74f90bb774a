package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the festory service.
type Config struct {
	HTTPPort   int
	SQLitePath string

	SessionSecret string
	StateTTL      time.Duration

	KakaoClientID    string
	KakaoRedirectURI string

	CalendarBaseURL string
	CalendarID      string

	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherTTL     time.Duration

	PlacesAPIKey  string
	PlacesBaseURL string
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is read first when present.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:   8080,
		SQLitePath: "festory.db",
		StateTTL:   10 * time.Minute,
		CalendarID: "primary",
		WeatherTTL: 10 * time.Minute,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("FESTORY_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "FESTORY_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if path := strings.TrimSpace(os.Getenv("FESTORY_SQLITE_PATH")); path != "" {
		cfg.SQLitePath = path
	}

	if secret := strings.TrimSpace(os.Getenv("FESTORY_SESSION_SECRET")); secret == "" {
		missing = append(missing, "FESTORY_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("FESTORY_STATE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "FESTORY_STATE_TTL")
		} else {
			cfg.StateTTL = ttl
		}
	}

	cfg.KakaoClientID = strings.TrimSpace(os.Getenv("FESTORY_KAKAO_CLIENT_ID"))
	cfg.KakaoRedirectURI = strings.TrimSpace(os.Getenv("FESTORY_KAKAO_REDIRECT_URI"))

	cfg.CalendarBaseURL = strings.TrimSpace(os.Getenv("FESTORY_CALENDAR_BASE_URL"))
	if calendarID := strings.TrimSpace(os.Getenv("FESTORY_CALENDAR_ID")); calendarID != "" {
		cfg.CalendarID = calendarID
	}

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("FESTORY_WEATHER_API_KEY"))
	cfg.WeatherBaseURL = strings.TrimSpace(os.Getenv("FESTORY_WEATHER_BASE_URL"))
	if ttlValue := strings.TrimSpace(os.Getenv("FESTORY_WEATHER_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "FESTORY_WEATHER_TTL")
		} else {
			cfg.WeatherTTL = ttl
		}
	}

	cfg.PlacesAPIKey = strings.TrimSpace(os.Getenv("FESTORY_PLACES_API_KEY"))
	cfg.PlacesBaseURL = strings.TrimSpace(os.Getenv("FESTORY_PLACES_BASE_URL"))

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("필수 환경 변수가 설정되지 않았습니다: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("환경 변수 값이 올바르지 않습니다: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
