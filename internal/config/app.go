package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotenv reads KEY=VALUE pairs from the given files (".env" when none
// is given) into the environment. Variables already set win. Missing
// files are not an error.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("unable to load %s: %w", path, err)
		}
	}
	return nil
}

func Addr() string {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		return addr
	}
	if port, ok := os.LookupEnv("APP_PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func envInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

type Game struct {
	PreviewTime         int
	CompletionDelay     time.Duration
	WrongMarkerDuration time.Duration
	MaxWidth            float64
	MaxHeight           float64
	SessionTTL          time.Duration
}

func NewGame() (*Game, error) {
	var (
		g   Game
		err error
	)
	if g.PreviewTime, err = envInt("PREVIEW_TIME", 10); err != nil {
		return nil, err
	}
	if g.CompletionDelay, err = envDuration("COMPLETION_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if g.WrongMarkerDuration, err = envDuration("WRONG_MARKER_DURATION", 1500*time.Millisecond); err != nil {
		return nil, err
	}
	if g.MaxWidth, err = envFloat("PUZZLE_MAX_WIDTH", 343); err != nil {
		return nil, err
	}
	if g.MaxHeight, err = envFloat("PUZZLE_MAX_HEIGHT", 400); err != nil {
		return nil, err
	}
	if g.SessionTTL, err = envDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}

	if g.PreviewTime < 0 {
		return nil, fmt.Errorf("PREVIEW_TIME must not be negative")
	}
	if g.MaxWidth <= 0 || g.MaxHeight <= 0 {
		return nil, fmt.Errorf("PUZZLE_MAX_WIDTH and PUZZLE_MAX_HEIGHT must be positive")
	}
	if g.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	return &g, nil
}

type RateLimit struct {
	RPS   int
	Burst int
}

func NewRateLimit() (*RateLimit, error) {
	rps, err := envInt("RATE_LIMIT_RPS", 20)
	if err != nil {
		return nil, err
	}
	burst, err := envInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return nil, err
	}
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimit{RPS: rps, Burst: burst}, nil
}
