// Package config loads runtime settings from environment variables, an
// optional .env file, and a YAML search profile.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/mls-monitor/internal/env"
	"github.com/yourorg/mls-monitor/internal/filter"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DataDir   string
	Providers ProvidersConfig
	Email     EmailConfig
	Schedule  ScheduleConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Search    SearchConfig
}

type ServerConfig struct {
	Addr string
}

// ProvidersConfig holds the API credentials and monthly call budgets. A
// provider with an empty key is not registered at startup.
type ProvidersConfig struct {
	RentcastKey   string
	RentcastLimit int
	RapidAPIKey   string
	RapidAPILimit int
	HomesageKey   string
	HomesageLimit int
}

type EmailConfig struct {
	ResendKey string
	From      string
	To        []string
}

type ScheduleConfig struct {
	// CheckTimes are local wall-clock times, e.g. "08:00,18:00".
	CheckTimes []string
	Timezone   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	DSN string
}

// SearchConfig is the YAML-driven part: which zipcodes to watch, which
// property types to keep, and the listing filters.
type SearchConfig struct {
	Zipcodes struct {
		Priority   []string `yaml:"priority"`
		Additional []string `yaml:"additional"`
	} `yaml:"zipcodes"`
	PropertyTypes []string      `yaml:"property_types"`
	Filters       filter.Config `yaml:"filters"`
}

// AllZipcodes returns priority zipcodes first, then additional ones.
func (s SearchConfig) AllZipcodes() []string {
	out := make([]string, 0, len(s.Zipcodes.Priority)+len(s.Zipcodes.Additional))
	out = append(out, s.Zipcodes.Priority...)
	out = append(out, s.Zipcodes.Additional...)
	return out
}

// Load reads the .env file if present, then the environment, then the YAML
// search profile at searchPath.
func Load(searchPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Server:  ServerConfig{Addr: env.Get("LISTEN_ADDR", ":8080")},
		DataDir: env.Get("DATA_DIR", "data"),
		Providers: ProvidersConfig{
			RentcastKey:   os.Getenv("RENTCAST_API_KEY"),
			RentcastLimit: env.GetInt("RENTCAST_MONTHLY_LIMIT", 50),
			RapidAPIKey:   os.Getenv("RAPIDAPI_KEY"),
			RapidAPILimit: env.GetInt("RAPIDAPI_MONTHLY_LIMIT", 500),
			HomesageKey:   os.Getenv("HOMESAGE_API_KEY"),
			HomesageLimit: env.GetInt("HOMESAGE_MONTHLY_LIMIT", 100),
		},
		Email: EmailConfig{
			ResendKey: os.Getenv("RESEND_API_KEY"),
			From:      env.Get("EMAIL_FROM", "onboarding@resend.dev"),
			To:        splitList(os.Getenv("EMAIL_TO")),
		},
		Schedule: ScheduleConfig{
			CheckTimes: splitList(env.Get("CHECK_TIMES", "08:00,18:00")),
			Timezone:   env.Get("TIMEZONE", "America/Los_Angeles"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       env.GetInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{DSN: os.Getenv("POSTGRES_DSN")},
	}

	search, err := loadSearch(searchPath)
	if err != nil {
		return nil, err
	}
	cfg.Search = search
	return cfg, nil
}

func loadSearch(path string) (SearchConfig, error) {
	var s SearchConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading search config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("parsing search config %s: %w", path, err)
	}
	if len(s.AllZipcodes()) == 0 {
		return s, fmt.Errorf("search config %s: no zipcodes configured", path)
	}
	return s, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
