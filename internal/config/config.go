// Package config loads settings for the server and the tripctl CLI.
//
// Values come from the environment (optionally seeded from a .env file) and
// may be overridden by command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mmynk/tripplanner/internal/tally"
)

// DotEnvFile is read, when present, before the environment is parsed.
// Variables already set in the environment win.
const DotEnvFile = ".env"

// Server configures cmd/server.
type Server struct {
	Port        int           `env:"TRIP_PORT"         envDefault:"8080"`
	DBPath      string        `env:"TRIP_DB_PATH"      envDefault:"./data/trips.db"`
	JWTSecret   string        `env:"TRIP_JWT_SECRET"`
	TokenTTL    time.Duration `env:"TRIP_TOKEN_TTL"    envDefault:"24h"`
	TieBreak    string        `env:"TRIP_TIE_BREAK"    envDefault:"first_seen"`
	RedisAddr   string        `env:"TRIP_REDIS_ADDR"`
	CatalogTTL  time.Duration `env:"TRIP_CATALOG_TTL"  envDefault:"10m"`
	RateLimit   float64       `env:"TRIP_RATE_LIMIT"   envDefault:"20"`
	RateBurst   int           `env:"TRIP_RATE_BURST"   envDefault:"40"`
	CORSOrigins []string      `env:"TRIP_CORS_ORIGINS" envSeparator:","`

	// Policy is TieBreak parsed.
	Policy tally.TieBreak
}

// Addr is the listen address.
func (c Server) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadServer reads the server configuration. args are the command-line
// arguments without the program name.
func LoadServer(args []string) (Server, error) {
	var cfg Server
	if err := parseEnv(&cfg); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flags.StringVar(&cfg.TieBreak, "tie-break", cfg.TieBreak, "tie-break policy: first_seen or lexical")
	flags.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for the catalog cache (empty disables it)")
	if err := flags.Parse(args); err != nil {
		return cfg, err
	}

	policy, err := tally.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy

	cfg.CORSOrigins = trimList(cfg.CORSOrigins)
	return cfg, cfg.validate()
}

func (c Server) validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("TRIP_JWT_SECRET is required")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.TokenTTL <= 0:
		return fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL)
	case c.RateLimit <= 0 || c.RateBurst <= 0:
		return fmt.Errorf("rate limit must be positive, got %g/s burst %d", c.RateLimit, c.RateBurst)
	}
	return nil
}

// CLI configures cmd/tripctl.
type CLI struct {
	Server       string        `env:"TRIP_SERVER"        envDefault:"http://localhost:8080"`
	Token        string        `env:"TRIP_TOKEN"`
	PollInterval time.Duration `env:"TRIP_POLL_INTERVAL" envDefault:"30s"`
}

// LoadCLI reads the CLI configuration and returns the remaining arguments.
func LoadCLI(args []string) (CLI, []string, error) {
	var cfg CLI
	if err := parseEnv(&cfg); err != nil {
		return cfg, nil, err
	}

	flags := flag.NewFlagSet("tripctl", flag.ContinueOnError)
	flags.StringVar(&cfg.Server, "server", cfg.Server, "server base URL")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "session token")
	flags.DurationVar(&cfg.PollInterval, "interval", cfg.PollInterval, "refresh interval for watch")
	if err := flags.Parse(args); err != nil {
		return cfg, nil, err
	}

	if cfg.PollInterval <= 0 {
		return cfg, nil, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	return cfg, flags.Args(), nil
}

// parseEnv loads the .env file, if any, then parses the environment into target.
func parseEnv(target any) error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func trimList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
