// Package config loads planner settings from defaults, an optional TOML
// file, a .env file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all wealth-planner configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Cache      CacheConfig      `toml:"cache"`
	Storage    StorageConfig    `toml:"storage"`
	Simulation SimulationConfig `toml:"simulation"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	Log        LogConfig        `toml:"log"`
}

type ServerConfig struct {
	Port            int      `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	DevMode         bool     `toml:"dev_mode"`
}

// RateLimitConfig holds the per-client token bucket: Capacity requests per Window.
type RateLimitConfig struct {
	Capacity int      `toml:"capacity"`
	Window   Duration `toml:"window"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"` // memory or redis
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Password  string   `toml:"password,omitempty"`
	TTL       Duration `toml:"ttl"`
}

type StorageConfig struct {
	Backend string `toml:"backend"` // memory or sqlite
	DBPath  string `toml:"db_path"`
}

type SimulationConfig struct {
	DefaultMonths    int     `toml:"default_months"`
	AnnualReturnRate float64 `toml:"annual_return_rate"`
	StrategyHorizon  int     `toml:"strategy_horizon"`
	CashReturnRate   float64 `toml:"cash_return_rate"`
}

type AdvisorConfig struct {
	APIURL  string   `toml:"api_url"`
	Model   string   `toml:"model"`
	APIKey  string   `toml:"api_key,omitempty"`
	Timeout Duration `toml:"timeout"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Duration decodes TOML strings such as "15s" or "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			IdleTimeout:     Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Capacity: 60,
			Window:   Duration{time.Minute},
		},
		Cache: CacheConfig{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			TTL:       Duration{10 * time.Minute},
		},
		Storage: StorageConfig{
			Backend: "memory",
			DBPath:  "data/scenarios.db",
		},
		Simulation: SimulationConfig{
			DefaultMonths:    60,
			AnnualReturnRate: 0.10,
			StrategyHorizon:  120,
			CashReturnRate:   0.04,
		},
		Advisor: AdvisorConfig{
			APIURL:  "https://api.groq.com/openai/v1/chat/completions",
			Model:   "llama-3.3-70b-versatile",
			Timeout: Duration{30 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration. An empty path or a missing file leaves the
// defaults in place; a file that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnvAsInt("PLANNER_PORT", cfg.Server.Port)
	cfg.Server.DevMode = getEnvAsBool("PLANNER_DEV_MODE", cfg.Server.DevMode)
	cfg.RateLimit.Capacity = getEnvAsInt("PLANNER_RATE_LIMIT", cfg.RateLimit.Capacity)
	cfg.Cache.Backend = getEnv("PLANNER_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = getEnv("PLANNER_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.Password = getEnv("PLANNER_REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Storage.Backend = getEnv("PLANNER_STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.DBPath = getEnv("PLANNER_DB_PATH", cfg.Storage.DBPath)
	cfg.Log.Level = getEnv("PLANNER_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvAsBool("PLANNER_LOG_PRETTY", cfg.Log.Pretty)
	cfg.Advisor.APIURL = getEnv("PLANNER_LLM_API_URL", cfg.Advisor.APIURL)
	cfg.Advisor.Model = getEnv("PLANNER_LLM_MODEL", cfg.Advisor.Model)

	// GROQ_API_KEY is accepted for compatibility with existing .env files.
	cfg.Advisor.APIKey = getEnv("GROQ_API_KEY", cfg.Advisor.APIKey)
	cfg.Advisor.APIKey = getEnv("PLANNER_LLM_API_KEY", cfg.Advisor.APIKey)
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Window.Duration <= 0 {
		return errors.New("rate limit window must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Storage.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "sqlite" && c.Storage.DBPath == "" {
		return errors.New("sqlite storage requires db_path")
	}
	if c.Simulation.DefaultMonths < 1 || c.Simulation.DefaultMonths > 600 {
		return fmt.Errorf("default_months must be between 1 and 600, got %d", c.Simulation.DefaultMonths)
	}
	if c.Simulation.StrategyHorizon < 1 || c.Simulation.StrategyHorizon > 600 {
		return fmt.Errorf("strategy_horizon must be between 1 and 600, got %d", c.Simulation.StrategyHorizon)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
