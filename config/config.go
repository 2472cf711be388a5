package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	ServerAddr  string
	Environment string // "development" or "production"
	LogLevel    string

	// Redis (advisory cache)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PostgreSQL (advisory log)
	DatabaseURL string

	// Advisory service
	GeminiAPIKey     string
	GeminiModel      string
	AdvisoryTimeout  time.Duration
	AdvisoryCacheTTL time.Duration

	Game GameConfig
}

// GameConfig holds the tunable simulation and crash game settings.
// Every field can be overridden from the YAML file named by GAME_CONFIG.
type GameConfig struct {
	HouseEdgeFactor   float64       `yaml:"house_edge_factor"`
	PlaybackInterval  time.Duration `yaml:"playback_interval"`
	FrameInterval     time.Duration `yaml:"frame_interval"`
	CrashHistoryLimit int           `yaml:"crash_history_limit"`
	CurveQuadratic    float64       `yaml:"curve_quadratic"`
	CurveLinear       float64       `yaml:"curve_linear"`

	InitialWealth    float64 `yaml:"initial_wealth"`
	StartingBankroll float64 `yaml:"starting_bankroll"`
	DefaultBet       float64 `yaml:"default_bet"`
	DefaultTarget    float64 `yaml:"default_target"`

	DefaultWinProbability float64 `yaml:"default_win_probability"`
	DefaultDecimalOdds    float64 `yaml:"default_decimal_odds"`
	DefaultTotalRounds    int     `yaml:"default_total_rounds"`
	MaxTotalRounds        int     `yaml:"max_total_rounds"`
}

// DefaultGameConfig returns the built-in game settings.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		HouseEdgeFactor:   HouseEdgeFactor,
		PlaybackInterval:  PlaybackInterval,
		FrameInterval:     FrameInterval,
		CrashHistoryLimit: MaxCrashHistory,
		CurveQuadratic:    CurveQuadratic,
		CurveLinear:       CurveLinear,

		InitialWealth:    DefaultInitialWealth,
		StartingBankroll: StartingBankroll,
		DefaultBet:       DefaultCrashBet,
		DefaultTarget:    DefaultCrashTarget,

		DefaultWinProbability: DefaultWinProbability,
		DefaultDecimalOdds:    DefaultDecimalOdds,
		DefaultTotalRounds:    DefaultTotalRounds,
		MaxTotalRounds:        MaxTotalRounds,
	}
}

// Load reads the .env file at envPath (if present) and builds the configuration
// from environment variables and the optional YAML game file.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			log.Warnf("⚠️  %s not found, using environment variables", envPath)
		} else {
			log.Infof("✅ Loaded environment variables from %s", envPath)
		}
	}

	cfg := &Config{
		ServerAddr:    getEnv("ADDR", DefaultServerAddr),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", DefaultGeminiModel),

		AdvisoryTimeout:  DefaultAdvisoryTimeout,
		AdvisoryCacheTTL: DefaultAdvisoryCacheTTL,
		Game:             DefaultGameConfig(),
	}

	// API_KEY is accepted as a legacy name for the Gemini key
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		n, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = n
	}

	var err error
	if cfg.AdvisoryTimeout, err = getDuration("ADVISORY_TIMEOUT", cfg.AdvisoryTimeout); err != nil {
		return nil, err
	}
	if cfg.AdvisoryCacheTTL, err = getDuration("ADVISORY_CACHE_TTL", cfg.AdvisoryCacheTTL); err != nil {
		return nil, err
	}

	if path := os.Getenv("GAME_CONFIG"); path != "" {
		game, err := LoadGameConfig(path, cfg.Game)
		if err != nil {
			return nil, err
		}
		cfg.Game = game
	}

	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadGameConfig overlays the YAML file at path on top of base.
// Keys missing from the file keep their base values.
func LoadGameConfig(path string, base GameConfig) (GameConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return GameConfig{}, fmt.Errorf("read game config: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return GameConfig{}, fmt.Errorf("parse game config %s: %w", path, err)
	}
	return out, nil
}

// Validate checks semantic constraints of the game settings.
func (g GameConfig) Validate() error {
	var errs []string

	if !(g.HouseEdgeFactor > 0 && g.HouseEdgeFactor <= 1) {
		errs = append(errs, "house_edge_factor must be in (0,1]")
	}
	if g.PlaybackInterval <= 0 {
		errs = append(errs, "playback_interval must be > 0")
	}
	if g.FrameInterval <= 0 {
		errs = append(errs, "frame_interval must be > 0")
	}
	if g.CrashHistoryLimit <= 0 {
		errs = append(errs, "crash_history_limit must be >= 1")
	}
	if g.CurveQuadratic < 0 || g.CurveLinear < 0 || g.CurveQuadratic+g.CurveLinear == 0 {
		errs = append(errs, "curve coefficients must be >= 0 and not both zero")
	}
	if g.InitialWealth <= 0 {
		errs = append(errs, "initial_wealth must be > 0")
	}
	if g.StartingBankroll < 0 {
		errs = append(errs, "starting_bankroll must be >= 0")
	}
	if g.DefaultBet <= 0 {
		errs = append(errs, "default_bet must be > 0")
	}
	if g.DefaultTarget <= 1 {
		errs = append(errs, "default_target must be > 1")
	}
	if !(g.DefaultWinProbability > 0 && g.DefaultWinProbability < 1) {
		errs = append(errs, "default_win_probability must be in (0,1)")
	}
	if g.DefaultDecimalOdds <= 1 {
		errs = append(errs, "default_decimal_odds must be > 1")
	}
	if g.MaxTotalRounds <= 0 {
		errs = append(errs, "max_total_rounds must be >= 1")
	}
	if g.DefaultTotalRounds < 0 || g.DefaultTotalRounds > g.MaxTotalRounds {
		errs = append(errs, "default_total_rounds must satisfy 0 <= rounds <= max_total_rounds")
	}

	if len(errs) > 0 {
		return errors.New("game config validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
