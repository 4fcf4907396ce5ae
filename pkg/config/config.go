package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// GameConfig holds the tunable game constants. Defaults match the live
// deployment; a game.json next to the binary overrides them.
type GameConfig struct {
	CurrencyName        string `json:"currency_name"`
	BonusAmount         int64  `json:"bonus_amount"`
	BonusCooldownHours  int    `json:"bonus_cooldown_hours"`
	SpinCooldownSeconds int    `json:"spin_cooldown_seconds"`
	MaxTargets          int    `json:"max_targets"`
	ResultsWindow       int    `json:"results_window"`
	PayoutBase          int64  `json:"payout_base"`
}

type Config struct {
	BotToken   string
	AdminID    int64
	DBType     string // "sqlite" or "postgres"
	ConnString string
	EnableAPI  bool
	APIAddr    string
	Game       GameConfig
}

func defaults() GameConfig {
	return GameConfig{
		CurrencyName:        "GRAM",
		BonusAmount:         2500,
		BonusCooldownHours:  24,
		SpinCooldownSeconds: 10,
		MaxTargets:          16,
		ResultsWindow:       10,
		PayoutBase:          36,
	}
}

// Load reads the configuration from the environment. A .env file, if
// present, is loaded by the caller before this runs.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:  os.Getenv("BOT_TOKEN"),
		EnableAPI: os.Getenv("DISABLE_API") == "",
		APIAddr:   os.Getenv("API_ADDR"),
		Game:      defaults(),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN not set")
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = ":8080"
	}

	if raw := os.Getenv("ADMIN_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID %q: %w", raw, err)
		}
		cfg.AdminID = id
	}

	if err := loadJSONIfPresent("game.json", &cfg.Game); err != nil {
		return nil, err
	}

	if err := cfg.setupDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setupDatabase() error {
	c.DBType = os.Getenv("DB_TYPE")
	if c.DBType == "" {
		c.DBType = "sqlite"
	}

	switch c.DBType {
	case "postgres":
		conn, err := buildPostgresConnString()
		if err != nil {
			return err
		}
		c.ConnString = conn
	case "sqlite":
		c.ConnString = os.Getenv("SQLITE_PATH")
		if c.ConnString == "" {
			c.ConnString = "./gram.db"
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	return nil
}

func buildPostgresConnString() (string, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return dbURL, nil
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return "", errors.New("DB_HOST is required for PostgreSQL (or set DATABASE_URL)")
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		return "", errors.New("DB_USER is required for PostgreSQL")
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		return "", errors.New("DB_PASSWORD is required for PostgreSQL")
	}

	port := 5432
	if p, err := strconv.Atoi(os.Getenv("DB_PORT")); err == nil && p > 0 {
		port = p
	}
	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "postgres"
	}
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "require"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode), nil
}

func loadJSONIfPresent(filename string, target interface{}) error {
	file, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := json.Unmarshal(file, target); err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}
	return nil
}

func (g GameConfig) BonusCooldown() time.Duration {
	return time.Duration(g.BonusCooldownHours) * time.Hour
}

func (g GameConfig) SpinCooldown() time.Duration {
	return time.Duration(g.SpinCooldownSeconds) * time.Second
}
