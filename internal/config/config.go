package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	WebSocketOrigin string

	JWTIssuer        string
	JWTSecret        string
	JWTTTL           time.Duration
	APIUser          string
	APIPasswordHash  string

	DBDSN        string
	SQLitePath   string
	SnapshotPath string

	StartingBalance string
	TickInterval    time.Duration
	MarketSeed      int64
	MarketSeeded    bool
}

func Load() (Config, error) {
	var c Config
	var missing []string

	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	c.APIPasswordHash = os.Getenv("API_PASSWORD_HASH")
	if c.APIPasswordHash == "" {
		missing = append(missing, "API_PASSWORD_HASH")
	}

	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		c.JWTIssuer = "stocksim"
	}
	c.JWTTTL = 24 * time.Hour
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return c, errors.New("invalid JWT_TTL")
		}
		c.JWTTTL = d
	}
	c.APIUser = os.Getenv("API_USER")
	if c.APIUser == "" {
		c.APIUser = "Trader"
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")

	c.DBDSN = os.Getenv("DB_DSN")
	c.SQLitePath = os.Getenv("SQLITE_PATH")
	if c.SQLitePath == "" {
		c.SQLitePath = "data/trading.db"
	}
	c.SnapshotPath = os.Getenv("SNAPSHOT_PATH")
	if c.SnapshotPath == "" {
		c.SnapshotPath = "data/account.json"
	}

	c.StartingBalance = os.Getenv("STARTING_BALANCE")
	if c.StartingBalance == "" {
		c.StartingBalance = "10000"
	}
	c.TickInterval = 10 * time.Second
	if raw := os.Getenv("TICK_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return c, errors.New("invalid TICK_INTERVAL")
		}
		c.TickInterval = d
	}
	if raw := strings.TrimSpace(os.Getenv("MARKET_SEED")); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c, errors.New("invalid MARKET_SEED")
		}
		c.MarketSeed = seed
		c.MarketSeeded = true
	}

	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
