package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_PASSWORD_HASH", "$2a$10$example")
}

func clearOptional(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JWT_ISSUER", "JWT_TTL", "API_USER", "WS_ORIGIN", "DB_DSN",
		"SQLITE_PATH", "SNAPSHOT_PATH", "STARTING_BALANCE", "TICK_INTERVAL", "MARKET_SEED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	clearOptional(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.JWTIssuer != "stocksim" {
		t.Errorf("JWTIssuer = %q, want stocksim", c.JWTIssuer)
	}
	if c.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v, want 24h", c.JWTTTL)
	}
	if c.APIUser != "Trader" {
		t.Errorf("APIUser = %q, want Trader", c.APIUser)
	}
	if c.SQLitePath != "data/trading.db" {
		t.Errorf("SQLitePath = %q", c.SQLitePath)
	}
	if c.SnapshotPath != "data/account.json" {
		t.Errorf("SnapshotPath = %q", c.SnapshotPath)
	}
	if c.StartingBalance != "10000" {
		t.Errorf("StartingBalance = %q, want 10000", c.StartingBalance)
	}
	if c.TickInterval != 10*time.Second {
		t.Errorf("TickInterval = %v, want 10s", c.TickInterval)
	}
	if c.MarketSeeded {
		t.Error("MarketSeeded = true without MARKET_SEED set")
	}
}

func TestLoadMissingRequiredListsAll(t *testing.T) {
	clearOptional(t)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_PASSWORD_HASH", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without required env")
	}
	for _, name := range []string{"HTTP_ADDR", "JWT_SECRET", "API_PASSWORD_HASH"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	clearOptional(t)
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("API_USER", "Alice")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("MARKET_SEED", "42")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.JWTTTL != 30*time.Minute {
		t.Errorf("JWTTTL = %v, want 30m", c.JWTTTL)
	}
	if c.APIUser != "Alice" {
		t.Errorf("APIUser = %q", c.APIUser)
	}
	if c.TickInterval != 250*time.Millisecond {
		t.Errorf("TickInterval = %v", c.TickInterval)
	}
	if !c.MarketSeeded || c.MarketSeed != 42 {
		t.Errorf("seed = %d seeded = %v, want 42 true", c.MarketSeed, c.MarketSeeded)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"JWT_TTL", "soon"},
		{"TICK_INTERVAL", "-5s"},
		{"TICK_INTERVAL", "fast"},
		{"MARKET_SEED", "not-a-number"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setRequired(t)
			clearOptional(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tc.key, tc.value)
			}
		})
	}
}
