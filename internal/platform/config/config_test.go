package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/peopleops",
		Environment:        "development",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 120,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing database url", func(c *Config) { c.DatabaseURL = "  " }, true},
		{"production requires jwt secret", func(c *Config) { c.Environment = "production" }, true},
		{"production with secret and no seed", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s3cret"
			c.RunSeed = false
		}, false},
		{"production seed needs admin password", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s3cret"
			c.RunSeed = true
		}, true},
		{"body limit too small", func(c *Config) { c.MaxBodyBytes = 512 }, true},
		{"rate limit must be positive", func(c *Config) { c.RateLimitPerMinute = 0 }, true},
		{"email enabled without smtp host", func(c *Config) { c.EmailEnabled = true }, true},
		{"email enabled with smtp host", func(c *Config) {
			c.EmailEnabled = true
			c.SMTPHost = "smtp.example.com"
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("TokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.RateLimitPerMinute)
	}
	if !cfg.RunMigrations {
		t.Error("RunMigrations should default to true")
	}
}

func TestGetEnvDurationFallback(t *testing.T) {
	t.Setenv("TEST_DURATION", "not-a-duration")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("got %v, want fallback", got)
	}
	t.Setenv("TEST_DURATION", "90s")
	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 90*time.Second {
		t.Fatalf("got %v, want 90s", got)
	}
}
