package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/placement/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:           ":5000",
		Env:            "production",
		JWTSecret:      "strongsecret",
		APITimeout:     5 * time.Second,
		DatabasePath:   "placement.db",
		TokenDuration:  time.Hour,
		UploadDir:      "uploads",
		MaxUploadBytes: 1 << 20,
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in production env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "development"
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_WorkerDefaultsPopulated(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}
	if cfg.Workers.Count != 2 {
		t.Fatalf("expected default worker count 2, got %d", cfg.Workers.Count)
	}
	if cfg.Workers.EmailMaxAttempts != 3 {
		t.Fatalf("expected default email attempts 3, got %d", cfg.Workers.EmailMaxAttempts)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"EmptyDatabasePath", func(c *config.Config) { c.DatabasePath = "" }},
		{"ZeroTimeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"NegativeTokenDuration", func(c *config.Config) { c.TokenDuration = -time.Minute }},
		{"EmptyUploadDir", func(c *config.Config) { c.UploadDir = "" }},
		{"ZeroUploadLimit", func(c *config.Config) { c.MaxUploadBytes = 0 }},
		{"BadTrustedProxy", func(c *config.Config) { c.RateLimit.TrustedProxies = []string{"10.0.0.0/8", "proxy.internal"} }},
		{"BadSMTPPort", func(c *config.Config) {
			c.SMTP = config.SMTPConfig{Host: "smtp.example.com", Port: 70000, Username: "u", Password: "p"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PLACEMENT_ADDR", "")
	t.Setenv("PLACEMENT_JWT_SECRET", "")
	t.Setenv("PLACEMENT_DATABASE_PATH", "")
	t.Setenv("PLACEMENT_TOKEN_DURATION", "")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":5000" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":5000")
	}
	if cfg.DatabasePath != "placement.db" {
		t.Fatalf("unexpected DatabasePath: got %q", cfg.DatabasePath)
	}
	if cfg.TokenDuration != 7*24*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v", cfg.TokenDuration)
	}
	if cfg.SMTP.Enabled() {
		t.Fatalf("smtp must be disabled by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PLACEMENT_TOKEN_DURATION", "90m")
	t.Setenv("PLACEMENT_SMTP_PORT", "2525")
	t.Setenv("PLACEMENT_REDIS_ADDR", "localhost:6379")
	t.Setenv("PLACEMENT_TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12,")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TokenDuration != 90*time.Minute {
		t.Fatalf("unexpected TokenDuration: %v", cfg.TokenDuration)
	}
	if cfg.SMTP.Port != 2525 {
		t.Fatalf("unexpected smtp port: %d", cfg.SMTP.Port)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %q", cfg.Redis.Addr)
	}
	if got := cfg.RateLimit.TrustedProxies; len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "172.16.0.0/12" {
		t.Fatalf("unexpected trusted proxies: %q", got)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\ntoken_duration: \"2h\"\nsmtp:\n  host: \"smtp.example.com\"\n  username: \"mailer\"\n  password: \"pw\"\nworkers:\n  count: 4\nrate_limit:\n  trusted_proxies:\n    - \"10.1.2.3\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q", cfg.JWTSecret)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v", cfg.APITimeout)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v", cfg.TokenDuration)
	}
	if !cfg.SMTP.Enabled() {
		t.Fatalf("expected smtp enabled from file")
	}
	if cfg.Workers.Count != 4 {
		t.Fatalf("unexpected worker count %d", cfg.Workers.Count)
	}
	if got := cfg.RateLimit.TrustedProxies; len(got) != 1 || got[0] != "10.1.2.3" {
		t.Fatalf("unexpected trusted proxies: %q", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed\n"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
