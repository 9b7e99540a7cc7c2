package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	Env            string        `yaml:"env"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	FrontendURL    string        `yaml:"frontend_url"`
	UploadDir      string        `yaml:"upload_dir"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`

	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Workers   WorkersConfig   `yaml:"workers"`
}

// RedisConfig enables the shared rate limiter when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig throttles the auth endpoints per client IP. TrustedProxies
// holds the addresses or CIDR ranges allowed to set X-Forwarded-For.
type RateLimitConfig struct {
	AuthRequests   int           `yaml:"auth_requests"`
	Window         time.Duration `yaml:"window"`
	TrustedProxies []string      `yaml:"trusted_proxies"`
}

// SMTPConfig enables notification emails when Username and Password are set.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Enabled reports whether email delivery is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

type WorkersConfig struct {
	Count            int `yaml:"count"`
	EmailMaxAttempts int `yaml:"email_max_attempts"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("PLACEMENT_ADDR", ":5000"),
		Env:            getEnv("PLACEMENT_ENV", "development"),
		JWTSecret:      getEnv("PLACEMENT_JWT_SECRET", insecureJWTSecret),
		APITimeout:     getDuration("PLACEMENT_TIMEOUT", 15*time.Second),
		DatabasePath:   getEnv("PLACEMENT_DATABASE_PATH", "placement.db"),
		TokenDuration:  getDuration("PLACEMENT_TOKEN_DURATION", 7*24*time.Hour),
		FrontendURL:    getEnv("PLACEMENT_FRONTEND_URL", "http://localhost:3000"),
		UploadDir:      getEnv("PLACEMENT_UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getInt("PLACEMENT_MAX_UPLOAD_BYTES", 5<<20)),
		Redis: RedisConfig{
			Addr:     getEnv("PLACEMENT_REDIS_ADDR", ""),
			Password: getEnv("PLACEMENT_REDIS_PASSWORD", ""),
			DB:       getInt("PLACEMENT_REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			AuthRequests:   getInt("PLACEMENT_RATE_LIMIT_AUTH", 20),
			Window:         getDuration("PLACEMENT_RATE_LIMIT_WINDOW", time.Minute),
			TrustedProxies: getList("PLACEMENT_TRUSTED_PROXIES"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("PLACEMENT_SMTP_HOST", ""),
			Port:     getInt("PLACEMENT_SMTP_PORT", 587),
			Username: getEnv("PLACEMENT_SMTP_USERNAME", ""),
			Password: getEnv("PLACEMENT_SMTP_PASSWORD", ""),
			From:     getEnv("PLACEMENT_SMTP_FROM", ""),
		},
		Workers: WorkersConfig{
			Count:            getInt("PLACEMENT_WORKERS", 2),
			EmailMaxAttempts: getInt("PLACEMENT_EMAIL_MAX_ATTEMPTS", 3),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs outside production-like environments.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "test"
}

// IsProduction gates exposure of raw error text in responses.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.JWTSecret == insecureJWTSecret && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("jwt_secret must be changed from the default in %q environment", c.Env))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir is required"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.RateLimit.AuthRequests < 0 || c.RateLimit.Window < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}
	for _, p := range c.RateLimit.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("rate_limit.trusted_proxies: %q is not an IP address or CIDR range", p))
		}
	}
	if c.SMTP.Enabled() && (c.SMTP.Port <= 0 || c.SMTP.Port > 65535) {
		errs = append(errs, fmt.Errorf("smtp.port %d out of range", c.SMTP.Port))
	}
	if c.Workers.Count <= 0 {
		c.Workers.Count = 2
	}
	if c.Workers.EmailMaxAttempts <= 0 {
		c.Workers.EmailMaxAttempts = 3
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

// getList splits a comma separated variable, dropping empty items.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

func validProxy(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}
