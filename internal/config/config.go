// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen string `yaml:"listen"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	RabbitMQ struct {
		URL string `yaml:"url"`
	} `yaml:"rabbitmq"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Tenancy struct {
		// PublicSuffix is the apex domain guests hit, e.g. "staywise.app";
		// tenant slugs are extracted from its subdomains.
		PublicSuffix   string `yaml:"public_suffix"`
		OverrideHeader string `yaml:"override_header"`
		// SkipResolvePrefixes never attempt tenant resolution at all.
		SkipResolvePrefixes []string `yaml:"skip_resolve_prefixes"`
		// TenantOptionalPrefixes still resolve but tolerate a miss.
		// Kept separate from SkipResolvePrefixes on purpose: some paths
		// that skip resolution still get a tenant by other means downstream.
		TenantOptionalPrefixes []string `yaml:"tenant_optional_prefixes"`
	} `yaml:"tenancy"`

	RateLimit struct {
		Max           int `yaml:"max"`
		WindowSeconds int `yaml:"window_seconds"`
		// Scope is "global" (one shared budget) or "tenant".
		Scope string `yaml:"scope"`

		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
	} `yaml:"rate_limit"`
}

// Window returns the configured rate-limit window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Tenancy.OverrideHeader == "" {
		c.Tenancy.OverrideHeader = "X-Tenant-Slug"
	}
	if c.RateLimit.Max <= 0 {
		c.RateLimit.Max = 20
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.RateLimit.Scope == "" {
		c.RateLimit.Scope = "global"
	}
}
