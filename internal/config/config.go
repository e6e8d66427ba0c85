package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string          `yaml:"addr"`
	DatabasePath string          `yaml:"database_path"`
	APITimeout   time.Duration   `yaml:"timeout"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig tunes the per-client token bucket; RPS <= 0 disables
// rate limiting entirely.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("WELDTRACK_ADDR", ":8080"),
		DatabasePath: getEnv("WELDTRACK_DATABASE_PATH", "weldtrack.db"),
		APITimeout:   15 * time.Second,
		RateLimit: RateLimitConfig{
			RPS:   50,
			Burst: 100,
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

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
