package config

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`

	// Token lifetime in minutes.
	TokenTTLMinutes int `env:"TOKEN_TTL_MINUTES"`

	// Comma-separated list of allowed CORS origins.
	CORSOrigins string `env:"CORS_ORIGINS"`

	// Image attachment limits.
	ItemImageMax   int `env:"ITEM_IMAGE_MAX"`
	ImageMaxSizeMB int `env:"IMAGE_MAX_SIZE_MB"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags apply only when the env variables are unset
	flag.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "address:port to listen on")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database connection string")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "JWT signing secret")
	flag.IntVar(&cfg.TokenTTLMinutes, "token-ttl", cfg.TokenTTLMinutes, "token lifetime in minutes")
	flag.StringVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "comma-separated allowed CORS origins")
	flag.IntVar(&cfg.ItemImageMax, "item-image-max", cfg.ItemImageMax, "max images per item")
	flag.IntVar(&cfg.ImageMaxSizeMB, "image-max-mb", cfg.ImageMaxSizeMB, "max image upload size, MB")

	flag.Parse()

	// Defaults
	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTLMinutes <= 0 {
		cfg.TokenTTLMinutes = 45
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "http://localhost:5173"
	}
	if cfg.ItemImageMax <= 0 {
		cfg.ItemImageMax = 10
	}
	if cfg.ImageMaxSizeMB <= 0 {
		cfg.ImageMaxSizeMB = 10
	}

	return cfg
}

// AllowedOrigins splits CORSOrigins into the list the CORS middleware expects.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
