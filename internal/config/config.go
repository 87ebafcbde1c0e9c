package config

import "github.com/joeshaw/envdecode"

// Config holds everything the service reads from the environment. main loads
// .env.local first, so local development works without exporting anything.
type Config struct {
	Port           string   `env:"PORT,default=5050"`
	DatabaseURL    string   `env:"DATABASE_URL,required"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS,default=50"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST,default=100"`
	CORSOrigins    []string `env:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
