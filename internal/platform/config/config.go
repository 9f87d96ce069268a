// Package config loads service configuration from environment variables.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime configuration for the gallery service.
type Config struct {
	Port          string `env:"PORT, default=8080"`
	GinMode       string `env:"GIN_MODE, default=debug"`
	RunMigrations bool   `env:"RUN_MIGRATIONS, default=false"`

	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=gallery"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=gallery"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST, default=localhost"`
	Port     string `env:"REDIS_PORT, default=6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL, default=1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

// CloudinaryConfig holds credentials for the image hosting service.
type CloudinaryConfig struct {
	CloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string        `env:"CLOUDINARY_API_KEY"`
	APISecret string        `env:"CLOUDINARY_API_SECRET"`
	Timeout   time.Duration `env:"CLOUDINARY_TIMEOUT, default=30s"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
