// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"

	"account_backend/internal/platform/db"
	"account_backend/internal/platform/logger"
	"account_backend/internal/platform/redis"
)

// Config is the full service configuration.
type Config struct {
	Port    string `env:"PORT" envDefault:"3333"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"15m"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`

	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	SigninRateLimit  int           `env:"SIGNIN_RATE_LIMIT" envDefault:"10"`
	SigninRateWindow time.Duration `env:"SIGNIN_RATE_WINDOW" envDefault:"1m"`

	DB    db.Config
	Redis redis.Config
	Log   logger.Config
}

// Load reads an optional .env file from the working directory and parses the
// environment into a Config. Variables already set take precedence over .env.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv paths. Missing files are ignored.
func LoadFiles(paths ...string) (*Config, error) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrapf(err, "load %s", p)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "parse environment")
	}
	return &cfg, nil
}
