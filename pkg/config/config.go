package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Ani07-05/brickdash/pkg/errors"
)

const envPrefix = "BRICKDASH"

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Auth     AuthConfig
	Features FeatureFlags
	Cron     CronConfig
}

type AppConfig struct {
	Name            string        `split_words:"true" default:"brickdash-api"`
	Env             string        `split_words:"true" default:"development"`
	Port            int           `split_words:"true" default:"8080"`
	LogLevel        string        `split_words:"true" default:"info"`
	ShutdownTimeout time.Duration `split_words:"true" default:"15s"`
}

type DBConfig struct {
	DSN string `split_words:"true"`

	Host     string `split_words:"true" default:"localhost"`
	Port     int    `split_words:"true" default:"5432"`
	User     string `split_words:"true" default:"brickdash"`
	Password string `split_words:"true"`
	Name     string `split_words:"true" default:"brickdash"`
	SSLMode  string `split_words:"true" default:"disable"`

	MaxOpenConns    int           `split_words:"true" default:"20"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"30m"`
	AutoMigrate     bool          `split_words:"true" default:"false"`
}

type RedisConfig struct {
	Addr     string `split_words:"true" default:"localhost:6379"`
	Password string `split_words:"true"`
	DB       int    `split_words:"true" default:"0"`
}

type JWTConfig struct {
	Secret     string        `split_words:"true"`
	Issuer     string        `split_words:"true" default:"brickdash"`
	AccessTTL  time.Duration `split_words:"true" default:"30m"`
	SessionTTL time.Duration `split_words:"true" default:"12h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `split_words:"true" default:"65536"`
	ArgonTime        int `split_words:"true" default:"3"`
	ArgonParallelism int `split_words:"true" default:"2"`
	ArgonSaltLen     int `split_words:"true" default:"16"`
	ArgonKeyLen      int `split_words:"true" default:"32"`
	MinLength        int `split_words:"true" default:"8"`
}

type AuthConfig struct {
	LoginRateLimit  int           `split_words:"true" default:"10"`
	LoginRateWindow time.Duration `split_words:"true" default:"1m"`
}

type FeatureFlags struct {
	UseSQLite     bool `split_words:"true" default:"false"`
	SeedOnStartup bool `split_words:"true" default:"false"`
}

type CronConfig struct {
	MetricsPort       int           `split_words:"true" default:"9091"`
	LogRetentionDays  int           `split_words:"true" default:"180"`
	LockTTL           time.Duration `split_words:"true" default:"5m"`
	InventoryLogSweep time.Duration `split_words:"true" default:"24h"`
	SalaryGeneration  time.Duration `split_words:"true" default:"24h"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present so local development does not need exported vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "process environment config")
	}

	cfg.ensureDSN()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ensureDSN assembles DB.DSN from the discrete host/port/user fields
// when it was not provided directly.
func (c *Config) ensureDSN() {
	if c.DB.DSN != "" {
		return
	}
	c.DB.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return errors.New(errors.CodeValidation, "BRICKDASH_JWT_SECRET is required in production")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return errors.New(errors.CodeValidation, "BRICKDASH_APP_PORT out of range")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}
