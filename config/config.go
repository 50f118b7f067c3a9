package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// InsecureDefaultSecret is the placeholder secret older deployments shipped with.
// It is refused at startup.
const InsecureDefaultSecret = "your-secret-key-change-in-production"

var ErrMissingSecret = errors.New("jwt secret is not configured (set JWT_SECRET)")

type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

type Config struct {
	Mode string    `mapstructure:"mode"`
	JWT  JWTConfig `mapstructure:"jwt"`
	Auth struct {
		PasswordHasher string `mapstructure:"passwordHasher"`
		BcryptCost     int    `mapstructure:"bcryptCost"`
	} `mapstructure:"auth"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			URL               string `mapstructure:"url"`
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort          string        `mapstructure:"HTTPPort"`
		Timeout           time.Duration `mapstructure:"HTTPTimeout"`
		StaticDir         string        `mapstructure:"staticDir"`
		ExposeErrorDetail bool          `mapstructure:"exposeErrorDetail"`
	} `mapstructure:"server"`
}

// env variables that override file values
var envBindings = map[string]string{
	"mode":                           "APP_ENV",
	"jwt.secretKey":                  "JWT_SECRET",
	"jwt.tokenTTL":                   "JWT_TOKEN_TTL",
	"auth.passwordHasher":            "PASSWORD_HASHER",
	"server.HTTPPort":                "HTTP_PORT",
	"server.staticDir":               "STATIC_DIR",
	"server.exposeErrorDetail":       "EXPOSE_ERROR_DETAIL",
	"repositories.postgres.url":      "DATABASE_URL",
	"repositories.postgres.host":     "POSTGRES_HOST",
	"repositories.postgres.port":     "POSTGRES_PORT",
	"repositories.postgres.username": "POSTGRES_USER",
	"repositories.postgres.password": "POSTGRES_PASSWORD",
	"repositories.postgres.db":       "POSTGRES_DB",
	"handlers.prometheus.port":       "METRICS_PORT",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.JWT.SecretKey)
	if secret == "" {
		return ErrMissingSecret
	}
	if secret == InsecureDefaultSecret {
		return fmt.Errorf("jwt secret is set to the insecure placeholder: %w", ErrMissingSecret)
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("jwt.tokenTTL must be positive, got %s", c.JWT.TokenTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.Mode == "production"
}
