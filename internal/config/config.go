// Package config provides configuration management for the starwars-api service.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "STARWARS"

// Config holds all configuration for the starwars-api service.
type Config struct {
	// Server settings
	Port            string
	ShutdownTimeout time.Duration

	// Database settings
	DatabaseURL    string
	MigrationsPath string

	// Dataset settings; empty SeedFile means the built-in dataset.
	SeedFile string

	// GraphQL settings
	MaxParallelism      int
	LoaderWait          time.Duration
	LoaderBatchCapacity int

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Flags registers every setting on fs with its default value.
func Flags(fs *pflag.FlagSet) {
	fs.String("port", "8000", "HTTP listen port.")
	fs.Duration("shutdown_timeout", 10*time.Second, "Grace period for in-flight requests on shutdown.")
	fs.String("database_url", "", "PostgreSQL connection string. Also read from DATABASE_URL.")
	fs.String("migrations_path", "./migrations", "Directory holding the SQL migrations.")
	fs.String("seed_file", "", "YAML dataset to serve instead of the built-in one.")
	fs.Int("max_parallelism", 20, "Maximum number of resolvers run in parallel per request.")
	fs.Duration("loader_wait", 2*time.Millisecond, "How long the credits loader collects keys before fetching.")
	fs.Int("loader_batch_capacity", 100, "Maximum number of keys per credits batch.")
	fs.String("log_level", "debug", "Log level: debug, info, warn, error.")
	fs.String("log_format", "console", "Log format: console or json.")
}

// NewViper returns a viper instance bound to fs and the environment.
// DATABASE_URL is honoured next to STARWARS_DATABASE_URL.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, errors.Wrap(err, "binding database_url")
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "binding flags")
		}
	}
	return v, nil
}

// ReadFile merges a YAML, TOML or JSON config file into v. Flags and
// environment variables still take precedence.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	return errors.Wrapf(v.ReadInConfig(), "reading config %s", path)
}

// Load reads configuration out of v.
func Load(v *viper.Viper) *Config {
	return &Config{
		Port:            v.GetString("port"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),

		DatabaseURL:    v.GetString("database_url"),
		MigrationsPath: v.GetString("migrations_path"),

		SeedFile: v.GetString("seed_file"),

		MaxParallelism:      v.GetInt("max_parallelism"),
		LoaderWait:          v.GetDuration("loader_wait"),
		LoaderBatchCapacity: v.GetInt("loader_batch_capacity"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}
}

// Validate reports the first setting that makes the service unable to start.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url is required (set DATABASE_URL)")
	}
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.MigrationsPath == "" {
		return errors.New("migrations_path is required")
	}
	if c.MaxParallelism <= 0 {
		return errors.Errorf("max_parallelism must be positive, got %d", c.MaxParallelism)
	}
	if c.LoaderBatchCapacity <= 0 {
		return errors.Errorf("loader_batch_capacity must be positive, got %d", c.LoaderBatchCapacity)
	}
	if c.LoaderWait <= 0 {
		return errors.Errorf("loader_wait must be positive, got %s", c.LoaderWait)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}
