// Package config loads recordctl settings with viper.
//
// Values come, in increasing precedence, from built-in defaults, an optional
// config file (YAML, TOML or JSON by extension), RECORDS_* environment
// variables and bound command line flags. Nested keys map to environment
// variables with dots replaced by underscores: paging.max_size is
// RECORDS_PAGING_MAX_SIZE.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/query"
)

// EnvPrefix prefixes every environment variable read.
const EnvPrefix = "RECORDS"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalidConfig is returned for settings that are present but unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration.
type Config struct {
	Database Database
	Paging   Paging
	Log      Log
}

// Database selects the driver and connection string.
type Database struct {
	Driver string
	DSN    string
}

// Paging mirrors paging.PageConfig.
type Paging struct {
	DefaultSize  int
	MaxSize      int
	StrictCursor bool
}

// Log configures the logrus logger.
type Log struct {
	Level  string
	Format string
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file:records.db")
	v.SetDefault("paging.default_size", paging.DefaultPageSize)
	v.SetDefault("paging.max_size", paging.DefaultMaxPageSize)
	v.SetDefault("paging.strict_cursor", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path, when path is not empty, and resolves
// the settings of v.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{
		Database: Database{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
		},
		Paging: Paging{
			DefaultSize:  v.GetInt("paging.default_size"),
			MaxSize:      v.GetInt("paging.max_size"),
			StrictCursor: v.GetBool("paging.strict_cursor"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.Wrapf(ErrInvalidConfig, "database.driver %q: want sqlite or postgres", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.Wrap(ErrInvalidConfig, "database.dsn is empty")
	}
	if c.Paging.DefaultSize < 1 || c.Paging.MaxSize < 1 {
		return errors.Wrap(ErrInvalidConfig, "paging sizes must be positive")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log.level: %v", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Wrapf(ErrInvalidConfig, "log.format %q: want text or json", c.Log.Format)
	}
	return nil
}

// PageConfig returns the paging policy.
func (c *Config) PageConfig() *paging.PageConfig {
	return paging.NewPageConfig().
		WithMaxSize(c.Paging.MaxSize).
		WithDefaultSize(c.Paging.DefaultSize).
		WithStrictCursor(c.Paging.StrictCursor)
}

// Dialect returns the SQL dialect of the configured driver.
func (d Database) Dialect() query.Dialect {
	if d.Driver == DriverPostgres {
		return query.Postgres
	}
	return query.SQLite
}

// Placeholder returns the bind syntax of the configured driver.
func (d Database) Placeholder() query.Placeholder {
	return d.Dialect().Placeholder()
}

// Logger builds a logger writing to out, or stderr when out is nil.
func (c *Config) Logger(out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(out)
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(level)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return l
}
