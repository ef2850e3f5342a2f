package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Template backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Library sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Templates TemplatesConfig `yaml:"templates"`
	Library   LibraryConfig   `yaml:"library"`
	Generator GeneratorConfig `yaml:"generator"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig is optional; an empty host means no PostgreSQL.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TemplatesConfig struct {
	Backend   string `yaml:"backend"`
	SQLiteDir string `yaml:"sqlite_dir"`
	MaxBytes  int    `yaml:"max_bytes"`
}

type LibraryConfig struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

type GeneratorConfig struct {
	// Seed fixes the random sequence; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Enabled reports whether a PostgreSQL database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, applies defaults, then environment
// variable overrides. Env vars use the prefix WORKOUTGEN_:
//
//	WORKOUTGEN_SERVER_HOST, WORKOUTGEN_SERVER_PORT,
//	WORKOUTGEN_DB_HOST, WORKOUTGEN_DB_PORT, WORKOUTGEN_DB_NAME,
//	WORKOUTGEN_DB_USER, WORKOUTGEN_DB_PASSWORD, WORKOUTGEN_DB_SSLMODE,
//	WORKOUTGEN_TEMPLATES_BACKEND, WORKOUTGEN_TEMPLATES_SQLITE_DIR,
//	WORKOUTGEN_LIBRARY_PATH, WORKOUTGEN_LIBRARY_SOURCE,
//	WORKOUTGEN_GENERATOR_SEED, WORKOUTGEN_AUTH_API_KEY,
//	WORKOUTGEN_TAILSCALE_ENABLED, WORKOUTGEN_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Templates.Backend == "" {
		cfg.Templates.Backend = BackendSQLite
	}
	if cfg.Templates.SQLiteDir == "" {
		cfg.Templates.SQLiteDir = "data"
	}
	if cfg.Library.Source == "" {
		cfg.Library.Source = SourceFile
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "workoutgen"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WORKOUTGEN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("WORKOUTGEN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("WORKOUTGEN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("WORKOUTGEN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("WORKOUTGEN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("WORKOUTGEN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("WORKOUTGEN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("WORKOUTGEN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("WORKOUTGEN_TEMPLATES_BACKEND"); v != "" {
		cfg.Templates.Backend = v
	}
	if v := os.Getenv("WORKOUTGEN_TEMPLATES_SQLITE_DIR"); v != "" {
		cfg.Templates.SQLiteDir = v
	}
	if v := os.Getenv("WORKOUTGEN_LIBRARY_PATH"); v != "" {
		cfg.Library.Path = v
	}
	if v := os.Getenv("WORKOUTGEN_LIBRARY_SOURCE"); v != "" {
		cfg.Library.Source = v
	}
	if v := os.Getenv("WORKOUTGEN_GENERATOR_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Generator.Seed = seed
		}
	}
	if v := os.Getenv("WORKOUTGEN_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("WORKOUTGEN_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("WORKOUTGEN_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Database.Enabled() {
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	}

	switch c.Templates.Backend {
	case BackendSQLite, BackendMemory:
	case BackendPostgres:
		if !c.Database.Enabled() {
			return fmt.Errorf("templates.backend %q requires database.host", BackendPostgres)
		}
	default:
		return fmt.Errorf("templates.backend %q is not one of sqlite, postgres, memory", c.Templates.Backend)
	}
	if c.Templates.MaxBytes < 0 {
		return fmt.Errorf("templates.max_bytes must not be negative")
	}

	switch c.Library.Source {
	case SourceFile:
		if c.Library.Path == "" {
			return fmt.Errorf("library.path is required")
		}
	case SourcePostgres:
		if !c.Database.Enabled() {
			return fmt.Errorf("library.source %q requires database.host", SourcePostgres)
		}
	default:
		return fmt.Errorf("library.source %q is not one of file, postgres", c.Library.Source)
	}
	return nil
}
