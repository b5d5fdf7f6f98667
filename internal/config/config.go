package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable names, so decompose.workers
// is read from CONVEXIFY_DECOMPOSE_WORKERS.
const EnvPrefix = "CONVEXIFY"

// Config holds every setting of the command line tool and the server.
type Config struct {
	Decompose DecomposeConfig `mapstructure:"decompose"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type DecomposeConfig struct {
	// Report pieces that cannot be split instead of failing
	BestEffort bool `mapstructure:"best_effort"`
	// Number of pieces planned in parallel
	Workers int `mapstructure:"workers"`
	// Round limit, 0 for the default of 2n+16
	MaxDepth int `mapstructure:"max_depth"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	// yaml, json or text
	Format string `mapstructure:"format"`
	// Pixels per unit when rendering
	Scale float64 `mapstructure:"scale"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Largest accepted request body, in bytes
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
	// Largest accepted polygon
	MaxPoints int `mapstructure:"max_points"`
}

type CacheConfig struct {
	// Redis address. Caching is off when empty.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
	// How long results are kept, in minutes. 0 keeps them forever.
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

// TTL returns the cache expiry as a duration
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Decompose: DecomposeConfig{
			BestEffort: false,
			Workers:    1,
			MaxDepth:   0,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Output: OutputConfig{
			Format: "yaml",
			Scale:  20,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			MaxPoints:    10000,
		},
		Cache: CacheConfig{
			Prefix:     "convexify:",
			TTLMinutes: 60,
		},
	}
}

// SetDefaults registers the defaults with v, so that they show through
// wherever the file and the environment say nothing.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("decompose.best_effort", defaults.Decompose.BestEffort)
	v.SetDefault("decompose.workers", defaults.Decompose.Workers)
	v.SetDefault("decompose.max_depth", defaults.Decompose.MaxDepth)

	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.scale", defaults.Output.Scale)

	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)
	v.SetDefault("server.max_points", defaults.Server.MaxPoints)

	v.SetDefault("cache.addr", defaults.Cache.Addr)
	v.SetDefault("cache.password", defaults.Cache.Password)
	v.SetDefault("cache.db", defaults.Cache.DB)
	v.SetDefault("cache.prefix", defaults.Cache.Prefix)
	v.SetDefault("cache.ttl_minutes", defaults.Cache.TTLMinutes)
}

// New returns a viper instance with the defaults registered and environment
// variables bound. If file is not empty, it is read as well.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "reading config file")
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// LoadFile is New followed by Load
func LoadFile(file string) (*Config, error) {
	v, err := New(file)
	if err != nil {
		return nil, err
	}
	return Load(v)
}
