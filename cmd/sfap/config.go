package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sfap/pkg/logger"
	"github.com/dmitrymomot/sfap/pkg/transport"
)

var (
	ErrReadConfig    = errors.New("sfap: read config file")
	ErrParseConfig   = errors.New("sfap: parse config")
	ErrInvalidConfig = errors.New("sfap: invalid config")
)

// Source kinds.
const (
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config is the CLI configuration. Values come from defaults, then the YAML
// file, then environment variables, then flags.
type Config struct {
	Name     string                   `yaml:"name" env:"SFAP_NAME"`
	Location string                   `yaml:"location" env:"SFAP_LOCATION"`
	Debug    bool                     `yaml:"debug" env:"SFAP_DEBUG"`
	Log      LogConfig                `yaml:"log"`
	Source   SourceConfig             `yaml:"source"`
	Server   ServerConfig             `yaml:"server"`
	Sentry   logger.SentryConfig      `yaml:"sentry"`
	Postgres transport.PostgresConfig `yaml:"postgres"`
	Redis    transport.RedisConfig    `yaml:"redis"`
	S3       transport.S3Config       `yaml:"s3"`
	Routes   []RouteConfig            `yaml:"routes"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" env:"SFAP_LOG_LEVEL" envDefault:"info"`
	Format string `yaml:"format" env:"SFAP_LOG_FORMAT" envDefault:"json"`
}

// SourceConfig selects where views and modules are read from.
type SourceConfig struct {
	Kind string `yaml:"kind" env:"SFAP_SOURCE" envDefault:"dir"`
	Dir  string `yaml:"dir" env:"SFAP_SOURCE_DIR" envDefault:"."`
	URL  string `yaml:"url" env:"SFAP_SOURCE_URL"`
	// Cache puts a Redis cache in front of the source.
	Cache bool `yaml:"cache" env:"SFAP_SOURCE_CACHE"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Address         string        `yaml:"address" env:"SFAP_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SFAP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Metrics         bool          `yaml:"metrics" env:"SFAP_METRICS" envDefault:"true"`
}

// RouteConfig maps a path pattern to the view the dispatch command renders.
type RouteConfig struct {
	Pattern string `yaml:"pattern"`
	View    string `yaml:"view"`
}

// LoadConfig reads path (optional) and overlays environ. A nil environ means
// the process environment.
func LoadConfig(path string, environ map[string]string) (Config, error) {
	var cfg Config

	// Defaults only.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return cfg, errors.Join(ErrParseConfig, err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Join(ErrReadConfig, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Join(ErrParseConfig, err)
		}
	}

	// Set variables only; defaults must not override the file. Routes are
	// file-only.
	routes := cfg.Routes
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment:         environ,
		DefaultValueTagName: "-",
	}); err != nil {
		return cfg, errors.Join(ErrParseConfig, err)
	}
	cfg.Routes = routes

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Source.Kind {
	case SourceDir, SourceS3, SourcePostgres:
	case SourceHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("%w: source.url is required for the http source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	for i, rt := range c.Routes {
		if rt.Pattern == "" || rt.View == "" {
			return fmt.Errorf("%w: routes[%d] needs pattern and view", ErrInvalidConfig, i)
		}
	}
	return nil
}
