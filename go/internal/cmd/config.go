package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/teamgraph/go/internal/events"
)

// listenAddr is fixed; clients are configured against port 4000.
const listenAddr = ":4000"

type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	GraphQL struct {
		GraphiQL       bool `yaml:"graphiql"`
		MaxDepth       int  `yaml:"max_depth"`
		MaxParallelism int  `yaml:"max_parallelism"`
	} `yaml:"graphql"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.GraphQL.GraphiQL = true
	cfg.GraphQL.MaxDepth = 10
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.NATS.SubjectPrefix = events.DefaultNATSConfig().SubjectPrefix
	cfg.ShutdownTimeout = 10 * time.Second
	return cfg
}

// loadConfig layers an optional YAML file and then the environment over the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(config)
	return config, nil
}

func applyEnv(config *Config) {
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnv("LOG_FORMAT", config.Log.Format)
	config.GraphQL.GraphiQL = getEnvAsBool("GRAPHIQL", config.GraphQL.GraphiQL)
	config.GraphQL.MaxDepth = getEnvAsInt("GRAPHQL_MAX_DEPTH", config.GraphQL.MaxDepth)
	config.NATS.URL = getEnv("NATS_URL", config.NATS.URL)
	config.NATS.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", config.NATS.SubjectPrefix)
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(config *Config, out io.Writer) error {
	level, err := zerolog.ParseLevel(config.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Log.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	switch config.Log.Format {
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	case "json":
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	default:
		return fmt.Errorf("invalid log format %q", config.Log.Format)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
