package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the runtime settings of the events API.
type Config struct {
	Addr           string `koanf:"addr"`
	MongoConnURI   string `koanf:"mongo_conn_uri"`
	MongoDatabase  string `koanf:"mongo_database"`
	JWTSecret      string `koanf:"jwt_secret"`
	SendGridAPIKey string `koanf:"sendgrid_api_key"`
	SendGridSender string `koanf:"sendgrid_sender"`
	CORSOrigin     string `koanf:"cors_origin"`
	TraceMode      bool   `koanf:"trace_mode"`
	LogLevel       string `koanf:"log_level"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Addr:          ":4000",
		MongoConnURI:  "mongodb://127.0.0.1:27017",
		MongoDatabase: "campuslink",
		CORSOrigin:    "http://localhost:3001",
		LogLevel:      "info",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVENTS_CONFIG is set
//  3. env (prefix EVENTS_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("EVENTS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: EVENTS_ADDR, EVENTS_MONGO_CONN_URI, ...
	// Preserve underscores to match the koanf tags on the struct.
	envProvider := env.Provider("EVENTS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "events_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret must not be empty")
	}
	return &cfg, nil
}
