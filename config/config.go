/*
config.go - Process configuration

PURPOSE:
  Loads configuration from the environment, with a .env file picked up
  for local development. Environment variables win over .env values.

VARIABLES (prefix BACKOFFICE_):
  BACKOFFICE_PORT             HTTP port (default 8080)
  BACKOFFICE_DB_PATH          SQLite path; empty runs the in-memory store
  BACKOFFICE_ALLOWED_ORIGINS  Comma-separated CORS origins
  BACKOFFICE_DEFAULT_USER_ID  Attribution fallback for unattributed writes
*/
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int      `envconfig:"PORT" default:"8080"`
	DBPath         string   `envconfig:"DB_PATH" default:""`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
	DefaultUserID  int64    `envconfig:"DEFAULT_USER_ID" default:"1"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("BACKOFFICE", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
