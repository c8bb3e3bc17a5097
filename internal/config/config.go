package config

import (
	"fmt"
	"os"
)

// Config carries everything the server needs from the environment. It is
// built once in main and handed to the database connector, the handlers and
// the auth middleware, so there is no process-wide mutable state.
type Config struct {
	DatabaseURL string
	JWTSecret   []byte
	Port        string
	UploadDir   string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		Port:        os.Getenv("PORT"),
		UploadDir:   os.Getenv("UPLOAD_DIR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}

	return cfg, nil
}
