package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Operator is a console account. Accounts live in configuration rather
// than a database: every domain entity is owned by the delivery backend
// and the gateway keeps no storage of its own.
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	KitchenID    uuid.UUID `json:"kitchen_id"`
	Role         string    `json:"role"`
}

type Config struct {
	Port            string
	UpstreamURL     string
	UpstreamTimeout time.Duration
	JWTSecret       string
	Operators       []Operator
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8082"),
		UpstreamURL:     getEnv("UPSTREAM_URL", "http://localhost:9000/api/v1"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 15)) * time.Second,
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
	}

	if raw := os.Getenv("OPERATORS"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.Operators); err != nil {
			return nil, fmt.Errorf("parse OPERATORS: %w", err)
		}
		for i := range cfg.Operators {
			if cfg.Operators[i].ID == uuid.Nil {
				cfg.Operators[i].ID = uuid.New()
			}
		}
	}

	return cfg, nil
}

// OperatorByEmail looks up a configured account; ok is false when the
// email is unknown.
func (c *Config) OperatorByEmail(email string) (Operator, bool) {
	for _, op := range c.Operators {
		if op.Email == email {
			return op, true
		}
	}
	return Operator{}, false
}

// OperatorByID looks up a configured account by its ID.
func (c *Config) OperatorByID(id uuid.UUID) (Operator, bool) {
	for _, op := range c.Operators {
		if op.ID == id {
			return op, true
		}
	}
	return Operator{}, false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
