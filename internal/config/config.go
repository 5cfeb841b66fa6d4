// Package config provides environment configuration helpers and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// MinTokenSecretLength is the minimum accepted length for TOKEN_SECRET.
// Short HMAC secrets make forged session tokens feasible.
const MinTokenSecretLength = 32

// ValidateEnv verifies that all required environment variables are set.
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, name := range requiredVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateTokenSecret ensures the session signing secret is present and not
// trivially guessable. The secret is never hardcoded; it always comes from
// the environment.
func ValidateTokenSecret() error {
	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		return errors.New("TOKEN_SECRET is required")
	}
	if len(secret) < MinTokenSecretLength {
		return fmt.Errorf("TOKEN_SECRET must be at least %d characters", MinTokenSecretLength)
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration parses a duration environment variable or returns a default.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// MustGetEnv retrieves an environment variable or panics.
func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}
