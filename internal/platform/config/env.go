// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable the commands read.
const EnvPrefix = "BATTLEBOT_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// NonNegative returns an error naming field when d is negative.
func NonNegative(field string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must not be negative, got %s", field, d)
	}
	return nil
}

// Positive returns an error naming field when d is not positive.
func Positive(field string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", field, d)
	}
	return nil
}
