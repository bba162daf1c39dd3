// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Override adjusts a decoded configuration before it is validated.
type Override[T any] func(*T)

// Load loads configuration from a YAML file with environment variable expansion.
// Overrides run after decoding and before validation.
func Load[T any](filename string, target *T, overrides ...Override[T]) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return validate(target, overrides)
}

// LoadIfExists loads filename into target when the file exists. Otherwise
// target keeps its current values, which are still overridden and
// validated. It reports whether the file was read.
func LoadIfExists[T any](filename string, target *T, overrides ...Override[T]) (bool, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return false, validate(target, overrides)
	}
	return true, Load(filename, target, overrides...)
}

func validate[T any](target *T, overrides []Override[T]) error {
	for _, o := range overrides {
		o(target)
	}
	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
