// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RuntimeNative launches steps as real OS processes.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs steps in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
)

var (
	// ErrInvalidRuntimeMode is the sentinel error wrapped by InvalidRuntimeModeError.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidWorkDir is returned when a workdir value is whitespace-only.
	ErrInvalidWorkDir = errors.New("invalid working directory")
)

type (
	// RuntimeMode selects the step execution backend.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not
	// recognized. It wraps ErrInvalidRuntimeMode for errors.Is compatibility.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// Config is the application configuration. Every field has a default;
	// flags override file values in the CLI layer.
	Config struct {
		// Filter is the default file name filter pattern.
		Filter string `mapstructure:"filter"`
		// Recurse descends into subdirectories by default.
		Recurse bool `mapstructure:"recurse"`
		// Collect captures per-file output into memory for reporting.
		Collect bool `mapstructure:"collect"`
		// WorkDir is the working directory commands run in. May contain
		// variable markers, in which case it is resolved per file.
		WorkDir string `mapstructure:"workdir"`
		// Runtime selects the step execution backend.
		Runtime RuntimeMode `mapstructure:"runtime"`

		// UI holds output settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds output settings.
	UIConfig struct {
		// Verbose enables verbose output.
		Verbose bool `mapstructure:"verbose"`
	}
)

// Error implements the error interface.
func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (must be %q or %q)",
		e.Value, RuntimeNative, RuntimeVirtual)
}

// Unwrap returns ErrInvalidRuntimeMode so callers can use errors.Is.
func (e *InvalidRuntimeModeError) Unwrap() error { return ErrInvalidRuntimeMode }

// IsValid reports whether the RuntimeMode is recognized.
func (m RuntimeMode) IsValid() bool {
	return m == RuntimeNative || m == RuntimeVirtual
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Filter:  "*",
		Runtime: RuntimeNative,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !c.Runtime.IsValid() {
		return &InvalidRuntimeModeError{Value: c.Runtime}
	}
	if c.WorkDir != "" && strings.TrimSpace(c.WorkDir) == "" {
		return fmt.Errorf("%w: whitespace-only", ErrInvalidWorkDir)
	}
	return nil
}
