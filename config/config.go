// Package config holds the construction-time configuration for the write
// manager: per-request timeout, retry parameters, and optional per-type
// payload schemas. All values are supplied by the embedding application;
// nothing here is read from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/c360/writeflow/pkg/retry"
)

// Default values applied by DefaultConfig
const (
	DefaultTimeout = 5 * time.Second
)

// Config configures a write manager
type Config struct {
	// Timeout bounds each write request, covering all retry attempts.
	// Zero disables the timeout middleware.
	Timeout time.Duration
	// Retry configures the inner retry loop. MaxAttempts <= 1 disables
	// retries.
	Retry retry.Config
	// PayloadSchemas optionally maps a request type to a JSON Schema
	// source. When a schema is present for a type, the request payload is
	// validated against it before routing; violations fail as invalid
	// requests.
	PayloadSchemas map[string]string
}

// DefaultConfig returns the documented defaults: a 5s request timeout and
// the retry package defaults (3 attempts, 100ms initial delay, 5s cap, 2.0
// multiplier, jitter on)
func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
		Retry:   retry.DefaultConfig(),
	}
}

// Validate checks the configuration for nonsensical values
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("config: Timeout cannot be negative")
	}
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.CompileSchemas(); err != nil {
		return err
	}
	return nil
}

// CompileSchemas compiles the configured payload schemas. Called once at
// manager construction so schema errors surface at startup, not per write.
func (c Config) CompileSchemas() (map[string]*gojsonschema.Schema, error) {
	if len(c.PayloadSchemas) == 0 {
		return nil, nil
	}
	compiled := make(map[string]*gojsonschema.Schema, len(c.PayloadSchemas))
	for typ, src := range c.PayloadSchemas {
		if typ == "" {
			return nil, errors.New("config: payload schema registered for empty type")
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("config: payload schema for type %q: %w", typ, err)
		}
		compiled[typ] = schema
	}
	return compiled, nil
}
