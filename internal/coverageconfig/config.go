// Package coverageconfig loads the engine's JSON-backed tuning knobs, in the
// same pointer-field / documented-default style as internal/config's
// TuningConfig: fields omitted from the JSON file fall back to a
// well-documented default via a Get* accessor, so partial configs are safe.
package coverageconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root engine configuration.
type Config struct {
	// MaxTimeGapNanos bounds how wide a hole between two bracketing frames
	// may be before a seek reports Miss instead of loading them.
	MaxTimeGapNanos *int64 `json:"max_time_gap_nanos,omitempty"`
	// InterpolationAllowed toggles whether loaded rasters are blended or
	// nearest-neighbor-wrapped.
	InterpolationAllowed *bool `json:"interpolation_allowed,omitempty"`
	// EventLogPath is where the load-event log's SQLite database lives.
	EventLogPath *string `json:"event_log_path,omitempty"`
	// DebugListenAddr, if non-empty, serves the admin/debug routes on this
	// address. Empty disables the debug server.
	DebugListenAddr *string `json:"debug_listen_addr,omitempty"`
}

func ptrInt64(v int64) *int64   { return &v }
func ptrBool(v bool) *bool      { return &v }
func ptrString(v string) *string { return &v }

// Empty returns a Config with every field nil; Get* accessors fall back to
// documented defaults.
func Empty() *Config { return &Config{} }

// Default returns a Config with every field explicitly set to its documented default.
func Default() *Config {
	return &Config{
		MaxTimeGapNanos:      ptrInt64(0),
		InterpolationAllowed: ptrBool(true),
		EventLogPath:         ptrString("coverage-events.db"),
		DebugListenAddr:      ptrString(""),
	}
}

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// Load reads and validates a Config from a JSON file. The path must end in
// .json and the file must be under 1MB. Fields omitted from the JSON retain
// their documented defaults via the Get* accessors.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("coverageconfig: config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("coverageconfig: failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("coverageconfig: config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("coverageconfig: failed to read config file: %w", err)
	}

	cfg := Empty()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("coverageconfig: failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("coverageconfig: invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that any set fields hold sane values.
func (c *Config) Validate() error {
	if c.MaxTimeGapNanos != nil && *c.MaxTimeGapNanos < 0 {
		return fmt.Errorf("max_time_gap_nanos must be non-negative, got %d", *c.MaxTimeGapNanos)
	}
	return nil
}

// GetMaxTimeGap returns the configured max time gap as a Duration, defaulting to 0.
func (c *Config) GetMaxTimeGap() time.Duration {
	if c.MaxTimeGapNanos == nil {
		return 0
	}
	return time.Duration(*c.MaxTimeGapNanos)
}

// GetInterpolationAllowed returns the configured interpolation policy, defaulting to true.
func (c *Config) GetInterpolationAllowed() bool {
	if c.InterpolationAllowed == nil {
		return true
	}
	return *c.InterpolationAllowed
}

// GetEventLogPath returns the configured event log path, defaulting to "coverage-events.db".
func (c *Config) GetEventLogPath() string {
	if c.EventLogPath == nil || *c.EventLogPath == "" {
		return "coverage-events.db"
	}
	return *c.EventLogPath
}

// GetDebugListenAddr returns the configured debug listen address, defaulting to "" (disabled).
func (c *Config) GetDebugListenAddr() string {
	if c.DebugListenAddr == nil {
		return ""
	}
	return *c.DebugListenAddr
}
