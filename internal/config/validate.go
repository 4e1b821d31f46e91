package config

import (
	"fmt"
	"strings"
)

// Validate checks invariants that normalization cannot repair.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("config: paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("config: paths.log_dir must not be empty")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not recognized", c.Logging.Level)
	}
	if c.Mux.MaxParallelJobs > 64 {
		return fmt.Errorf("config: mux.max_parallel_jobs %d is unreasonably large", c.Mux.MaxParallelJobs)
	}
	return nil
}
