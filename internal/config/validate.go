package config

import (
	"fmt"
	"slices"
)

// maxBatchSize keeps one multi-row dict_entries INSERT (8 columns) under
// the postgres limit of 65535 bind parameters.
const maxBatchSize = 65535 / 8

var (
	formats   = []string{"kobo", "text"}
	sortModes = []string{"priority", "length"}
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Sources.JMdict == "" {
		return fmt.Errorf("sources.jmdict is required")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	if !slices.Contains(formats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v (got %q)", formats, c.Output.Format)
	}
	if c.Build.SortMode != "" && !slices.Contains(sortModes, c.Build.SortMode) {
		return fmt.Errorf("build.sort_mode must be one of %v (got %q)", sortModes, c.Build.SortMode)
	}
	if c.Build.Workers < 0 {
		return fmt.Errorf("build.workers must be >= 0 (got %d)", c.Build.Workers)
	}

	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	if !d.Export {
		return nil
	}
	if d.DSN == "" {
		return fmt.Errorf("dsn is required when export is enabled")
	}
	if d.BatchSize <= 0 || d.BatchSize > maxBatchSize {
		return fmt.Errorf("batch_size must be in 1..%d (got %d)", maxBatchSize, d.BatchSize)
	}
	if d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns (%d) exceeds max_conns (%d)", d.MinConns, d.MaxConns)
	}
	return nil
}
