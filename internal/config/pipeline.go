package config

import (
	"fmt"

	"github.com/festy23/aidev_cohorts/internal/cohort/split"
)

// PipelineConfig holds switches of the cohort pipeline.
type PipelineConfig struct {
	// SourceSchema selects how origin is read (auto, explicit, flag).
	SourceSchema string
	// BackfillEnabled allows fetching human pull requests from GitHub.
	BackfillEnabled bool
	// BackfillConcurrency bounds repositories fetched in parallel.
	BackfillConcurrency int
	// BackfillFailFast aborts the run on the first repository failure.
	BackfillFailFast bool
}

// LoadPipelineConfigFromEnv loads pipeline configuration from environment variables.
func LoadPipelineConfigFromEnv() PipelineConfig {
	return PipelineConfig{
		SourceSchema:        GetEnv("SOURCE_SCHEMA", split.SchemaAuto),
		BackfillEnabled:     GetEnvBool("BACKFILL_ENABLED", true),
		BackfillConcurrency: GetEnvInt("BACKFILL_CONCURRENCY", 4),
		BackfillFailFast:    GetEnvBool("BACKFILL_FAIL_FAST", false),
	}
}

// Validate validates pipeline configuration.
func (c PipelineConfig) Validate() error {
	switch c.SourceSchema {
	case split.SchemaAuto, split.SchemaExplicit, split.SchemaFlag:
	default:
		return fmt.Errorf("invalid SOURCE_SCHEMA: %s (must be: auto, explicit, flag)", c.SourceSchema)
	}
	if c.BackfillConcurrency <= 0 {
		return fmt.Errorf("BACKFILL_CONCURRENCY must be greater than 0")
	}
	return nil
}
