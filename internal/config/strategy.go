package config

import "github.com/leasewise/leasewise-cli/internal/core/domain"

// Strategy builds the confidence strategy selected by the config.
// Validate guarantees the policy name is known.
func (c *Config) Strategy() domain.ConfidenceStrategy {
	if c.Confidence.Policy == "graded" {
		return domain.GradedStrategy{
			High:   c.Confidence.High,
			Medium: c.Confidence.Medium,
		}
	}
	return domain.BinaryStrategy{Threshold: c.Confidence.Threshold}
}
