package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Problems that would silently
// produce a wrong collection (dedup without merging, a plan naming both an
// author and a series) fail here, before any assembly work begins.
func (c *Config) Validate() error {
	if err := c.validateKindle(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validatePlans()
}

func (c *Config) validateKindle() error {
	if c.Kindle.WordsPerPage <= 0 {
		return errors.New("kindle.words_per_page must be positive")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.Dedup && !c.Merge.Volumes {
		return errors.New("merge.dedup requires merge.volumes")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validatePlans() error {
	for i, plan := range c.Scheduled {
		label := fmt.Sprintf("scheduled[%d]", i)
		if (plan.Author == "") == (plan.Series == "") {
			return fmt.Errorf("%s: exactly one of author and series must be set", label)
		}
		if plan.PerYear < 1 || 12%plan.PerYear != 0 {
			return fmt.Errorf("%s: per_year must divide 12, got %d", label, plan.PerYear)
		}
		if plan.Offset < 1 || plan.Offset > 12 {
			return fmt.Errorf("%s: offset must be a month between 1 and 12, got %d", label, plan.Offset)
		}
		if plan.Skip < 0 {
			return fmt.Errorf("%s: skip must not be negative, got %d", label, plan.Skip)
		}
		if plan.Start < 0 || plan.Force < 0 {
			return fmt.Errorf("%s: years must not be negative", label)
		}
	}
	return nil
}
