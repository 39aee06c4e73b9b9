package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validatePreprocessing(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputCSV) == "" {
		return errors.New("paths.output_csv must be set")
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateVision() error {
	switch c.Vision.Provider {
	case "ollama":
		if c.Vision.BaseURL == "" {
			return errors.New("vision.base_url must be set when vision.provider is \"ollama\"")
		}
	case "gemini":
		if c.Vision.APIKey == "" {
			return errors.New("vision.api_key must be set when vision.provider is \"gemini\" (or set GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("vision.provider must be \"ollama\" or \"gemini\", got %q", c.Vision.Provider)
	}
	if c.Vision.Model == "" {
		return errors.New("vision.model must be set")
	}
	if c.Vision.TimeoutSeconds <= 0 {
		return errors.New("vision.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePreprocessing() error {
	if _, err := c.PreprocessConfig(); err != nil {
		return err
	}
	return nil
}
