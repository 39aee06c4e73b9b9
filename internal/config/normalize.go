package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVision(); err != nil {
		return err
	}
	if err := c.normalizePreprocessing(); err != nil {
		return err
	}
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputCSV, err = expandPath(c.Paths.OutputCSV); err != nil {
		return fmt.Errorf("paths.output_csv: %w", err)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVision() error {
	c.Vision.Provider = strings.ToLower(strings.TrimSpace(c.Vision.Provider))
	if c.Vision.Provider == "" {
		c.Vision.Provider = defaultVisionProvider
	}
	c.Vision.BaseURL = strings.TrimRight(strings.TrimSpace(c.Vision.BaseURL), "/")
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	if c.Vision.APIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			c.Vision.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("GOOGLE_API_KEY"); ok {
			c.Vision.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Vision.TimeoutSeconds <= 0 {
		c.Vision.TimeoutSeconds = defaultVisionTimeout
	}
	return nil
}

func (c *Config) normalizePreprocessing() error {
	var err error
	c.Preprocessing.Preset = strings.ToLower(strings.TrimSpace(c.Preprocessing.Preset))
	if c.Preprocessing.Preset == "" {
		c.Preprocessing.Preset = defaultPreset
	}
	if c.Preprocessing.IntermediateDir != "" {
		if c.Preprocessing.IntermediateDir, err = expandPath(c.Preprocessing.IntermediateDir); err != nil {
			return fmt.Errorf("preprocessing.intermediate_dir: %w", err)
		}
	}
	if c.Preprocessing.ProcessedImageDir != "" {
		if c.Preprocessing.ProcessedImageDir, err = expandPath(c.Preprocessing.ProcessedImageDir); err != nil {
			return fmt.Errorf("preprocessing.processed_image_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWatch() {
	if c.Watch.IntervalSeconds <= 0 {
		c.Watch.IntervalSeconds = defaultWatchInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
