package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vocabscan/internal/preprocess"
	"vocabscan/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and state file locations.
type Paths struct {
	InputDir   string `toml:"input_dir"`
	OutputCSV  string `toml:"output_csv"`
	LedgerPath string `toml:"ledger_path"`
	LogDir     string `toml:"log_dir"`
}

// Vision contains connection settings for the language-vision backend.
type Vision struct {
	Provider       string `toml:"provider"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Preprocessing selects a pipeline preset and optional per-field overrides.
// Pointer fields distinguish "not set" from an explicit zero so a user can
// override single knobs without restating the whole preset.
type Preprocessing struct {
	Preset string `toml:"preset"`

	Enabled        *bool `toml:"enabled"`
	Resize         *bool `toml:"resize"`
	Contrast       *bool `toml:"contrast"`
	NoiseReduction *bool `toml:"noise_reduction"`
	Sharpening     *bool `toml:"sharpening"`
	Compression    *bool `toml:"compression"`

	MaxWidth             *int     `toml:"max_width"`
	MaxHeight            *int     `toml:"max_height"`
	ContrastFactor       *float64 `toml:"contrast_factor"`
	NoiseReductionRadius *float64 `toml:"noise_reduction_radius"`
	SharpeningFactor     *float64 `toml:"sharpening_factor"`
	JPEGQuality          *int     `toml:"jpeg_quality"`
	OutputFormat         *string  `toml:"output_format"`

	SaveIntermediateSteps *bool  `toml:"save_intermediate_steps"`
	SaveProcessedImage    *bool  `toml:"save_processed_image"`
	IntermediateDir       string `toml:"intermediate_dir"`
	ProcessedImageDir     string `toml:"processed_image_dir"`
}

// Watch contains configuration for continuous directory rescanning.
type Watch struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vocabscan.
//
// Configuration sections by subsystem:
//   - Paths: input directory, CSV destination, ledger and log locations
//   - Vision: backend provider selection and connection settings
//   - Preprocessing: pipeline preset plus per-field overrides
//   - Watch: rescan interval for continuous mode
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Vision        Vision        `toml:"vision"`
	Preprocessing Preprocessing `toml:"preprocessing"`
	Watch         Watch         `toml:"watch"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vocabscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Validation failures
// carry the configuration error marker.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, services.Wrap(services.ErrConfig, "config", "load", "resolve config path", err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfig, "config", "load", "open config", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfig, "config", "load", "parse config", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfig, "config", "load", "normalize config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfig, "config", "load", "validate config", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/vocabscan/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vocabscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. The input
// directory is created as well so a fresh install has somewhere to drop
// scans.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.InputDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.OutputCSV),
		filepath.Dir(c.Paths.LedgerPath),
	}
	if c.Preprocessing.IntermediateDir != "" {
		dirs = append(dirs, c.Preprocessing.IntermediateDir)
	}
	if c.Preprocessing.ProcessedImageDir != "" {
		dirs = append(dirs, c.Preprocessing.ProcessedImageDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PreprocessConfig resolves the preset and overrides into an effective
// pipeline configuration. Assumes normalize has run.
func (c *Config) PreprocessConfig() (preprocess.Config, error) {
	base, ok := preprocess.Preset(c.Preprocessing.Preset)
	if !ok {
		return preprocess.Config{}, fmt.Errorf("unknown preprocessing preset %q (available: %s)",
			c.Preprocessing.Preset, strings.Join(preprocess.PresetNames(), ", "))
	}

	p := c.Preprocessing
	if p.Enabled != nil {
		base.EnablePreprocessing = *p.Enabled
	}
	if p.Resize != nil {
		base.EnableResize = *p.Resize
	}
	if p.Contrast != nil {
		base.EnableContrast = *p.Contrast
	}
	if p.NoiseReduction != nil {
		base.EnableNoiseReduction = *p.NoiseReduction
	}
	if p.Sharpening != nil {
		base.EnableSharpening = *p.Sharpening
	}
	if p.Compression != nil {
		base.EnableCompression = *p.Compression
	}
	if p.MaxWidth != nil {
		base.MaxWidth = *p.MaxWidth
	}
	if p.MaxHeight != nil {
		base.MaxHeight = *p.MaxHeight
	}
	if p.ContrastFactor != nil {
		base.ContrastFactor = *p.ContrastFactor
	}
	if p.NoiseReductionRadius != nil {
		base.NoiseReductionRadius = *p.NoiseReductionRadius
	}
	if p.SharpeningFactor != nil {
		base.SharpeningFactor = *p.SharpeningFactor
	}
	if p.JPEGQuality != nil {
		base.JPEGQuality = *p.JPEGQuality
	}
	if p.OutputFormat != nil {
		format, err := preprocess.ParseFormat(*p.OutputFormat)
		if err != nil {
			return preprocess.Config{}, fmt.Errorf("preprocessing.output_format: %w", err)
		}
		base.OutputFormat = format
	}
	if p.SaveIntermediateSteps != nil {
		base.SaveIntermediateSteps = *p.SaveIntermediateSteps
	}
	if p.SaveProcessedImage != nil {
		base.SaveProcessedImage = *p.SaveProcessedImage
	}
	base.IntermediateDir = p.IntermediateDir
	base.ProcessedImageDir = p.ProcessedImageDir

	// Presets that save processed copies need a destination even when the
	// user did not set one.
	if base.SaveProcessedImage && base.ProcessedImageDir == "" {
		base.ProcessedImageDir = filepath.Join(filepath.Dir(c.Paths.LedgerPath), "processed")
	}
	if base.SaveIntermediateSteps && base.IntermediateDir == "" {
		base.IntermediateDir = filepath.Join(filepath.Dir(c.Paths.LedgerPath), "intermediate")
	}

	if err := base.Validate(); err != nil {
		return preprocess.Config{}, err
	}
	return base, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
