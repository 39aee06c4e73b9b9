package preprocess

import (
	"fmt"
	"sort"
	"strings"

	"vocabscan/internal/services"
)

// Format selects the encoding applied by the final pipeline stage.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// ParseFormat normalizes a user-supplied output format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", value)
	}
}

// Config describes which preprocessing stages run and with what strength.
// A Config is validated once at construction time and treated as read-only
// input to every pipeline invocation for the rest of the run.
type Config struct {
	EnablePreprocessing  bool
	EnableResize         bool
	EnableContrast       bool
	EnableNoiseReduction bool
	EnableSharpening     bool
	EnableCompression    bool

	MaxWidth             int
	MaxHeight            int
	ContrastFactor       float64
	NoiseReductionRadius float64
	SharpeningFactor     float64
	JPEGQuality          int
	OutputFormat         Format

	SaveIntermediateSteps bool
	SaveProcessedImage    bool
	IntermediateDir       string
	ProcessedImageDir     string
}

// Validate checks every numeric parameter against its allowed range.
// Violations are tagged with the configuration error marker.
func (c Config) Validate() error {
	fail := func(msg string) error {
		return services.Wrap(services.ErrConfig, "preprocess", "validate", msg, nil)
	}
	if c.MaxWidth <= 0 {
		return fail(fmt.Sprintf("max_width must be positive, got %d", c.MaxWidth))
	}
	if c.MaxHeight <= 0 {
		return fail(fmt.Sprintf("max_height must be positive, got %d", c.MaxHeight))
	}
	if c.ContrastFactor < 0 {
		return fail(fmt.Sprintf("contrast_factor must not be negative, got %g", c.ContrastFactor))
	}
	if c.NoiseReductionRadius < 0 {
		return fail(fmt.Sprintf("noise_reduction_radius must not be negative, got %g", c.NoiseReductionRadius))
	}
	if c.SharpeningFactor < 0 {
		return fail(fmt.Sprintf("sharpening_factor must not be negative, got %g", c.SharpeningFactor))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fail(fmt.Sprintf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality))
	}
	switch c.OutputFormat {
	case FormatJPEG, FormatPNG:
	default:
		return fail(fmt.Sprintf("output_format must be jpeg or png, got %q", c.OutputFormat))
	}
	if c.SaveIntermediateSteps && strings.TrimSpace(c.IntermediateDir) == "" {
		return fail("intermediate_dir required when save_intermediate_steps is enabled")
	}
	if c.SaveProcessedImage && strings.TrimSpace(c.ProcessedImageDir) == "" {
		return fail("processed_image_dir required when save_processed_image is enabled")
	}
	return nil
}

// Warnings reports accepted-but-suspicious parameter values. A contrast
// factor above 2.0 tends to blow out scanned text into solid blobs.
func (c Config) Warnings() []string {
	var warnings []string
	if c.EnableContrast && c.ContrastFactor > 2.0 {
		warnings = append(warnings, fmt.Sprintf("contrast_factor %g exceeds 2.0 and may introduce artifacts", c.ContrastFactor))
	}
	return warnings
}

// Default returns the baseline configuration: every stage enabled with
// conservative strengths and lossless PNG output.
func Default() Config {
	return Config{
		EnablePreprocessing:  true,
		EnableResize:         true,
		EnableContrast:       true,
		EnableNoiseReduction: true,
		EnableSharpening:     true,
		EnableCompression:    true,
		MaxWidth:             2048,
		MaxHeight:            2048,
		ContrastFactor:       1.2,
		NoiseReductionRadius: 0.5,
		SharpeningFactor:     1.5,
		JPEGQuality:          85,
		OutputFormat:         FormatPNG,
	}
}

// Presets are named configurations tuned for classes of source material.
// Debug directories are left empty; callers fill them from path settings.
var presets = map[string]Config{
	"default": Default(),
	"fast": {
		EnablePreprocessing: true,
		EnableResize:        true,
		EnableCompression:   true,
		MaxWidth:            1536,
		MaxHeight:           1536,
		ContrastFactor:      1.0,
		SharpeningFactor:    1.0,
		JPEGQuality:         75,
		OutputFormat:        FormatJPEG,
	},
	"quality": {
		EnablePreprocessing:  true,
		EnableResize:         true,
		EnableContrast:       true,
		EnableNoiseReduction: true,
		EnableSharpening:     true,
		EnableCompression:    true,
		MaxWidth:             2048,
		MaxHeight:            2048,
		ContrastFactor:       1.3,
		NoiseReductionRadius: 0.3,
		SharpeningFactor:     2.0,
		JPEGQuality:          90,
		OutputFormat:         FormatJPEG,
	},
	"optimized": {
		EnablePreprocessing:  true,
		EnableResize:         true,
		EnableContrast:       true,
		EnableNoiseReduction: true,
		EnableSharpening:     true,
		EnableCompression:    true,
		MaxWidth:             1024,
		MaxHeight:            768,
		ContrastFactor:       1.2,
		NoiseReductionRadius: 0.2,
		SharpeningFactor:     1.3,
		JPEGQuality:          85,
		OutputFormat:         FormatJPEG,
		SaveProcessedImage:   true,
	},
	"ocr-optimized": {
		EnablePreprocessing:  true,
		EnableResize:         true,
		EnableContrast:       true,
		EnableNoiseReduction: true,
		EnableSharpening:     true,
		EnableCompression:    true,
		MaxWidth:             800,
		MaxHeight:            600,
		ContrastFactor:       1.4,
		NoiseReductionRadius: 0.1,
		SharpeningFactor:     1.5,
		JPEGQuality:          80,
		OutputFormat:         FormatJPEG,
		SaveProcessedImage:   true,
	},
	"minimal": {
		EnablePreprocessing: false,
		MaxWidth:            2048,
		MaxHeight:           2048,
		ContrastFactor:      1.0,
		SharpeningFactor:    1.0,
		JPEGQuality:         85,
		OutputFormat:        FormatPNG,
	},
}

// Preset returns the named preset configuration.
func Preset(name string) (Config, bool) {
	cfg, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return cfg, ok
}

// PresetNames lists available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
