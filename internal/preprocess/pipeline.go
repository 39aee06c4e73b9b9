package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register decoders for the full discovery extension set. JPEG, PNG and
	// GIF come with the standard library; BMP, TIFF and WebP do not.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vocabscan/internal/fileutil"
	"vocabscan/internal/logging"
	"vocabscan/internal/services"
)

// Run conditions the image at sourcePath according to cfg and returns the
// encoded payload together with the stage audit trail. A failure affects only
// this image; callers decide whether to continue the batch.
func Run(sourcePath string, cfg Config, logger *slog.Logger) (*Result, error) {
	logger = logging.NewComponentLogger(logger, "preprocess")

	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrPreprocess, "preprocess", "run", "invalid effective parameters", err)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrPreprocess, "preprocess", "read", sourcePath, err)
	}

	if !cfg.EnablePreprocessing {
		return passthrough(sourcePath, data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, services.Wrap(services.ErrPreprocess, "preprocess", "decode", sourcePath, err)
	}

	result := &Result{
		OriginalWidth:  img.Bounds().Dx(),
		OriginalHeight: img.Bounds().Dy(),
		OriginalBytes:  len(data),
	}

	saver, err := newStageSaver(cfg, logger)
	if err != nil {
		return nil, err
	}
	saver.save("original", img)

	if cfg.EnableResize {
		img = runResize(img, cfg, result)
		saver.save("resized", img)
	}
	if cfg.EnableContrast && cfg.ContrastFactor != 1.0 {
		img = runContrast(img, cfg, result)
		saver.save("contrast", img)
	}
	if cfg.EnableNoiseReduction && cfg.NoiseReductionRadius > 0 {
		img = runNoiseReduction(img, cfg, result)
		saver.save("denoised", img)
	}
	if cfg.EnableSharpening && cfg.SharpeningFactor > 1.0 {
		img = runSharpen(img, cfg, result)
		saver.save("sharpened", img)
	}

	payload, mime, err := encode(img, cfg, result)
	if err != nil {
		return nil, err
	}
	result.Payload = payload
	result.MIME = mime
	result.FinalWidth = img.Bounds().Dx()
	result.FinalHeight = img.Bounds().Dy()
	result.FinalBytes = len(payload)
	saver.saveEncoded("compressed", payload, img)

	if cfg.SaveProcessedImage {
		saveProcessed(sourcePath, payload, cfg, logger)
	}

	logger.Debug("pipeline complete",
		logging.String("source", sourcePath),
		logging.String("summary", result.Summary()))

	return result, nil
}

// passthrough returns the source bytes untouched when preprocessing is
// disabled; per-stage gates are ignored entirely.
func passthrough(sourcePath string, data []byte) (*Result, error) {
	dims, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, services.Wrap(services.ErrPreprocess, "preprocess", "decode", sourcePath, err)
	}
	return &Result{
		Payload:        data,
		MIME:           mimeForFormat(format),
		Stages:         []StageEntry{{Operation: "passthrough", Detail: "preprocessing disabled", Width: dims.Width, Height: dims.Height, Bytes: len(data)}},
		OriginalWidth:  dims.Width,
		OriginalHeight: dims.Height,
		OriginalBytes:  len(data),
		FinalWidth:     dims.Width,
		FinalHeight:    dims.Height,
		FinalBytes:     len(data),
	}, nil
}

func runResize(img image.Image, cfg Config, result *Result) image.Image {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	if width <= cfg.MaxWidth && height <= cfg.MaxHeight {
		result.Stages = append(result.Stages, StageEntry{
			Operation: "resize",
			Detail:    fmt.Sprintf("within %dx%d, no-op", cfg.MaxWidth, cfg.MaxHeight),
			Width:     width,
			Height:    height,
		})
		return img
	}
	resized := imaging.Fit(img, cfg.MaxWidth, cfg.MaxHeight, imaging.Lanczos)
	result.Stages = append(result.Stages, StageEntry{
		Operation: "resize",
		Detail:    fmt.Sprintf("%dx%d -> %dx%d (lanczos)", width, height, resized.Bounds().Dx(), resized.Bounds().Dy()),
		Width:     resized.Bounds().Dx(),
		Height:    resized.Bounds().Dy(),
	})
	return resized
}

func runContrast(img image.Image, cfg Config, result *Result) image.Image {
	// imaging expects a percentage in [-100, 100]; factor 1.0 is identity.
	percentage := (cfg.ContrastFactor - 1.0) * 100
	if percentage > 100 {
		percentage = 100
	}
	if percentage < -100 {
		percentage = -100
	}
	adjusted := imaging.AdjustContrast(img, percentage)
	result.Stages = append(result.Stages, StageEntry{
		Operation: "contrast",
		Detail:    fmt.Sprintf("factor %g", cfg.ContrastFactor),
		Width:     adjusted.Bounds().Dx(),
		Height:    adjusted.Bounds().Dy(),
	})
	return adjusted
}

func runNoiseReduction(img image.Image, cfg Config, result *Result) image.Image {
	blurred := imaging.Blur(img, cfg.NoiseReductionRadius)
	result.Stages = append(result.Stages, StageEntry{
		Operation: "noise-reduction",
		Detail:    fmt.Sprintf("gaussian radius %g", cfg.NoiseReductionRadius),
		Width:     blurred.Bounds().Dx(),
		Height:    blurred.Bounds().Dy(),
	})
	return blurred
}

func runSharpen(img image.Image, cfg Config, result *Result) image.Image {
	sharpened := imaging.Sharpen(img, cfg.SharpeningFactor-1.0)
	result.Stages = append(result.Stages, StageEntry{
		Operation: "sharpen",
		Detail:    fmt.Sprintf("factor %g", cfg.SharpeningFactor),
		Width:     sharpened.Bounds().Dx(),
		Height:    sharpened.Bounds().Dy(),
	})
	return sharpened
}

func encode(img image.Image, cfg Config, result *Result) ([]byte, string, error) {
	var buf bytes.Buffer
	format := FormatPNG
	if cfg.EnableCompression {
		format = cfg.OutputFormat
	}

	switch format {
	case FormatJPEG:
		// JPEG has no alpha channel; composite transparent sources onto white.
		flattened := imaging.Overlay(
			imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White),
			img, image.Pt(0, 0), 1.0)
		if err := imaging.Encode(&buf, flattened, imaging.JPEG, imaging.JPEGQuality(cfg.JPEGQuality)); err != nil {
			return nil, "", services.Wrap(services.ErrPreprocess, "preprocess", "encode", "jpeg", err)
		}
		result.Stages = append(result.Stages, StageEntry{
			Operation: "encode",
			Detail:    fmt.Sprintf("jpeg quality %d, %d bytes", cfg.JPEGQuality, buf.Len()),
			Width:     img.Bounds().Dx(),
			Height:    img.Bounds().Dy(),
			Bytes:     buf.Len(),
		})
		return buf.Bytes(), "image/jpeg", nil
	default:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", services.Wrap(services.ErrPreprocess, "preprocess", "encode", "png", err)
		}
		detail := fmt.Sprintf("png, %d bytes", buf.Len())
		if !cfg.EnableCompression {
			detail = fmt.Sprintf("png (compression disabled), %d bytes", buf.Len())
		}
		result.Stages = append(result.Stages, StageEntry{
			Operation: "encode",
			Detail:    detail,
			Width:     img.Bounds().Dx(),
			Height:    img.Bounds().Dy(),
			Bytes:     buf.Len(),
		})
		return buf.Bytes(), "image/png", nil
	}
}

// stageSaver persists numbered per-stage snapshots for visual debugging.
// Save failures are logged and never fail the stage itself.
type stageSaver struct {
	enabled bool
	dir     string
	step    int
	logger  *slog.Logger
}

func newStageSaver(cfg Config, logger *slog.Logger) (*stageSaver, error) {
	saver := &stageSaver{enabled: cfg.SaveIntermediateSteps, dir: cfg.IntermediateDir, logger: logger}
	if !saver.enabled {
		return saver, nil
	}
	if err := fileutil.EnsureDir(saver.dir); err != nil {
		return nil, services.Wrap(services.ErrPreprocess, "preprocess", "debug", "create intermediate directory", err)
	}
	return saver, nil
}

func (s *stageSaver) save(name string, img image.Image) {
	if !s.enabled {
		return
	}
	s.step++
	path := filepath.Join(s.dir, fmt.Sprintf("%02d_%s.png", s.step, name))
	if err := imaging.Save(img, path); err != nil {
		s.logger.Warn("failed to save intermediate image",
			logging.String("path", path),
			logging.Error(err))
	}
}

// saveEncoded snapshots the encode stage's output. The payload is decoded
// first so lossy artifacts show up in the saved PNG; if it cannot be decoded
// the pre-encode image stands in.
func (s *stageSaver) saveEncoded(name string, payload []byte, fallback image.Image) {
	if !s.enabled {
		return
	}
	decoded, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		decoded = fallback
	}
	s.save(name, decoded)
}

func saveProcessed(sourcePath string, payload []byte, cfg Config, logger *slog.Logger) {
	ext := "png"
	if cfg.EnableCompression && cfg.OutputFormat == FormatJPEG {
		ext = "jpg"
	}
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	path := filepath.Join(cfg.ProcessedImageDir, fmt.Sprintf("%s_processed.%s", base, ext))
	if err := fileutil.EnsureDir(cfg.ProcessedImageDir); err != nil {
		logger.Warn("failed to create processed image directory", logging.Error(err))
		return
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		logger.Warn("failed to save processed image",
			logging.String("path", path),
			logging.Error(err))
		return
	}
	logger.Debug("saved processed image", logging.String("path", path))
}

func mimeForFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
