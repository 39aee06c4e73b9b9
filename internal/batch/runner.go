package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"vocabscan/internal/config"
	"vocabscan/internal/ledger"
	"vocabscan/internal/logging"
	"vocabscan/internal/parse"
	"vocabscan/internal/preprocess"
	"vocabscan/internal/services"
	"vocabscan/internal/sink"
	"vocabscan/internal/vision"
)

// Runner drives the per-image state machine: discover, consult the ledger,
// preprocess, infer, parse, append, record. Images are processed strictly
// sequentially because the vision backend is a shared local resource.
type Runner struct {
	cfg    *config.Config
	pp     preprocess.Config
	ledger *ledger.Ledger
	client vision.Client
	sink   *sink.Sink
	logger *slog.Logger
	runID  string
}

// New assembles a Runner from already-constructed collaborators. The
// preprocessing configuration is resolved once and reused for every image.
func New(cfg *config.Config, led *ledger.Ledger, client vision.Client, snk *sink.Sink, logger *slog.Logger) (*Runner, error) {
	pp, err := cfg.PreprocessConfig()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	runLogger := logger.With(logging.String(logging.FieldRunID, runID))
	for _, warning := range pp.Warnings() {
		runLogger.Warn("artifact-risk preprocessing setting accepted",
			logging.String("detail", warning))
	}
	return &Runner{
		cfg:    cfg,
		pp:     pp,
		ledger: led,
		client: client,
		sink:   snk,
		logger: runLogger,
		runID:  runID,
	}, nil
}

// RunID returns the identifier stamped on this runner's log lines.
func (r *Runner) RunID() string {
	return r.runID
}

// RunDirectory performs one batch pass over the input directory. Per-image
// failures are recorded in the ledger and never abort the pass; only
// cancellation or a ledger persist failure stops it early.
func (r *Runner) RunDirectory(ctx context.Context) (*Summary, error) {
	images, err := Discover(r.cfg.Paths.InputDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(images)}
	r.logger.Info("batch pass started",
		logging.String("input_dir", r.cfg.Paths.InputDir),
		logging.Int("total", len(images)))

	for _, image := range images {
		if ctx.Err() != nil {
			break
		}
		if !r.ledger.ShouldProcess(image, false) {
			summary.Skipped++
			r.logger.Debug("already processed, skipping", logging.String(logging.FieldImage, image))
			continue
		}
		r.runOne(ctx, image, summary)
	}

	if err := r.ledger.Persist(); err != nil {
		return summary, err
	}
	r.logger.Info("batch pass finished", logging.String("summary", summary.String()))
	return summary, ctx.Err()
}

// RunSingle processes one explicitly named image unconditionally, ignoring
// any prior success in the ledger. The ledger entry is still updated.
func (r *Runner) RunSingle(ctx context.Context, path string) (*Summary, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err != nil {
		return nil, fmt.Errorf("stat image %q: %w", expanded, err)
	}

	summary := &Summary{Total: 1}
	r.logger.Info("forced single-image run", logging.String(logging.FieldImage, expanded))
	r.runOne(ctx, expanded, summary)

	if err := r.ledger.Persist(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// runOne executes the state machine for a single image and records its
// outcome. The ledger is persisted after every image so an interrupt never
// loses more than the in-flight entry.
func (r *Runner) runOne(ctx context.Context, image string, summary *Summary) {
	summary.Processed++
	start := time.Now()

	cards, err := r.processImage(ctx, image)
	if err != nil {
		summary.Failed++
		r.ledger.Record(image, ledger.StatusFailed, err.Error(), 0)
		r.logger.Error("image failed",
			logging.String(logging.FieldImage, image),
			logging.Error(err))
	} else {
		summary.Succeeded++
		summary.Cards += cards
		r.ledger.Record(image, ledger.StatusSuccess, "", cards)
		r.logger.Info("image processed",
			logging.String(logging.FieldImage, image),
			logging.Int("cards", cards),
			logging.Duration("elapsed", time.Since(start)))
	}

	if err := r.ledger.Persist(); err != nil {
		r.logger.Error("ledger persist failed", logging.Error(err))
	}
}

func (r *Runner) processImage(ctx context.Context, image string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, services.Wrap(services.ErrInterrupted, "batch", "process", "cancelled before start", err)
	}

	result, err := preprocess.Run(image, r.pp, r.logger)
	if err != nil {
		return 0, r.interruptedOr(ctx, err)
	}
	r.logger.Debug("preprocessing finished",
		logging.String(logging.FieldImage, image),
		logging.String("pipeline", result.Summary()))

	reply, err := r.client.ExtractText(ctx, vision.Request{
		ImageData: result.Payload,
		MIMEType:  result.MIME,
		Prompt:    vision.ExtractionPrompt,
	})
	if err != nil {
		return 0, r.interruptedOr(ctx, err)
	}

	cards, err := parse.Cards(reply)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		// All entries were dropped during normalization. Recording this as
		// a failure keeps the image eligible for retry.
		return 0, services.Wrap(services.ErrParse, "batch", "process", "reply contained no usable cards", nil)
	}

	if err := r.sink.Append(cards); err != nil {
		return 0, err
	}
	return len(cards), nil
}

// interruptedOr marks a stage error as interrupted when the context was
// cancelled mid-stage, so the ledger distinguishes operator interrupts from
// genuine failures.
func (r *Runner) interruptedOr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrInterrupted, "batch", "process", "interrupted mid-stage", err)
	}
	return err
}
