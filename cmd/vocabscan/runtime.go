package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"vocabscan/internal/batch"
	"vocabscan/internal/config"
	"vocabscan/internal/ledger"
	"vocabscan/internal/logging"
	"vocabscan/internal/sink"
	"vocabscan/internal/vision"
)

// runtimeEnv bundles the collaborators a batch command needs. Close releases
// the vision backend.
type runtimeEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	runner *batch.Runner
	client vision.Client
}

func newRuntime(ctx context.Context, cmdCtx *commandContext) (*runtimeEnv, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	runStamp := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("vocabscan-%s.log", runStamp))
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	led, err := ledger.Load(cfg.Paths.LedgerPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	client, err := vision.NewFromConfig(ctx, cfg.Vision)
	if err != nil {
		return nil, fmt.Errorf("init vision backend: %w", err)
	}

	runner, err := batch.New(cfg, led, client, sink.New(cfg.Paths.OutputCSV), logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("run initialized",
		logging.String("backend", client.Name()),
		logging.String("ledger", cfg.Paths.LedgerPath),
		logging.String("output", cfg.Paths.OutputCSV))

	return &runtimeEnv{
		cfg:    cfg,
		logger: logger,
		runner: runner,
		client: client,
	}, nil
}

func (r *runtimeEnv) Close() {
	if r.client != nil {
		if err := r.client.Close(); err != nil {
			r.logger.Warn("close vision backend", logging.Error(err))
		}
	}
}
