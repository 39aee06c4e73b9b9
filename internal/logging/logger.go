package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
}

// New constructs a slog logger using the provided options. Records below
// error level go to OutputPaths, error-level records to ErrorOutputPaths,
// so stderr stays a dedicated error stream. A path named in both lists
// (typically the run log file) shares one handle and receives everything.
// File paths are opened in append mode so each run extends the same log.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}
	errOutputs := opts.ErrorOutputPaths
	if len(errOutputs) == 0 {
		errOutputs = []string{"stderr"}
	}

	cache := writerCache{}
	outWriter, err := cache.multi(outputs, os.Stdout)
	if err != nil {
		return nil, err
	}
	errWriter, err := cache.multi(errOutputs, os.Stderr)
	if err != nil {
		return nil, err
	}

	var build func(io.Writer) slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		build = func(w io.Writer) slog.Handler { return newJSONHandler(w, levelVar) }
	case "console", "":
		build = func(w io.Writer) slog.Handler { return newConsoleHandler(w, levelVar) }
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(&splitHandler{out: build(outWriter), err: build(errWriter)}), nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitHandler dispatches each record to exactly one of two handlers by
// level, keeping routine output and the error stream apart.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func (h *splitHandler) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return h.err
	}
	return h.out
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.pick(level).Enabled(ctx, level)
}

func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.pick(record.Level).Handle(ctx, record)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}

// writerCache opens each distinct destination once, so a log file listed in
// both the output and error path lists gets a single append handle instead
// of two competing ones.
type writerCache map[string]io.Writer

func (c writerCache) multi(paths []string, fallback io.Writer) (io.Writer, error) {
	seen := make(map[string]struct{}, len(paths))
	var writers []io.Writer
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		w, err := c.open(path)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}

	switch len(writers) {
	case 0:
		return fallback, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func (c writerCache) open(path string) (io.Writer, error) {
	if w, ok := c[path]; ok {
		return w, nil
	}

	var w io.Writer
	switch path {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w = file
	}
	c[path] = w
	return w, nil
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar) slog.Handler {
	replace := func(_ []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			attr.Key = "ts"
			if attr.Value.Kind() == slog.KindTime {
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
			}
		case slog.LevelKey:
			attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
		}
		return attr
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, ReplaceAttr: replace})
}
