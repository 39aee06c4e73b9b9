package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"vocabscan/internal/parse"
	"vocabscan/internal/services"
)

var header = []string{"word", "meaning", "example"}

// Sink accumulates extracted cards in an append-only CSV file. It performs no
// deduplication across calls: double-counting protection lives entirely in
// the ledger's per-image success gate.
type Sink struct {
	path string
}

// New returns a sink writing to the CSV file at path.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the CSV destination.
func (s *Sink) Path() string {
	return s.path
}

// Append opens the destination in append mode and writes one row per card,
// preceded by the header row when the file is newly created or empty. Fields
// containing delimiters or newlines get standard CSV quoting.
func (s *Sink) Append(cards []parse.Card) error {
	if len(cards) == 0 {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrSink, "sink", "append", "create output directory", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return services.Wrap(services.ErrSink, "sink", "append", s.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return services.Wrap(services.ErrSink, "sink", "append", "stat destination", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return services.Wrap(services.ErrSink, "sink", "append", "write header", err)
		}
	}
	for _, card := range cards {
		if err := writer.Write([]string{card.Word, card.Meaning, card.Example}); err != nil {
			return services.Wrap(services.ErrSink, "sink", "append", "write row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return services.Wrap(services.ErrSink, "sink", "append", "flush rows", err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrSink, "sink", "append", "close destination", err)
	}
	return nil
}
