package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"vocabscan/internal/fileutil"
	"vocabscan/internal/logging"
	"vocabscan/internal/services"
)

// Status is the recorded outcome of an image's most recent processing attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is the last known outcome for one image. Re-processing overwrites the
// entry; the ledger keeps no history.
type Entry struct {
	ImageID          string    `json:"image_id"`
	Timestamp        time.Time `json:"timestamp"`
	Status           Status    `json:"status"`
	Error            string    `json:"error,omitempty"`
	ContributedCards int       `json:"contributed_card_count"`
}

// Ledger maps image identity to its latest processing outcome, making
// repeated batch runs over a growing input directory safe and incremental.
// It is a single-writer store; concurrent processes sharing one ledger file
// are unsupported.
type Ledger struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// Load reads the ledger at path. A missing file yields an empty ledger. A
// corrupted file is surfaced as a warning and degraded to empty, so the prior
// content stays on disk until the next successful persist; any other read
// failure is fatal for the run.
func Load(path string, logger *slog.Logger) (*Ledger, error) {
	logger = logging.NewComponentLogger(logger, "ledger")
	led := &Ledger{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return led, nil // fresh start
		}
		return nil, services.Wrap(services.ErrLedger, "ledger", "load", path, err)
	}
	if len(data) == 0 {
		return led, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		corrupt := services.Wrap(services.ErrLedger, "ledger", "load", "corrupted ledger file", err)
		logger.Warn("ledger file is corrupted; starting from an empty ledger",
			logging.String("path", path),
			logging.Error(corrupt),
			logging.String(logging.FieldErrorHint, "previously processed images will run again"))
		return led, nil
	}

	for _, entry := range entries {
		if strings.TrimSpace(entry.ImageID) != "" {
			led.entries[entry.ImageID] = entry
		}
	}
	logger.Debug("loaded ledger",
		logging.Int("entry_count", len(led.entries)),
		logging.String("path", path))
	return led, nil
}

// ShouldProcess reports whether imageID still needs processing. Success is
// sticky: only force (or removing the entry) re-enables a succeeded image.
func (l *Ledger) ShouldProcess(imageID string, force bool) bool {
	if force {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, found := l.entries[imageID]
	if !found {
		return true
	}
	return entry.Status != StatusSuccess
}

// Record upserts the outcome for imageID with the current timestamp,
// overwriting any prior entry.
func (l *Ledger) Record(imageID string, status Status, errMsg string, cardCount int) {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[imageID] = Entry{
		ImageID:          imageID,
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            strings.TrimSpace(errMsg),
		ContributedCards: cardCount,
	}
}

// Lookup returns the entry for imageID if present.
func (l *Ledger) Lookup(imageID string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, found := l.entries[imageID]
	return entry, found
}

// Remove deletes the entry for imageID, re-enabling processing of that image
// on the next run.
func (l *Ledger) Remove(imageID string) error {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return errors.New("image id cannot be empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[imageID]; !exists {
		return fmt.Errorf("image %q not found in ledger", imageID)
	}
	delete(l.entries, imageID)
	return nil
}

// Clear removes all entries.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = make(map[string]Entry)
}

// Count returns the number of ledger entries.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}

// Entries returns a snapshot sorted by timestamp descending (newest first).
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ImageID < entries[j].ImageID
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries
}

// Persist writes the ledger to disk atomically: entries are marshalled,
// written to a temporary sibling file and renamed over the destination, so a
// crash mid-write never leaves a truncated ledger.
func (l *Ledger) Persist() error {
	l.mu.RLock()
	entries := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, entry)
	}
	l.mu.RUnlock()

	// Sort for deterministic output
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ImageID < entries[j].ImageID
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrLedger, "ledger", "persist", "marshal entries", err)
	}
	if err := fileutil.WriteFileAtomic(l.path, data, 0o644); err != nil {
		return services.Wrap(services.ErrLedger, "ledger", "persist", l.path, err)
	}
	return nil
}
