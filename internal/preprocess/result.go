package preprocess

import (
	"fmt"
	"strings"
)

// StageEntry is one line of the audit trail describing a pipeline stage.
type StageEntry struct {
	Operation string
	Detail    string
	Width     int
	Height    int
	Bytes     int
}

func (e StageEntry) String() string {
	s := e.Operation
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

// Result carries the final encoded payload plus the metrics and stage log
// collected while conditioning a single image.
type Result struct {
	Payload []byte
	MIME    string
	Stages  []StageEntry

	OriginalWidth  int
	OriginalHeight int
	OriginalBytes  int
	FinalWidth     int
	FinalHeight    int
	FinalBytes     int
}

// Summary renders the stage log as a single human-readable line.
func (r *Result) Summary() string {
	parts := make([]string, 0, len(r.Stages))
	for _, stage := range r.Stages {
		parts = append(parts, stage.String())
	}
	return fmt.Sprintf("%dx%d (%d bytes) -> %dx%d (%d bytes): %s",
		r.OriginalWidth, r.OriginalHeight, r.OriginalBytes,
		r.FinalWidth, r.FinalHeight, r.FinalBytes,
		strings.Join(parts, " | "))
}
