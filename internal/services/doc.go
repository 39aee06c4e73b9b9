// Package services defines the error taxonomy shared by every component.
//
// Each failure class has a sentinel marker (configuration, preprocessing,
// inference, parsing, sink, ledger, interruption) and the Wrap helper tags
// errors so callers can classify them with errors.Is. The orchestrator uses
// this to decide what downgrades to a recorded per-image failure and what
// is fatal for the whole run.
//
// Use Wrap at component boundaries so operational behaviour (retry
// eligibility, run abort) stays uniform across the pipeline.
package services
