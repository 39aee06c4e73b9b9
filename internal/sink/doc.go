// Package sink appends extracted cards to the output CSV.
//
// The sink writes the header exactly once (only when the destination is new
// or empty) and never deduplicates rows; double-counting protection lives
// entirely in the ledger's per-image success gate.
package sink
