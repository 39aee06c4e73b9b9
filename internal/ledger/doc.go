// Package ledger provides the durable record of per-image processing
// outcomes that makes repeated batch runs idempotent.
//
// Each image has at most one entry: its last status (success or failed), a
// timestamp, an optional error message, and the number of cards it
// contributed. Success is sticky; only a forced run or removing the entry
// re-enables processing. Failed and unknown images are always eligible.
//
// # Storage
//
// The ledger is a JSON array at a configurable path (default:
// ~/.local/share/vocabscan/ledger.json), human-readable and easy to inspect
// or edit. Persisting writes to a temporary file and renames it into place,
// so a crash mid-write never truncates the published ledger. A corrupted
// file degrades to an empty ledger with a warning; the broken file stays on
// disk until the next successful persist.
//
// CLI commands for inspection and management:
//
//	vocabscan ledger list             # List all recorded outcomes
//	vocabscan ledger remove <image>   # Drop one entry
//	vocabscan ledger clear            # Drop all entries
package ledger
