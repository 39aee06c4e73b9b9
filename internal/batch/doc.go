// Package batch orchestrates runs: discover images, consult the ledger,
// drive each image through preprocess, inference, parsing, and the CSV
// sink, and record the outcome.
//
// Processing is strictly sequential because the vision backend is a shared,
// concurrency-limited local resource. Per-image failures are recorded and
// never abort the pass; the ledger is persisted after every image so an
// interrupt loses at most the in-flight entry. Watch mode repeats passes on
// a timer tick, idle in between.
package batch
