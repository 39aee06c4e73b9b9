// Package preprocess conditions scanned vocabulary pages before inference.
//
// The pipeline runs up to five stages in a fixed order: resize (downscale
// only, aspect preserved), contrast adjustment, noise reduction, sharpening,
// and final encoding. Every stage is individually gated by configuration,
// and the master switch turns the whole pipeline into an identity transform
// that hands the raw file bytes to the collaborator untouched.
//
// Named presets bundle tuned parameter sets (default, fast, quality,
// optimized, ocr-optimized, minimal); the config package resolves a preset
// plus per-field overrides into the effective Config. Debug options save
// numbered per-stage snapshots and the final processed image next to the
// run's state files.
package preprocess
