// Package config defines the vocabscan TOML configuration and its lifecycle:
// defaults, file decode, normalization (tilde expansion, provider lowering,
// GEMINI_API_KEY/GOOGLE_API_KEY fallbacks), and validation.
//
// The [preprocessing] section names a preset and optionally overrides single
// fields; PreprocessConfig resolves those into an effective pipeline
// configuration. Load is the only intended entry point, so the rest of the
// program always sees expanded paths and checked values.
package config
