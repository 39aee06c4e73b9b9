// Package parse turns the collaborator's free-form reply into structured
// vocabulary cards.
//
// Replies are expected to be YAML, usually wrapped in markdown code fences
// that get stripped first. Words are lowercased unless they start with an
// uppercase letter (proper nouns keep their casing), and duplicate words
// within one reply are collapsed case-insensitively.
package parse
