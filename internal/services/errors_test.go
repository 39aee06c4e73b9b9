package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	err := Wrap(ErrInference, "vision", "extract", "collaborator unreachable", errors.New("dial tcp: refused"))
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected error to match ErrInference, got %v", err)
	}
	msg := err.Error()
	for _, part := range []string{"vision", "extract", "collaborator unreachable", "refused"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}

func TestWrapNilMessageParts(t *testing.T) {
	err := Wrap(ErrSink, "", "", "", nil)
	if !errors.Is(err, ErrSink) {
		t.Fatalf("expected ErrSink, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Errorf("expected generic detail, got %q", err.Error())
	}
}

func TestFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"config", Wrap(ErrConfig, "config", "validate", "bad value", nil), true},
		{"preprocess", Wrap(ErrPreprocess, "preprocess", "decode", "corrupt", nil), false},
		{"inference", Wrap(ErrInference, "vision", "extract", "timeout", nil), false},
		{"ledger", Wrap(ErrLedger, "ledger", "load", "corrupt file", nil), false},
	}
	for _, tc := range cases {
		if got := Fatal(tc.err); got != tc.fatal {
			t.Errorf("%s: Fatal=%v, want %v", tc.name, got, tc.fatal)
		}
	}
}
