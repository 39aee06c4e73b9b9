package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfig      = errors.New("configuration error")
	ErrPreprocess  = errors.New("preprocessing error")
	ErrInference   = errors.New("inference error")
	ErrParse       = errors.New("parse error")
	ErrSink        = errors.New("sink error")
	ErrLedger      = errors.New("ledger error")
	ErrInterrupted = errors.New("interrupted")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrPreprocess
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run rather than being
// downgraded to a per-image failure. Configuration errors are setup-time
// problems; everything else is recorded against the image and retried on the
// next invocation.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfig)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
