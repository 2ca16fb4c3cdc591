package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks invalid user input (bad path or extension) detected
	// before any stage runs.
	ErrInput = errors.New("input error")
	// ErrExternalTool marks a failed invocation of an external collaborator.
	ErrExternalTool = errors.New("external tool error")
	// ErrNotFound marks a required external binary or file that is absent.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks an external call that exceeded its bounded timeout.
	ErrTimeout = errors.New("timeout")
	// ErrValidation marks malformed deck content.
	ErrValidation = errors.New("validation error")
	// ErrTransient marks failures without a more specific classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole run rather than a
// single slide. Bad input, a missing external binary, and timeouts on
// run-scoped operations all qualify; the caller decides scope for timeouts.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInput) || errors.Is(err, ErrNotFound)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
