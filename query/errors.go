package query

import (
	"bytes"
	"context"
	"fmt"
	"time"
)

// ExitError is returned when the query program exits with a non-zero status.
// It carries whatever the program wrote before exiting.
type ExitError struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ExitError) Error() string {
	msg := bytes.TrimSpace(e.Stderr)
	if len(msg) == 0 {
		return fmt.Sprintf("query failed with exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("query failed with exit status %d: %s", e.ExitCode, msg)
}

// TimeoutError is returned when the query program was killed because it ran
// for longer than the runner's timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query timed out after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}
