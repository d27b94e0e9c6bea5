package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arnodel/yq/query"
	"github.com/arnodel/yq/which"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see handleError).
	signal.Ignore(syscall.SIGPIPE)

	cmd := newRootCmd()
	err := cmd.Execute()
	os.Exit(handleError(err, os.Stderr))
}

// handleError reports err and returns the process exit status.
func handleError(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, syscall.EPIPE) {
		// stdout is a pipe and something closed it (e.g. 'head' or 'less').
		// In this case we don't want to complain.
		return 0
	}
	var exitErr *query.ExitError
	if errors.As(err, &exitErr) {
		// jq already explained what went wrong.
		stderr.Write(exitErr.Stderr)
		if exitErr.ExitCode > 0 {
			return exitErr.ExitCode
		}
		return 1
	}
	fmt.Fprintf(stderr, "yq: %s\n", err)
	var timeoutErr *query.TimeoutError
	switch {
	case errors.Is(err, which.ErrNotFound):
		return 127
	case errors.As(err, &timeoutErr):
		return 124
	default:
		return 1
	}
}
