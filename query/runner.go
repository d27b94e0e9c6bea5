// Package query runs jq (or any program with the same calling convention) as
// a child process.
package query

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arnodel/yq/internal/logger"
	"github.com/arnodel/yq/which"
)

// Result is the outcome of a successful run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// A Runner starts the query program with the query as its only argument,
// writes the input payload to its standard input and collects its standard
// output.  The zero value is ready to use.
type Runner struct {
	// If positive, the child is killed when it runs for longer than Timeout
	// and Run returns a *TimeoutError.
	Timeout time.Duration

	// If not nil, the environment of the child.  Otherwise the child inherits
	// the environment of the current process.
	Env []string
}

// Run executes the program at path with query as its argument.  The
// payload is written to the standard input of the child while its standard
// output is read, so neither side can block the other however large they
// are.
//
// An empty path means the program could not be resolved: the returned error
// matches which.ErrNotFound.  A non-zero exit status gives an *ExitError.
// Run never retries.
func (r *Runner) Run(ctx context.Context, path, query string, payload io.Reader) (*Result, error) {
	if path == "" {
		return nil, fmt.Errorf("no query program: %w", which.ErrNotFound)
	}
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeoutCause(ctx, r.Timeout, errTimedOut)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, path, query)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}

	logger.Debug("query: running %s %q", path, query)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start %s: %w", path, err)
	}

	// A killed child may leave a grandchild holding its pipes open.
	stopClosing := context.AfterFunc(runCtx, func() {
		stdin.Close()
		stdoutPipe.Close()
	})
	defer stopClosing()

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		if payload == nil {
			return nil
		}
		_, err := io.Copy(stdin, payload)
		if isBrokenPipe(err) {
			// The child stopped reading; its exit status tells why.
			logger.Debug("query: %s closed its input early", path)
			return nil
		}
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	ioErr := g.Wait()
	waitErr := cmd.Wait()
	duration := time.Since(start)

	// A child that completed is a success even if a deadline passed since.
	if waitErr != nil || ioErr != nil {
		if ctxErr := runCtx.Err(); ctxErr != nil {
			if context.Cause(runCtx) == errTimedOut {
				logger.Warn("query: %s killed after %s", path, r.Timeout)
				return nil, &TimeoutError{Timeout: r.Timeout}
			}
			return nil, ctxErr
		}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		logger.Debug("query: %s exited with status %d", path, exitErr.ExitCode())
		return nil, &ExitError{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if ioErr != nil {
		return nil, fmt.Errorf("error while talking to %s: %w", path, ioErr)
	}
	logger.Debug("query: %s produced %d bytes in %s", path, stdout.Len(), duration)
	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: duration,
	}, nil
}

// Cause of the runner's own deadline, to tell it apart from the caller's.
var errTimedOut = errors.New("query timed out")

// How long Wait lets a killed child's descendants keep stderr open.
const waitDelay = 500 * time.Millisecond

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed)
}
