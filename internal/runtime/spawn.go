// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrLaunch is the sentinel error wrapped by LaunchError.
	ErrLaunch = errors.New("process launch failed")
	// ErrPipeUnsupported is the sentinel error wrapped by UnsupportedFeatureError
	// when a pipe continuation is reached at execution time.
	ErrPipeUnsupported = errors.New("pipe chaining is not implemented")
)

type (
	// Spawner is the process-launch collaborator. It runs one external
	// process to completion, delivering output and error streams line by
	// line to the given sinks, and reports the exit code. Context
	// cancellation never terminates a process that has already started.
	Spawner interface {
		Spawn(ctx context.Context, spec SpawnSpec) (int, error)
	}

	// SpawnSpec describes one process launch. All variable markers have
	// already been substituted.
	SpawnSpec struct {
		// Path is the executable path.
		Path string
		// Args is the pre-quoted argument string.
		Args string
		// Dir is the working directory; empty inherits the caller's.
		Dir string
		// Stdout and Stderr receive whole lines as the process runs. A nil
		// sink discards the stream.
		Stdout io.Writer
		Stderr io.Writer
	}

	// LaunchError is returned when a process could not be started. It aborts
	// only that file's chain.
	LaunchError struct {
		Path string
		Err  error
	}

	// RedirectionError is returned when a redirect target file cannot be
	// opened. It aborts only that file's chain.
	RedirectionError struct {
		Path string
		Err  error
	}

	// UnsupportedFeatureError is returned when a parsed construct has no
	// execution support.
	UnsupportedFeatureError struct {
		Feature string
	}
)

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch %q: %v", e.Path, e.Err)
}

// Unwrap returns ErrLaunch so callers can use errors.Is.
func (e *LaunchError) Unwrap() error { return ErrLaunch }

// Error implements the error interface.
func (e *RedirectionError) Error() string {
	return fmt.Sprintf("cannot open redirect target %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying open error.
func (e *RedirectionError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s operator is not implemented", e.Feature)
}

// Unwrap returns ErrPipeUnsupported so callers can use errors.Is.
func (e *UnsupportedFeatureError) Unwrap() error { return ErrPipeUnsupported }
