// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"path/filepath"

	"github.com/jdm3/dirun/internal/cmdchain"
	"github.com/jdm3/dirun/internal/scan"
	"github.com/jdm3/dirun/internal/subst"
)

// Capture-handle priority: the first explicitly redirected handle in each
// list becomes the step's effective capture handle.
var (
	outCaptureOrder = []cmdchain.Handle{
		cmdchain.HandleStdOut,
		cmdchain.HandleVerbose,
		cmdchain.HandleDebug,
		cmdchain.HandleInfo,
		cmdchain.HandleAux7,
		cmdchain.HandleAux8,
		cmdchain.HandleAux9,
	}
	errCaptureOrder = []cmdchain.Handle{
		cmdchain.HandleStdErr,
		cmdchain.HandleWarning,
	}
)

// Coordinator runs the parsed command chain against one discovered file at a
// time, reporting each finished file to the completion callback and the
// traversal's completion gate. Per-file failures never propagate to sibling
// files; they surface as exit code -1 with the message in captured stderr.
type Coordinator struct {
	// Chain is the parsed command to run per file.
	Chain *cmdchain.Chain
	// Spawner launches individual steps.
	Spawner Spawner
	// Root is the search root, used for *_REL marker resolution.
	Root string
	// WorkDir is the configured working directory. May contain variable
	// markers; relative redirect targets resolve against it.
	WorkDir string
	// Collect captures step output into memory when no redirection claims
	// the stream.
	Collect bool
	// OnCompleted is invoked exactly once per file, after its chain stops.
	OnCompleted func(*scan.FileTask)
	// Tracker is the completion gate shared with the traversal.
	Tracker *scan.Completion
}

// Execute implements scan.Executor, stepping through the chain for one file.
func (c *Coordinator) Execute(ctx context.Context, task *scan.FileTask) {
	defer c.finish(task)

	vars := subst.Context{FilePath: task.Path, Root: c.Root}
	workDir := ""
	if c.WorkDir != "" {
		workDir = vars.Expand(c.WorkDir)
	}

	for i := range c.Chain.Steps {
		step := &c.Chain.Steps[i]

		outSink, err := c.buildSink(step, outCaptureOrder, vars, workDir)
		if err != nil {
			c.abort(task, err)
			return
		}
		errSink, err := c.buildSink(step, errCaptureOrder, vars, workDir)
		if err != nil {
			closeSink(outSink)
			c.abort(task, err)
			return
		}

		code, spawnErr := c.Spawner.Spawn(ctx, SpawnSpec{
			Path:   vars.Expand(step.Path),
			Args:   vars.Expand(step.Args),
			Dir:    workDir,
			Stdout: sinkWriter(outSink),
			Stderr: sinkWriter(errSink),
		})

		recordCapture(outSink, &task.Stdout)
		recordCapture(errSink, &task.Stderr)

		if spawnErr != nil {
			c.abort(task, spawnErr)
			return
		}
		task.ExitCode = code

		switch step.Continuation {
		case cmdchain.ChainTerminate:
			return
		case cmdchain.ChainPipe:
			c.abort(task, &UnsupportedFeatureError{Feature: "pipe"})
			return
		case cmdchain.ChainAlways:
			// Next step runs unconditionally; a trailing Always behaves as
			// Terminate when the loop ends.
		case cmdchain.ChainIfPass:
			if code == 0 {
				return
			}
		case cmdchain.ChainIfFail:
			if code != 0 {
				return
			}
		}
	}
}

// buildSink constructs the capture sink for the step's effective handle in
// the given priority order. A nil sink means the stream is not wired at all.
func (c *Coordinator) buildSink(step *cmdchain.Step, order []cmdchain.Handle, vars subst.Context, workDir string) (sink, error) {
	var redir cmdchain.Redirection
	for _, h := range order {
		if step.Redirections[h].IsSet() {
			redir = step.Redirections[h]
			break
		}
	}

	switch redir.Kind {
	case cmdchain.TargetNotSet:
		if c.Collect {
			return &bufferSink{}, nil
		}
		return nil, nil
	case cmdchain.TargetHandle:
		// Duplicated handles always capture, regardless of the collect flag.
		return &bufferSink{}, nil
	default:
		if redir.Path == "" {
			return discardSink{}, nil
		}
		path := vars.Expand(redir.Path)
		if !filepath.IsAbs(path) && workDir != "" {
			path = filepath.Join(workDir, path)
		}
		return openFileSink(path, redir.Append)
	}
}

// abort stops the chain with exit code -1 and the failure message as the
// file's captured stderr, replacing any prior result.
func (c *Coordinator) abort(task *scan.FileTask, err error) {
	task.ExitCode = -1
	task.Stderr = err.Error()
}

// finish seals the task, fires the completion callback, and accounts the
// file on the completion gate. Callback order matters: reporting happens
// before the gate can release the traversal's waiter.
func (c *Coordinator) finish(task *scan.FileTask) {
	task.Completed = true
	if c.OnCompleted != nil {
		c.OnCompleted(task)
	}
	if c.Tracker != nil {
		c.Tracker.FileDone()
	}
}

// recordCapture stores a capturing sink's normalized text into dst and
// closes the sink.
func recordCapture(s sink, dst *string) {
	if s == nil {
		return
	}
	if text, ok := s.Contents(); ok {
		*dst = normalizeCapture(text)
	}
	closeSink(s)
}

func closeSink(s sink) {
	if s != nil {
		s.Close() //nolint:errcheck // capture sinks have nothing left to flush
	}
}

func sinkWriter(s sink) io.Writer {
	if s == nil {
		return nil
	}
	return s
}
