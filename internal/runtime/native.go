// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"github.com/jdm3/dirun/internal/cmdchain"
)

// NativeSpawner launches steps as real OS processes via os/exec. The
// pre-quoted argument string is re-split with the chain tokenizer before the
// process is started.
type NativeSpawner struct{}

// Spawn implements Spawner. It blocks until the process exits; concurrent
// spawns for other files are unaffected. The context is deliberately not
// wired to the process: cancellation only gates starting new directory
// scans, and a process that is already running always finishes on its own.
func (NativeSpawner) Spawn(ctx context.Context, spec SpawnSpec) (int, error) {
	argv := cmdchain.SplitTokens(spec.Args)

	cmd := exec.Command(spec.Path, argv...)
	cmd.Dir = spec.Dir

	var pumps sync.WaitGroup
	if err := attachStream(cmd.StdoutPipe, spec.Stdout, &pumps); err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: err}
	}
	if err := attachStream(cmd.StderrPipe, spec.Stderr, &pumps); err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: err}
	}

	pumps.Wait()
	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, &LaunchError{Path: spec.Path, Err: err}
}

// attachStream connects one process pipe to a sink, pumping whole lines on a
// dedicated goroutine. Lines of any length are delivered intact. A nil sink
// leaves the pipe unattached so the stream is discarded.
func attachStream(pipe func() (io.ReadCloser, error), dst io.Writer, pumps *sync.WaitGroup) error {
	if dst == nil {
		return nil
	}
	r, err := pipe()
	if err != nil {
		return err
	}
	pumps.Add(1)
	go func() {
		defer pumps.Done()
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				dst.Write([]byte(line)) //nolint:errcheck // sink failures must not stall the pump
			}
			if err != nil {
				return
			}
		}
	}()
	return nil
}
