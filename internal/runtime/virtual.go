// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jdm3/dirun/internal/cmdchain"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualSpawner runs steps through the embedded mvdan/sh POSIX interpreter
// instead of spawning an OS process. It is always available, which makes it
// useful on hosts without the target executables on PATH semantics dirun
// expects.
type VirtualSpawner struct{}

// Spawn implements Spawner.
func (VirtualSpawner) Spawn(ctx context.Context, spec SpawnSpec) (int, error) {
	line, err := shellLine(spec)
	if err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: err}
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "step")
	if err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: fmt.Errorf("parsing step: %w", err)}
	}

	stdout := newLineWriter(orDiscard(spec.Stdout))
	stderr := newLineWriter(orDiscard(spec.Stderr))

	runner, err := interp.New(
		interp.Dir(spec.Dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return -1, &LaunchError{Path: spec.Path, Err: err}
	}

	// Cancellation only gates starting new directory scans; a step that is
	// already running always finishes on its own.
	runErr := runner.Run(context.WithoutCancel(ctx), prog)
	stdout.Flush() //nolint:errcheck // capture sinks do not fail
	stderr.Flush() //nolint:errcheck // capture sinks do not fail

	if runErr == nil {
		return 0, nil
	}
	var status interp.ExitStatus
	if errors.As(runErr, &status) {
		return int(status), nil
	}
	return -1, &LaunchError{Path: spec.Path, Err: runErr}
}

// shellLine rebuilds a shell command line from the step's path and pre-quoted
// argument string, re-quoting every word for the POSIX interpreter.
func shellLine(spec SpawnSpec) (string, error) {
	words := append([]string{spec.Path}, cmdchain.SplitTokens(spec.Args)...)
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", w, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
