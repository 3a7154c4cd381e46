// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	goruntime "runtime"
	"strings"
	"sync"
	"testing"
)

func TestNativeSpawnRunsProcess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process launch test in short mode")
	}
	if goruntime.GOOS == "windows" {
		t.Skip("test relies on POSIX sh")
	}

	var out bufferSink
	code, err := NativeSpawner{}.Spawn(context.Background(), SpawnSpec{
		Path:   "sh",
		Args:   `-c "echo hello"`,
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if code != 0 {
		t.Errorf("Spawn() code = %d, want 0", code)
	}
	if got, _ := out.Contents(); strings.TrimSpace(got) != "hello" {
		t.Errorf("captured stdout = %q, want %q", got, "hello")
	}
}

func TestNativeSpawnReportsExitCode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process launch test in short mode")
	}
	if goruntime.GOOS == "windows" {
		t.Skip("test relies on POSIX sh")
	}

	code, err := NativeSpawner{}.Spawn(context.Background(), SpawnSpec{
		Path: "sh",
		Args: `-c "exit 7"`,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if code != 7 {
		t.Errorf("Spawn() code = %d, want 7", code)
	}
}

func TestNativeSpawnCancelledContextStillRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process launch test in short mode")
	}
	if goruntime.GOOS == "windows" {
		t.Skip("test relies on POSIX sh")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bufferSink
	code, err := NativeSpawner{}.Spawn(ctx, SpawnSpec{
		Path:   "sh",
		Args:   `-c "echo survived"`,
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if code != 0 {
		t.Errorf("Spawn() code = %d, want 0 (cancellation must not touch the process)", code)
	}
	if got, _ := out.Contents(); strings.TrimSpace(got) != "survived" {
		t.Errorf("captured stdout = %q, want %q", got, "survived")
	}
}

func TestAttachStreamDeliversLongLines(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024) + "\n"
	pipe := func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(long)), nil
	}

	var out bufferSink
	var pumps sync.WaitGroup
	if err := attachStream(pipe, &out, &pumps); err != nil {
		t.Fatalf("attachStream() error = %v", err)
	}
	pumps.Wait()

	got, _ := out.Contents()
	if len(got) != len(long) {
		t.Errorf("pumped %d bytes, want %d (long lines must not truncate)", len(got), len(long))
	}
}

func TestNativeSpawnMissingBinary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping process launch test in short mode")
	}

	_, err := NativeSpawner{}.Spawn(context.Background(), SpawnSpec{
		Path: "definitely-not-a-real-binary-dirun",
	})
	if !errors.Is(err, ErrLaunch) {
		t.Errorf("Spawn() error = %v, want ErrLaunch", err)
	}
}
