// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jdm3/dirun/internal/scan"
)

// reporter serializes per-file result output across concurrently completing
// executions. The mutex is held for exactly one file's report.
type reporter struct {
	mu      sync.Mutex
	out     io.Writer
	collect bool

	passed int
	failed int
}

func newReporter(out io.Writer, collect bool) *reporter {
	return &reporter{out: out, collect: collect}
}

// FileCompleted is the completion callback: invoked exactly once per
// dispatched file, after its chain stops.
func (r *reporter) FileCompleted(task *scan.FileTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marker := PassStyle.Render("PASS")
	if task.Failed() {
		marker = FailStyle.Render("FAIL")
		r.failed++
	} else {
		r.passed++
	}
	fmt.Fprintf(r.out, "%s %s (exit %d)\n", marker, CmdStyle.Render(task.RelPath), task.ExitCode)

	if r.collect {
		writeCaptured(r.out, "stdout", task.Stdout)
		writeCaptured(r.out, "stderr", task.Stderr)
	}
}

// FailedCount returns the number of failed files reported so far. The caller
// reads it only after the completion gate has released.
func (r *reporter) FailedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Summary prints the run totals.
func (r *reporter) Summary(total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\n%d files: %s, %s\n",
		total,
		PassStyle.Render(fmt.Sprintf("%d passed", r.passed)),
		FailStyle.Render(fmt.Sprintf("%d failed", r.failed)))
}

// Listing prints the matched files when no command is configured.
func (r *reporter) Listing(node *scan.DirectoryNode) {
	r.listDir(node)
	fmt.Fprintf(r.out, "\n%d files matched\n", node.FileCount())
}

func (r *reporter) listDir(node *scan.DirectoryNode) {
	for _, task := range node.Files {
		fmt.Fprintln(r.out, CmdStyle.Render(task.RelPath))
	}
	for _, child := range node.Dirs {
		r.listDir(child)
	}
}

// writeCaptured prints one captured stream indented under the file's result
// line.
func writeCaptured(out io.Writer, label, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(out, "  %s:\n", SubtitleStyle.Render(label))
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(out, "    %s\n", VerboseStyle.Render(line))
	}
}
