// SPDX-License-Identifier: MPL-2.0

package scan

import "sync/atomic"

// Completion is the one-shot gate the traversal caller blocks on. Two
// independent facts must both hold before it releases: enumeration of the
// whole tree has returned with the final file total, and the completed-file
// counter has reached that total. File executions finish before or after
// enumeration in arbitrary order, so both code paths run the identical
// check-and-signal; a compare-and-swap guarantees the signal fires at most
// once.
type Completion struct {
	total      atomic.Int64
	done       atomic.Int64
	enumerated atomic.Bool
	fired      atomic.Bool
	release    chan struct{}
}

// NewCompletion creates an unreleased gate.
func NewCompletion() *Completion {
	return &Completion{release: make(chan struct{})}
}

// FileDone records one finished file execution.
func (c *Completion) FileDone() {
	c.done.Add(1)
	c.maybeRelease()
}

// EnumerationFinished records that the tree scan has fully returned and the
// final file total is known.
func (c *Completion) EnumerationFinished(total int64) {
	c.total.Store(total)
	c.enumerated.Store(true)
	c.maybeRelease()
}

// CompletedCount returns the number of files whose execution has finished.
func (c *Completion) CompletedCount() int64 {
	return c.done.Load()
}

// Wait blocks until every dispatched execution is accounted for.
func (c *Completion) Wait() {
	<-c.release
}

// Done exposes the release signal for select-based waiters.
func (c *Completion) Done() <-chan struct{} {
	return c.release
}

// maybeRelease fires the signal once both facts hold. The total must be read
// only after the enumerated flag, which EnumerationFinished stores last.
func (c *Completion) maybeRelease() {
	if !c.enumerated.Load() {
		return
	}
	if c.done.Load() < c.total.Load() {
		return
	}
	if c.fired.CompareAndSwap(false, true) {
		close(c.release)
	}
}
