// SPDX-License-Identifier: MPL-2.0

package scan

import "sync/atomic"

type (
	// FileTask is one matched file and the execution result recorded against
	// it. A task is created when the file is discovered, mutated only by the
	// executor running its chain, and immutable once Completed is true.
	FileTask struct {
		// Path is the absolute file path.
		Path string
		// RelPath is the path relative to the search root.
		RelPath string
		// Name is the bare file name.
		Name string

		// Stdout and Stderr hold captured, normalized output text.
		Stdout string
		Stderr string
		// ExitCode is the last recorded exit code. -1 marks an aborted chain.
		ExitCode int
		// Completed is set once the chain has stopped.
		Completed bool
	}

	// DirectoryNode is one directory of the scanned tree: its matched files,
	// its subdirectories, and the recursive file count accumulated as
	// concurrently scanned subtrees finish.
	DirectoryNode struct {
		// Name is the directory's bare name (the root node carries the root
		// path).
		Name string
		// Files are the matched files directly in this directory.
		Files []*FileTask
		// Dirs are the child directories.
		Dirs []*DirectoryNode

		fileCount atomic.Int64
	}

	// Options is the traversal context: where to scan, what to match, and
	// whether to descend.
	Options struct {
		// Root is the search root path.
		Root string
		// Pattern is the file name filter.
		Pattern string
		// Recurse descends into subdirectories when set.
		Recurse bool
	}
)

// Failed reports whether the task's chain stopped with a non-zero exit code.
func (t *FileTask) Failed() bool {
	return t.ExitCode != 0
}

// FileCount returns the recursive file count. The value is only final after
// the node's subtree scan has fully returned; intermediate reads during a
// concurrent scan may observe a partial count.
func (n *DirectoryNode) FileCount() int64 {
	return n.fileCount.Load()
}

// addFileCount contributes a finished subtree's count. Siblings complete
// concurrently, so the accumulation must stay atomic.
func (n *DirectoryNode) addFileCount(delta int64) {
	n.fileCount.Add(delta)
}
