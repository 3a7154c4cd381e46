// SPDX-License-Identifier: MPL-2.0

// Package scan walks a directory tree in parallel, building the
// DirectoryNode/FileTask model and dispatching command execution for each
// matched file without waiting for it. The Completion gate accounts for all
// dispatched work.
package scan

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Executor runs the configured command chain against one discovered file.
// Implementations must record the file's completion on the Completion gate
// exactly once, after the chain stops.
type Executor interface {
	Execute(ctx context.Context, task *FileTask)
}

// Engine is the directory traversal engine. Sibling files and sibling
// subdirectories are scanned concurrently with no explicit fan-out limit.
type Engine struct {
	// Lister is the filesystem collaborator. Defaults to OSLister.
	Lister Lister
	// Exec receives each matched file as independent work. Nil means no
	// command is configured; files then complete at discovery.
	Exec Executor
	// Log receives non-fatal warnings (denied directories). Nil disables
	// logging.
	Log *log.Logger
}

// Walk scans opts.Root and returns its DirectoryNode once enumeration has
// fully returned. It does not wait for dispatched executions; callers block
// on comp. A fatal error (invalid filter pattern, unreadable root below a
// permission problem excepted) aborts the traversal.
//
// Cancellation is cooperative: it is checked once at the start of each
// directory visit, and already-dispatched executions are never terminated.
func (e *Engine) Walk(ctx context.Context, opts Options, comp *Completion) (*DirectoryNode, error) {
	if e.Lister == nil {
		e.Lister = OSLister{}
	}

	root := &DirectoryNode{Name: opts.Root}
	if err := e.scanDir(ctx, opts.Root, opts, root, comp); err != nil {
		return nil, err
	}
	comp.EnumerationFinished(root.FileCount())
	return root, nil
}

// scanDir visits one directory: lists its matching files, dispatches their
// executions, then fans out into subdirectories. The node's recursive count
// is final only after every subdirectory scan has returned.
func (e *Engine) scanDir(ctx context.Context, dir string, opts Options, node *DirectoryNode, comp *Completion) error {
	if ctx.Err() != nil {
		return nil
	}

	files, err := e.Lister.ListFiles(dir, opts.Pattern)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			e.warn("skipping unreadable directory", "dir", dir, "err", err)
			return nil
		}
		return err
	}

	for _, name := range files {
		task := newTask(dir, name, opts.Root)
		node.Files = append(node.Files, task)
		e.dispatch(ctx, task, comp)
	}
	node.addFileCount(int64(len(files)))

	if !opts.Recurse {
		return nil
	}

	subdirs, err := e.Lister.ListDirectories(dir)
	if err != nil {
		if errors.Is(err, ErrAccessDenied) {
			e.warn("skipping unreadable directory", "dir", dir, "err", err)
			return nil
		}
		return err
	}

	grp, gctx := errgroup.WithContext(ctx)
	for _, name := range subdirs {
		child := &DirectoryNode{Name: name}
		node.Dirs = append(node.Dirs, child)
		childPath := filepath.Join(dir, name)
		grp.Go(func() error {
			if err := e.scanDir(gctx, childPath, opts, child, comp); err != nil {
				return err
			}
			node.addFileCount(child.FileCount())
			return nil
		})
	}
	return grp.Wait()
}

// dispatch hands a matched file to the executor as independent work and
// returns immediately; the scan never blocks on execution.
func (e *Engine) dispatch(ctx context.Context, task *FileTask, comp *Completion) {
	if e.Exec == nil {
		task.Completed = true
		comp.FileDone()
		return
	}
	go e.Exec.Execute(ctx, task)
}

func (e *Engine) warn(msg string, kv ...any) {
	if e.Log != nil {
		e.Log.Warn(msg, kv...)
	}
}

func newTask(dir, name, root string) *FileTask {
	path := filepath.Join(dir, name)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return &FileTask{Path: path, RelPath: rel, Name: name}
}
