// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// writeFiles populates dir with empty files named by names.
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func collectPaths(node *DirectoryNode, into *[]string) {
	for _, f := range node.Files {
		*into = append(*into, f.RelPath)
	}
	for _, d := range node.Dirs {
		collectPaths(d, into)
	}
}

func TestWalkCountsFilesRecursively(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "skip.log")
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, sub, "c.txt")

	e := &Engine{}
	comp := NewCompletion()
	node, err := e.Walk(context.Background(), Options{Root: root, Pattern: "*.txt", Recurse: true}, comp)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	comp.Wait()

	if got := node.FileCount(); got != 3 {
		t.Errorf("FileCount() = %d, want 3", got)
	}

	var paths []string
	collectPaths(node, &paths)
	sort.Strings(paths)
	want := []string{"a.txt", "b.txt", filepath.Join("sub", "c.txt")}
	if len(paths) != len(want) {
		t.Fatalf("collected %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestWalkWithoutRecurseStaysInRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, sub, "b.txt")

	e := &Engine{}
	comp := NewCompletion()
	node, err := e.Walk(context.Background(), Options{Root: root, Pattern: "*.txt"}, comp)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	comp.Wait()

	if got := node.FileCount(); got != 1 {
		t.Errorf("FileCount() = %d, want 1", got)
	}
	if len(node.Dirs) != 0 {
		t.Errorf("len(Dirs) = %d, want 0", len(node.Dirs))
	}
}

func TestWalkInvalidPatternIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	e := &Engine{}
	comp := NewCompletion()
	_, err := e.Walk(context.Background(), Options{Root: root, Pattern: "["}, comp)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("Walk() error = %v, want ErrInvalidPattern", err)
	}
}

// fakeLister serves a fixed directory map and denies listed directories.
type fakeLister struct {
	files  map[string][]string
	dirs   map[string][]string
	denied map[string]bool
}

func (l fakeLister) ListFiles(dir, pattern string) ([]string, error) {
	if l.denied[dir] {
		return nil, &AccessDeniedError{Dir: dir, Err: os.ErrPermission}
	}
	return l.files[dir], nil
}

func (l fakeLister) ListDirectories(dir string) ([]string, error) {
	if l.denied[dir] {
		return nil, &AccessDeniedError{Dir: dir, Err: os.ErrPermission}
	}
	return l.dirs[dir], nil
}

func TestWalkDeniedSubtreeDoesNotBlockSiblings(t *testing.T) {
	sep := string(filepath.Separator)
	root := sep + "root"
	lister := fakeLister{
		files: map[string][]string{
			root:                          {"top.txt"},
			filepath.Join(root, "open"):   {"ok.txt"},
			filepath.Join(root, "closed"): {"hidden.txt"},
		},
		dirs: map[string][]string{
			root: {"closed", "open"},
		},
		denied: map[string]bool{filepath.Join(root, "closed"): true},
	}

	e := &Engine{Lister: lister}
	comp := NewCompletion()
	node, err := e.Walk(context.Background(), Options{Root: root, Pattern: "*", Recurse: true}, comp)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	comp.Wait()

	if got := node.FileCount(); got != 2 {
		t.Errorf("FileCount() = %d, want 2 (denied subtree treated as empty)", got)
	}
}

// recordExecutor records each dispatched task and completes it.
type recordExecutor struct {
	mu   sync.Mutex
	seen map[string]int
	comp *Completion
}

func (r *recordExecutor) Execute(ctx context.Context, task *FileTask) {
	r.mu.Lock()
	r.seen[task.Path]++
	r.mu.Unlock()
	task.Completed = true
	r.comp.FileDone()
}

func TestWalkDispatchesEachFileExactlyOnce(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt", "c.txt")

	comp := NewCompletion()
	exec := &recordExecutor{seen: make(map[string]int), comp: comp}
	e := &Engine{Exec: exec}

	if _, err := e.Walk(context.Background(), Options{Root: root, Pattern: "*.txt"}, comp); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	select {
	case <-comp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("dispatched executions never completed")
	}

	exec.mu.Lock()
	defer exec.mu.Unlock()
	if len(exec.seen) != 3 {
		t.Fatalf("dispatched %d distinct files, want 3", len(exec.seen))
	}
	for path, n := range exec.seen {
		if n != 1 {
			t.Errorf("file %s dispatched %d times, want 1", path, n)
		}
	}
}

func TestWalkNilExecutorCompletesAtDiscovery(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	e := &Engine{}
	comp := NewCompletion()
	node, err := e.Walk(context.Background(), Options{Root: root, Pattern: "*"}, comp)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	comp.Wait()

	if len(node.Files) != 1 || !node.Files[0].Completed {
		t.Fatal("file was not marked completed at discovery")
	}
}

func TestOSListerSeparatesFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.log")
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := OSLister{}.ListFiles(root, "*.txt")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 1 || files[0] != "a.txt" {
		t.Errorf("ListFiles() = %v, want [a.txt]", files)
	}

	dirs, err := OSLister{}.ListDirectories(root)
	if err != nil {
		t.Fatalf("ListDirectories() error = %v", err)
	}
	if len(dirs) != 1 || dirs[0] != "sub" {
		t.Errorf("ListDirectories() = %v, want [sub]", dirs)
	}
}
