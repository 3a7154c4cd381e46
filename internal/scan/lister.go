// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid file filter pattern")
	// ErrAccessDenied is the sentinel error wrapped by AccessDeniedError.
	ErrAccessDenied = errors.New("access denied")
)

type (
	// Lister is the filesystem collaborator the traversal engine reads
	// directories through.
	Lister interface {
		// ListFiles returns the names of files in dir matching pattern.
		ListFiles(dir, pattern string) ([]string, error)
		// ListDirectories returns the names of immediate subdirectories of dir.
		ListDirectories(dir string) ([]string, error)
	}

	// InvalidPatternError is returned when the file filter pattern cannot be
	// compiled. It is fatal to the whole traversal.
	InvalidPatternError struct {
		Pattern string
	}

	// AccessDeniedError is returned when a directory listing is refused.
	// The subtree is treated as empty; siblings and ancestors are unaffected.
	AccessDeniedError struct {
		Dir string
		Err error
	}
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid file filter pattern %q", e.Pattern)
}

// Unwrap returns ErrInvalidPattern so callers can use errors.Is.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// Error implements the error interface.
func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied listing %s: %v", e.Dir, e.Err)
}

// Unwrap returns ErrAccessDenied so callers can use errors.Is.
func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }

// OSLister reads directories through the os package. File name matching uses
// filepath.Match semantics.
type OSLister struct{}

// ListFiles implements Lister.
func (OSLister) ListFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classifyListErr(dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, &InvalidPatternError{Pattern: pattern}
		}
		if ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ListDirectories implements Lister.
func (OSLister) ListDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, classifyListErr(dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func classifyListErr(dir string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &AccessDeniedError{Dir: dir, Err: err}
	}
	return fmt.Errorf("listing %s: %w", dir, err)
}
