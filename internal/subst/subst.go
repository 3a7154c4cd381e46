// SPDX-License-Identifier: MPL-2.0

// Package subst implements %DIRUN_*% variable expansion for per-file command
// lines, redirection targets, and working directories.
package subst

import (
	"os"
	"path/filepath"
	"strings"
)

// markerPrefix opens every recognized variable marker. Matching is
// case-insensitive; the marker ends at the next '%'.
const markerPrefix = "%DIRUN_"

// Context supplies the file and search root that marker values derive from.
type Context struct {
	// FilePath is the absolute path of the matched file.
	FilePath string
	// Root is the search root that *_REL markers resolve against.
	Root string
}

// Expand replaces every recognized %DIRUN_<NAME>% marker in s with its value
// for this file. Unrecognized names inside valid marker delimiters are left
// verbatim; the scan always advances past them.
func (c Context) Expand(s string) string {
	upper := strings.ToUpper(s)

	var b strings.Builder
	i := 0
	for i < len(s) {
		rest := upper[i:]
		if !strings.HasPrefix(rest, markerPrefix) {
			j := strings.IndexByte(rest, '%')
			if j < 0 {
				b.WriteString(s[i:])
				break
			}
			if j == 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			b.WriteString(s[i : i+j])
			i += j
			continue
		}

		end := strings.IndexByte(rest[len(markerPrefix):], '%')
		if end < 0 {
			// Unterminated marker, keep the rest verbatim.
			b.WriteString(s[i:])
			break
		}

		name := upper[i+len(markerPrefix) : i+len(markerPrefix)+end]
		markerLen := len(markerPrefix) + end + 1
		if v, ok := c.value(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[i : i+markerLen])
		}
		i += markerLen
	}
	return b.String()
}

// ContainsMarker reports whether s contains a %DIRUN_...% marker. Callers use
// this to decide whether a configuration value can be validated immediately or
// must be resolved per file first.
func ContainsMarker(s string) bool {
	upper := strings.ToUpper(s)
	i := strings.Index(upper, markerPrefix)
	if i < 0 {
		return false
	}
	return strings.IndexByte(upper[i+len(markerPrefix):], '%') >= 0
}

// value resolves a marker name (already upper-cased) to its expansion.
func (c Context) value(name string) (string, bool) {
	switch name {
	case "FNAME":
		base := filepath.Base(c.FilePath)
		return strings.TrimSuffix(base, filepath.Ext(base)), true
	case "FEXT":
		return strings.TrimPrefix(filepath.Ext(c.FilePath), "."), true
	case "FPATH":
		return c.FilePath, true
	case "DPATH":
		return trimSeparator(filepath.Dir(c.FilePath)), true
	case "FPATH_REL":
		return c.relative(c.FilePath), true
	case "DPATH_REL":
		return c.relative(trimSeparator(filepath.Dir(c.FilePath))), true
	}
	return "", false
}

// relative rewrites p relative to the search root, falling back to the
// absolute path when no relative form exists (different volumes).
func (c Context) relative(p string) string {
	rel, err := filepath.Rel(c.Root, p)
	if err != nil {
		return p
	}
	return rel
}

// trimSeparator drops a trailing path separator, keeping the filesystem root
// intact.
func trimSeparator(dir string) string {
	trimmed := strings.TrimRight(dir, string(os.PathSeparator))
	if trimmed == "" {
		return dir
	}
	return trimmed
}
