// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"io"
	"os"
	"strings"
)

type (
	// sink is a capture destination for one process stream. Contents reports
	// the captured text and whether this sink captures at all (file and
	// discard sinks do not).
	sink interface {
		io.Writer
		Contents() (string, bool)
		Close() error
	}

	// bufferSink captures the stream in memory.
	bufferSink struct {
		buf bytes.Buffer
	}

	// fileSink writes the stream to an opened redirect target.
	fileSink struct {
		f *os.File
	}

	// discardSink drops the stream.
	discardSink struct{}
)

func (s *bufferSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *bufferSink) Contents() (string, bool)    { return s.buf.String(), true }
func (s *bufferSink) Close() error                { return nil }

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *fileSink) Contents() (string, bool)    { return "", false }
func (s *fileSink) Close() error                { return s.f.Close() }

func (discardSink) Write(p []byte) (int, error) { return len(p), nil }
func (discardSink) Contents() (string, bool)    { return "", false }
func (discardSink) Close() error                { return nil }

// openFileSink opens a redirect target file, honoring append mode.
func openFileSink(path string, appendMode bool) (sink, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, &RedirectionError{Path: path, Err: err}
	}
	return &fileSink{f: f}, nil
}

// normalizeCapture unifies line endings and trims trailing blank lines from
// captured text.
func normalizeCapture(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(s, "\n")
}

// lineWriter buffers partial writes and forwards whole lines to dst. The
// spawners use it to satisfy the line-by-line delivery contract for streams
// that arrive in arbitrary chunks.
type lineWriter struct {
	dst io.Writer
	buf []byte
}

func newLineWriter(dst io.Writer) *lineWriter {
	return &lineWriter{dst: dst}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			return len(p), nil
		}
		if _, err := w.dst.Write(w.buf[:i+1]); err != nil {
			return len(p), err
		}
		w.buf = w.buf[i+1:]
	}
}

// Flush forwards any unterminated final line.
func (w *lineWriter) Flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.dst.Write(w.buf)
	w.buf = nil
	return err
}
