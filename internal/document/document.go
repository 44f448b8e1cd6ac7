// Package document loads a text file into an in-memory, read-only sequence
// of lines addressed by one-based line numbers.
package document

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Document errors.
var (
	// ErrLineOutOfRange is returned when a line number falls outside the document.
	ErrLineOutOfRange = errors.New("no such line")

	// ErrInvalidUTF8 is returned when the file content is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8")
)

// defaultBufSize matches the buffered reader size used for file reads.
const defaultBufSize = 64 * 1024

// Line is a single line of a document.
type Line struct {
	// Number is the one-based position of the line.
	Number int

	// Text is the line content including its terminator, if any.
	Text string
}

// Document is the fully materialized content of a text file.
type Document struct {
	Path  string
	lines []string
}

// DecodeError reports where the content stopped being valid UTF-8.
type DecodeError struct {
	Offset int
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("can't decode byte 0x%02x at offset %d", e.Byte, e.Offset)
}

func (e *DecodeError) Unwrap() error { return ErrInvalidUTF8 }

// Load reads the file at path and splits it into lines.
// The file is opened read-only and closed on every return path.
func Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(bufio.NewReaderSize(f, defaultBufSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Parse(path, data)
}

// Parse builds a document from raw bytes. Content must be valid UTF-8.
// CRLF and lone CR terminators are translated to LF.
func Parse(path string, data []byte) (*Document, error) {
	if off := invalidOffset(data); off >= 0 {
		return nil, fmt.Errorf("failed to decode file: %w", &DecodeError{Offset: off, Byte: data[off]})
	}
	return &Document{Path: path, lines: splitLines(normalizeNewlines(data))}, nil
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Has reports whether line n exists.
func (d *Document) Has(n int) bool {
	return n >= 1 && n <= len(d.lines)
}

// Line returns the one-based line n.
func (d *Document) Line(n int) (Line, error) {
	if !d.Has(n) {
		return Line{}, fmt.Errorf("%w: %d (document has %d lines)", ErrLineOutOfRange, n, len(d.lines))
	}
	return Line{Number: n, Text: d.lines[n-1]}, nil
}

func invalidOffset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func normalizeNewlines(data []byte) []byte {
	if !bytes.ContainsRune(data, '\r') {
		return data
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}

// splitLines keeps each terminator attached to its line.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := make([]string, 0, bytes.Count(data, []byte("\n"))+1)
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	return lines
}
