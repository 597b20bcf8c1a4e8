// Package buffer holds a source file in memory as lines and applies atomic text insertions to it.
//
// A Buffer remembers the separator ("\n" or "\r\n") that ended each line, and whether the last line had one, so that Bytes reproduces the original bytes exactly when
// no edits were made, including files that mix separators. Positions are 0-based (line, column) pairs; columns are byte offsets into the line.
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrLineOutOfRange is returned when a line index does not exist in the buffer.
	ErrLineOutOfRange = errors.New("buffer: line out of range")

	// ErrColumnOutOfRange is returned when an insertion column is beyond the end of its line.
	ErrColumnOutOfRange = errors.New("buffer: column out of range")

	// ErrStaleBuffer is returned when an edit was made against an expected version but the buffer was changed in between.
	ErrStaleBuffer = errors.New("buffer: modified since expected version")
)

const (
	eolLF   = "\n"
	eolCRLF = "\r\n"
)

// Position is a 0-based location in a Buffer.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Buffer is an editable, line-oriented view of a text file. The zero value is an empty buffer using "\n".
//
// Buffer is not safe for concurrent use.
type Buffer struct {
	lines []string
	ends  []string // ends[i] is the separator after lines[i]; "" only for a last line with no separator
	eol   string

	version   int
	expected  int
	hasExpect bool
}

// Parse splits src into lines at every "\n", stripping a "\r" right before it. Each line keeps its own separator for Bytes. EOL, the separator given to inserted lines,
// is "\r\n" if the first line break in src is "\r\n", otherwise "\n".
func Parse(src []byte) *Buffer {
	b := &Buffer{eol: eolLF}
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		b.eol = eolCRLF
	}

	text := string(src)
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			b.lines = append(b.lines, text)
			b.ends = append(b.ends, "")
			break
		}
		line, end := text[:i], eolLF
		if strings.HasSuffix(line, "\r") {
			line, end = line[:len(line)-1], eolCRLF
		}
		b.lines = append(b.lines, line)
		b.ends = append(b.ends, end)
		text = text[i+1:]
	}
	return b
}

// Load reads the file at path into a Buffer.
func Load(path string) (*Buffer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(src), nil
}

// Bytes returns the buffer contents, each line followed by its separator.
func (b *Buffer) Bytes() []byte {
	if len(b.lines) == 0 {
		return nil
	}
	var out bytes.Buffer
	for i, line := range b.lines {
		out.WriteString(line)
		out.WriteString(b.ends[i])
	}
	return out.Bytes()
}

// Save writes the buffer to path. It writes to a temp file in the same directory and renames it over path, so readers never see a partially written file. The mode
// of an existing file at path is kept; new files get 0644.
func (b *Buffer) Save(path string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".docstub-*")
	if err != nil {
		return fmt.Errorf("buffer: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("buffer: write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("buffer: chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("buffer: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("buffer: rename onto %s: %w", path, err)
	}
	return nil
}

// EOL returns the line separator given to lines added by Insert.
func (b *Buffer) EOL() string {
	if b.eol == "" {
		return eolLF
	}
	return b.eol
}

// LineCount returns the number of lines. A trailing separator does not start an extra line.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of line i without its separator.
func (b *Buffer) Line(i int) (string, error) {
	if i < 0 || i >= len(b.lines) {
		return "", fmt.Errorf("%w: %d (have %d lines)", ErrLineOutOfRange, i, len(b.lines))
	}
	return b.lines[i], nil
}

// Version returns a counter that increases by one with every successful edit.
func (b *Buffer) Version() int {
	return b.version
}

// Expect makes the next edit fail with ErrStaleBuffer unless the buffer is still at version v. The expectation is consumed by the next edit attempt, whether or not
// it succeeds.
func (b *Buffer) Expect(v int) {
	b.expected = v
	b.hasExpect = true
}

// Insert inserts text at pos. Text may span several lines ("\n" separated; a trailing "\r" on each piece is dropped so callers can pass either separator). pos must
// name an existing line, and its column may be at most the line's length. The edit is atomic: on error, the buffer is unchanged.
func (b *Buffer) Insert(pos Position, text string) error {
	if b.hasExpect {
		expected := b.expected
		b.hasExpect = false
		if expected != b.version {
			return fmt.Errorf("%w: expected version %d, at %d", ErrStaleBuffer, expected, b.version)
		}
	}

	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return fmt.Errorf("%w: %d (have %d lines)", ErrLineOutOfRange, pos.Line, len(b.lines))
	}
	target := b.lines[pos.Line]
	if pos.Column < 0 || pos.Column > len(target) {
		return fmt.Errorf("%w: line %d has %d bytes, column %d", ErrColumnOutOfRange, pos.Line, len(target), pos.Column)
	}
	if text == "" {
		return nil
	}

	pieces := strings.Split(text, "\n")
	for i, p := range pieces {
		pieces[i] = strings.TrimSuffix(p, "\r")
	}
	pieces[0] = target[:pos.Column] + pieces[0]
	pieces[len(pieces)-1] += target[pos.Column:]

	// New lines take EOL; the last piece keeps the split line's own separator.
	ends := make([]string, len(pieces))
	for i := range ends {
		ends[i] = b.EOL()
	}
	ends[len(ends)-1] = b.ends[pos.Line]

	b.lines = splice(b.lines, pos.Line, pieces)
	b.ends = splice(b.ends, pos.Line, ends)
	b.version++
	return nil
}

// Clone returns an independent copy of b. Version and expectation state are copied too.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.lines = append([]string(nil), b.lines...)
	c.ends = append([]string(nil), b.ends...)
	return &c
}

// splice returns a copy of s with s[i] replaced by repl.
func splice(s []string, i int, repl []string) []string {
	out := make([]string, 0, len(s)+len(repl)-1)
	out = append(out, s[:i]...)
	out = append(out, repl...)
	return append(out, s[i+1:]...)
}
