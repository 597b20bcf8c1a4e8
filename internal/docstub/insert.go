package docstub

import (
	"fmt"
	"strings"

	"github.com/codalotl/docstub/internal/buffer"
)

// Buffer is the text a scan reads and edits. *buffer.Buffer implements it.
//
// Insert must be atomic: either all of text is inserted or, on error, none of it.
type Buffer interface {
	LineCount() int
	Line(i int) (string, error)
	Insert(pos buffer.Position, text string) error
}

// Indentation returns the leading run of spaces and tabs of line.
func Indentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Reindent prefixes every line of template with indent, so each physical line of the inserted block starts with the target line's indentation.
func Reindent(template, indent string) string {
	if indent == "" {
		return template
	}
	return indent + strings.ReplaceAll(template, "\n", "\n"+indent)
}

// Apply inserts template, re-indented to match line's indentation and followed by one line break, at column 0 of line. The original line's content is unchanged
// and ends up directly below the inserted block. An empty template is a no-op.
func Apply(buf Buffer, line int, template string) error {
	if template == "" {
		return nil
	}
	text, err := buf.Line(line)
	if err != nil {
		return err
	}
	block := Reindent(template, Indentation(text)) + "\n"
	if err := buf.Insert(buffer.Position{Line: line, Column: 0}, block); err != nil {
		return fmt.Errorf("insert at line %d: %w", line+1, err)
	}
	return nil
}
