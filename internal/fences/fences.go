// Package fences locates fenced code blocks in Markdown source.
package fences

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrUnterminated is returned when a fenced code block is never closed. Markdown renders such a block as running to the end of its container; docstub refuses to
// edit the file instead.
var ErrUnterminated = errors.New("fences: unterminated fenced code block")

// Block is one fenced code block. Lines are 0-based, counted in the whole source; [StartLine, EndLine) covers the block's content, excluding the fence lines.
type Block struct {
	Info      string // info string after the opening fence, ex: "python" or "js title=app.js"
	StartLine int
	EndLine   int
	Quoted    bool // inside a block quote: every content line carries a "> " prefix
}

// Find parses src as CommonMark and returns its fenced code blocks in document order, including blocks nested in lists and block quotes. Blocks with no content
// lines are omitted. A block whose closing fence is missing (so that it runs to the end of its container) is an ErrUnterminated error.
func Find(src []byte) ([]Block, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	if root == nil {
		return nil, errors.New("fences: parse markdown: nil document")
	}
	srcLines := bytes.Split(src, []byte("\n"))

	var blocks []Block
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := fcb.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		b := Block{
			StartLine: bytes.Count(src[:lines.At(0).Start], []byte("\n")),
			EndLine:   bytes.Count(src[:lines.At(lines.Len()-1).Start], []byte("\n")) + 1,
			Quoted:    inBlockquote(fcb),
		}
		if fcb.Info != nil {
			b.Info = string(fcb.Info.Value(src))
		}
		if !isClosed(srcLines, b.StartLine-1, b.EndLine) {
			return ast.WalkStop, fmt.Errorf("%w (opened on line %d)", ErrUnterminated, b.StartLine)
		}
		blocks = append(blocks, b)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func inBlockquote(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindBlockquote {
			return true
		}
	}
	return false
}

// isClosed reports whether the line after a block's content is a closing fence for the opener on line opener: the same character (backtick or tilde), at least as
// long, with nothing after it. Container prefixes (indentation, "> ") are ignored on the closing line.
func isClosed(lines [][]byte, opener, after int) bool {
	if opener < 0 || after >= len(lines) {
		return false
	}
	ch, n := fenceRun(lines[opener])
	if n == 0 {
		return false
	}
	closing := bytes.TrimLeft(bytes.TrimRight(lines[after], " \t\r"), " \t>")
	m := countLeading(closing, ch)
	return m >= n && m == len(closing)
}

// fenceRun finds the first run of three or more backticks or tildes in line (the opening fence, after any list marker or quote prefix).
func fenceRun(line []byte) (byte, int) {
	for i := 0; i < len(line); i++ {
		if line[i] != '`' && line[i] != '~' {
			continue
		}
		if n := countLeading(line[i:], line[i]); n >= 3 {
			return line[i], n
		}
	}
	return 0, 0
}

func countLeading(b []byte, c byte) int {
	n := 0
	for n < len(b) && b[n] == c {
		n++
	}
	return n
}
