package diff

import (
	"fmt"
	"strings"
)

// taggedLine is one rendered line of a unified diff: tag is ' ', '-', or '+'. text keeps any '\r' so that the rendered diff applies to CRLF files.
type taggedLine struct {
	tag   byte
	text  string
	noEOL bool // last line of its text, with no trailing '\n'
}

func newTaggedLine(tag byte, line string) taggedLine {
	text, ok := strings.CutSuffix(line, "\n")
	return taggedLine{tag: tag, text: text, noEOL: !ok}
}

const noNewlineMarker = "\\ No newline at end of file"

// flatten lists every line of d in order, deletions before insertions within a replaced run.
func (d Diff) flatten() []taggedLine {
	var out []taggedLine
	for _, h := range d.Hunks {
		if h.Op == OpEqual {
			for _, ln := range h.OldLines {
				out = append(out, newTaggedLine(' ', ln))
			}
			continue
		}
		for _, ln := range h.OldLines {
			out = append(out, newTaggedLine('-', ln))
		}
		for _, ln := range h.NewLines {
			out = append(out, newTaggedLine('+', ln))
		}
	}
	return out
}

// RenderUnifiedDiff returns a unified diff with contextSize unchanged lines around each change. Changes separated by at most 2*contextSize unchanged lines share
// one @@ hunk. A line that ends its text without a newline is followed by a "\ No newline at end of file" line, as in diff(1). If color, the diff includes ANSI color
// markers. If d has no changes, the result is "". Otherwise it ends with "\n".
func (d Diff) RenderUnifiedDiff(color bool, fromFilename string, toFilename string, contextSize int) string {
	if !d.HasChanges() {
		return ""
	}
	contextSize = max(contextSize, 0)

	const (
		reset    = "\x1b[0m"
		red      = "\x1b[31m"
		green    = "\x1b[32m"
		magenta  = "\x1b[35m"
		cyanBold = "\x1b[1;36m"
	)
	colorize := func(s, code string) string {
		if !color {
			return s
		}
		return code + s + reset
	}

	lines := d.flatten()

	// oldBefore[i] and newBefore[i] count the old/new lines preceding lines[i].
	oldBefore := make([]int, len(lines)+1)
	newBefore := make([]int, len(lines)+1)
	for i, ln := range lines {
		oldBefore[i+1], newBefore[i+1] = oldBefore[i], newBefore[i]
		if ln.tag != '+' {
			oldBefore[i+1]++
		}
		if ln.tag != '-' {
			newBefore[i+1]++
		}
	}

	var b strings.Builder
	b.WriteString(colorize("--- "+fromFilename, cyanBold) + "\n")
	b.WriteString(colorize("+++ "+toFilename, cyanBold) + "\n")

	for i := 0; i < len(lines); {
		if lines[i].tag == ' ' {
			i++
			continue
		}

		// Extend the group while the gap to the next change is small enough to share context.
		end := i + 1
		for j := end; j < len(lines); j++ {
			if lines[j].tag != ' ' {
				end = j + 1
				continue
			}
			if j-end+1 > 2*contextSize {
				break
			}
		}
		start := max(i-contextSize, 0)
		stop := min(end+contextSize, len(lines))

		oldCount := oldBefore[stop] - oldBefore[start]
		newCount := newBefore[stop] - newBefore[start]
		header := fmt.Sprintf("@@ -%s +%s @@", hunkRange(oldBefore[start], oldCount), hunkRange(newBefore[start], newCount))
		b.WriteString(colorize(header, magenta) + "\n")

		for _, ln := range lines[start:stop] {
			s := string(ln.tag) + ln.text
			switch ln.tag {
			case '-':
				s = colorize(s, red)
			case '+':
				s = colorize(s, green)
			}
			b.WriteString(s + "\n")
			if ln.noEOL {
				b.WriteString(noNewlineMarker + "\n")
			}
		}
		i = stop
	}
	return b.String()
}

// hunkRange formats a unified-diff range given the number of lines before it. An empty range names the line it follows.
func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}
