// Package uni measures and trims text by terminal display width, treating each grapheme cluster as one unit.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// cond assumes a non-East Asian locale with emoji counted by their strict width.
var cond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	c.StrictEmojiNeutral = true
	return c
}()

// TextWidth returns the text width of str for monospace fonts in terminals.
func TextWidth(str string) int {
	return cond.StringWidth(str)
}

// Truncate shortens str so that it, plus tail, fits within width columns. It cuts between grapheme clusters, never inside one. If str already fits, it is returned
// unchanged and tail is not added. If even tail does not fit, the result is "".
func Truncate(str string, width int, tail string) string {
	if TextWidth(str) <= width {
		return str
	}
	budget := width - TextWidth(tail)
	if budget < 0 {
		return ""
	}

	var b strings.Builder
	used := 0
	iter := graphemes.FromString(str)
	for iter.Next() {
		g := iter.Value()
		w := cond.StringWidth(g)
		if used+w > budget {
			break
		}
		used += w
		b.WriteString(g)
	}
	b.WriteString(tail)
	return b.String()
}

// PadRight appends spaces to str until it is width columns wide. Strings already at least width wide are returned unchanged.
func PadRight(str string, width int) string {
	if n := width - TextWidth(str); n > 0 {
		return str + strings.Repeat(" ", n)
	}
	return str
}
