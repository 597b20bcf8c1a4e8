// Package docstubtesting has helpers for tests that feed source text through docstub.
package docstubtesting

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// Dedent removes the common leading indentation from each non-blank line in s. Spaces and tabs both count as indentation; the smallest indent among non-blank lines
// is removed from all non-blank lines. Blank-only lines do not affect the indent; interior blank lines are preserved, and leading/trailing blank lines are trimmed.
// The result always ends with a single '\n'.
//
// Unlike a code formatter, Dedent keeps trailing spaces on non-blank lines, since inserted templates may carry indentation on otherwise empty lines.
func Dedent(s string) string {
	s = strings.Trim(s, "\n")
	lines := strings.Split(s, "\n")

	minIndent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			if len(line) > minIndent && minIndent >= 0 {
				lines[i] = line[minIndent:]
			} else {
				lines[i] = ""
			}
			continue
		}
		if minIndent > 0 {
			lines[i] = line[minIndent:]
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Case is one fixture loaded from a txtar archive: Input is the file before processing and Want the expected result. Ext is the extension shared by both entries
// (ex: ".py"), which selects the language.
type Case struct {
	Name  string
	Ext   string
	Input string
	Want  string
}

// LoadCases reads every archive matching glob. Each archive must hold an "input<ext>" and a "want<ext>" file; the archive comment is ignored. The test fails if an
// archive is malformed.
func LoadCases(t *testing.T, glob string) []Case {
	t.Helper()

	paths, err := filepath.Glob(glob)
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no fixtures match %s", glob)

	var cases []Case
	for _, p := range paths {
		ar, err := txtar.ParseFile(p)
		require.NoError(t, err)

		c := Case{Name: strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))}
		var haveInput, haveWant bool
		for _, f := range ar.Files {
			ext := filepath.Ext(f.Name)
			switch strings.TrimSuffix(f.Name, ext) {
			case "input":
				c.Input, c.Ext, haveInput = string(f.Data), ext, true
			case "want":
				c.Want, haveWant = string(f.Data), true
			}
		}
		require.True(t, haveInput && haveWant, "%s: need input and want files", p)
		cases = append(cases, c)
	}
	return cases
}
