package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	tcs := []struct {
		name      string
		src       string
		wantLines int
		wantEOL   string
	}{
		{name: "empty", src: "", wantLines: 0, wantEOL: "\n"},
		{name: "single newline", src: "\n", wantLines: 1, wantEOL: "\n"},
		{name: "no final newline", src: "a\nb", wantLines: 2, wantEOL: "\n"},
		{name: "final newline", src: "a\nb\n", wantLines: 2, wantEOL: "\n"},
		{name: "crlf", src: "a\r\nb\r\n", wantLines: 2, wantEOL: "\r\n"},
		{name: "blank lines kept", src: "a\n\n\nb\n", wantLines: 4, wantEOL: "\n"},
		{name: "mixed, crlf first", src: "a\r\nb\nc\r\n", wantLines: 3, wantEOL: "\r\n"},
		{name: "mixed, lf first", src: "a\nb\r\nc", wantLines: 3, wantEOL: "\n"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := Parse([]byte(tc.src))
			assert.Equal(t, tc.wantLines, b.LineCount())
			assert.Equal(t, tc.wantEOL, b.EOL())
			assert.Equal(t, tc.src, string(b.Bytes()))
		})
	}
}

func TestLine(t *testing.T) {
	b := Parse([]byte("zero\none\n"))

	got, err := b.Line(1)
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	_, err = b.Line(2)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
	_, err = b.Line(-1)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestParse_MixedSeparators(t *testing.T) {
	b := Parse([]byte("function a() {}\r\nfunction b() {}\nfunction c() {}\r\n"))
	require.Equal(t, 3, b.LineCount())
	for i, want := range []string{"function a() {}", "function b() {}", "function c() {}"} {
		got, err := b.Line(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestInsert(t *testing.T) {
	tcs := []struct {
		name string
		src  string
		pos  Position
		text string
		want string
	}{
		{
			name: "block above line",
			src:  "a\nb\nc\n",
			pos:  Position{Line: 1},
			text: "x\ny\n",
			want: "a\nx\ny\nb\nc\n",
		},
		{
			name: "first line",
			src:  "a\n",
			pos:  Position{Line: 0},
			text: "top\n",
			want: "top\na\n",
		},
		{
			name: "mid-line",
			src:  "hello world\n",
			pos:  Position{Line: 0, Column: 5},
			text: ",",
			want: "hello, world\n",
		},
		{
			name: "end of line",
			src:  "abc",
			pos:  Position{Line: 0, Column: 3},
			text: "\ndef",
			want: "abc\ndef",
		},
		{
			name: "crlf buffer keeps crlf",
			src:  "a\r\nb\r\n",
			pos:  Position{Line: 1},
			text: "x\ny\n",
			want: "a\r\nx\r\ny\r\nb\r\n",
		},
		{
			name: "mixed buffer keeps each line's separator",
			src:  "a\r\nb\nc\r\n",
			pos:  Position{Line: 1},
			text: "x\n",
			want: "a\r\nx\r\nb\nc\r\n",
		},
		{
			name: "split line keeps its separator",
			src:  "a\r\nbc\n",
			pos:  Position{Line: 1, Column: 1},
			text: "\n",
			want: "a\r\nb\r\nc\n",
		},
		{
			name: "crlf text is normalized",
			src:  "a\nb\n",
			pos:  Position{Line: 1},
			text: "x\r\n",
			want: "a\nx\nb\n",
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := Parse([]byte(tc.src))
			require.NoError(t, b.Insert(tc.pos, tc.text))
			assert.Equal(t, tc.want, string(b.Bytes()))
			assert.Equal(t, 1, b.Version())
		})
	}
}

func TestInsert_ErrorsLeaveBufferUnchanged(t *testing.T) {
	const src = "a\nbb\n"
	tcs := []struct {
		name    string
		pos     Position
		wantErr error
	}{
		{name: "line past end", pos: Position{Line: 2}, wantErr: ErrLineOutOfRange},
		{name: "negative line", pos: Position{Line: -1}, wantErr: ErrLineOutOfRange},
		{name: "column past end", pos: Position{Line: 1, Column: 3}, wantErr: ErrColumnOutOfRange},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			b := Parse([]byte(src))
			err := b.Insert(tc.pos, "x\n")
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, src, string(b.Bytes()))
			assert.Equal(t, 0, b.Version())
		})
	}
}

func TestExpect(t *testing.T) {
	b := Parse([]byte("a\nb\n"))

	b.Expect(b.Version())
	require.NoError(t, b.Insert(Position{Line: 0}, "1\n"))

	// Another writer edits after v was observed.
	v := b.Version()
	require.NoError(t, b.Insert(Position{Line: 0}, "2\n"))

	b.Expect(v)
	err := b.Insert(Position{Line: 0}, "3\n")
	assert.True(t, errors.Is(err, ErrStaleBuffer))
	assert.Equal(t, "2\n1\na\nb\n", string(b.Bytes()))

	// The expectation is consumed by the failed attempt.
	require.NoError(t, b.Insert(Position{Line: 0}, "3\n"))
	assert.Equal(t, 3, b.Version())
}

func TestClone(t *testing.T) {
	b := Parse([]byte("a\n"))
	c := b.Clone()
	require.NoError(t, c.Insert(Position{Line: 0}, "x\n"))
	assert.Equal(t, "a\n", string(b.Bytes()))
	assert.Equal(t, "x\na\n", string(c.Bytes()))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0600))

	b, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, b.Insert(Position{Line: 0}, "# hi\n"))
	require.NoError(t, b.Save(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\ndef f():\n    pass\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.py"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
