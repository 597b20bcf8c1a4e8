package detectlang

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Lang represents a detected language.
type Lang string

const (
	LangUnknown    Lang = ""
	LangPython     Lang = "py"
	LangJavaScript Lang = "js"
	LangTypeScript Lang = "ts"
	LangMarkdown   Lang = "md"
)

var extToLang = map[string]Lang{
	".py":       LangPython,
	".pyi":      LangPython,
	".js":       LangJavaScript,
	".mjs":      LangJavaScript,
	".cjs":      LangJavaScript,
	".jsx":      LangJavaScript,
	".ts":       LangTypeScript,
	".tsx":      LangTypeScript,
	".mts":      LangTypeScript,
	".cts":      LangTypeScript,
	".md":       LangMarkdown,
	".markdown": LangMarkdown,
}

// infoToLang maps the first word of a fenced code block's info string.
var infoToLang = map[string]Lang{
	"py":         LangPython,
	"python":     LangPython,
	"python3":    LangPython,
	"pyi":        LangPython,
	"js":         LangJavaScript,
	"javascript": LangJavaScript,
	"mjs":        LangJavaScript,
	"cjs":        LangJavaScript,
	"jsx":        LangJavaScript,
	"node":       LangJavaScript,
	"ts":         LangTypeScript,
	"typescript": LangTypeScript,
	"tsx":        LangTypeScript,
}

// ForPath returns the language indicated by path's extension. Extensions are compared case-insensitively. extra, which may be nil, adds or overrides mappings; its
// keys are extensions with or without the leading dot (ex: ".pyw" or "pyw").
//
// Only the path is inspected: the file need not exist.
func ForPath(path string, extra map[string]Lang) Lang {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return LangUnknown
	}
	for k, lang := range extra {
		if NormalizeExt(k) == ext {
			return lang
		}
	}
	return extToLang[ext]
}

// ForInfoString returns the language named by a Markdown fenced code block info string (ex: "python", "js title=app.js"). Only the first word is considered. Braced
// attribute syntax ("{.python}") is accepted.
func ForInfoString(info string) Lang {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return LangUnknown
	}
	word := strings.ToLower(strings.Trim(fields[0], "{}"))
	word = strings.TrimPrefix(word, ".")
	return infoToLang[word]
}

// ParseLang parses a language name as written in config files and flags. It accepts Lang values ("py", "js", "ts", "md") as well as anything ForInfoString
// recognizes ("python", "typescript", ...).
func ParseLang(s string) (Lang, error) {
	switch l := Lang(strings.ToLower(strings.TrimSpace(s))); l {
	case LangPython, LangJavaScript, LangTypeScript, LangMarkdown:
		return l, nil
	}
	if l := ForInfoString(s); l != LangUnknown {
		return l, nil
	}
	if strings.EqualFold(strings.TrimSpace(s), "markdown") {
		return LangMarkdown, nil
	}
	return LangUnknown, fmt.Errorf("detectlang: unknown language %q", s)
}

// NormalizeExt lowercases ext and ensures it has a leading dot. An empty ext stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
