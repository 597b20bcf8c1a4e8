package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/codalotl/docstub/internal/detectlang"
)

// target is one file to process and the language it is processed as.
type target struct {
	path string
	lang detectlang.Lang
}

// collectTargets expands paths into files. Named files use forced if set, else their extension; a named file with no known language is an error. Directories are
// walked recursively: files are classified by extension only, and files with no known language, paths matching cfg.Exclude, and (if !cfg.Markdown) Markdown files
// are skipped. Each file appears once, in the order first reached.
//
// Errors for individual paths are returned alongside the targets that could be collected.
func collectTargets(paths []string, cfg Config, forced detectlang.Lang) ([]target, []error) {
	extra := cfg.extraLangs()
	seen := map[string]bool{}
	var targets []target
	var errs []error

	add := func(path string, lang detectlang.Lang) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		targets = append(targets, target{path: path, lang: lang})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if !info.IsDir() {
			lang := forced
			if lang == detectlang.LangUnknown {
				lang = detectlang.ForPath(p, extra)
			}
			if lang == detectlang.LangUnknown {
				errs = append(errs, fmt.Errorf("%s: cannot determine language (use --lang)", p))
				continue
			}
			add(p, lang)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != p && isExcluded(path, cfg.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			lang := detectlang.ForPath(path, extra)
			if lang == detectlang.LangUnknown || (lang == detectlang.LangMarkdown && !cfg.Markdown) {
				return nil
			}
			add(path, lang)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return targets, errs
}

// isExcluded reports whether path ends with one of patterns, compared whole path element by whole path element (so "vendor" matches "a/vendor" but not
// "a/myvendor").
func isExcluded(path string, patterns []string) bool {
	slashed := filepath.ToSlash(filepath.Clean(path))
	for _, p := range patterns {
		p = strings.Trim(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if slashed == p || strings.HasSuffix(slashed, "/"+p) {
			return true
		}
	}
	return false
}
