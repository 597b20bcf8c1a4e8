package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/codalotl/docstub/internal/buffer"
	"github.com/codalotl/docstub/internal/detectlang"
	"github.com/codalotl/docstub/internal/diff"
	"github.com/codalotl/docstub/internal/docstub"
	"github.com/codalotl/docstub/internal/fences"
	"github.com/codalotl/docstub/internal/simplelogger"
)

// regionsFor returns the regions of buf to scan for a file of lang. A source file is one region; a Markdown file has one region per fenced code block whose info
// string names a supported language. Blocks inside block quotes are left out: their lines carry a "> " prefix that declarations cannot be matched through.
func regionsFor(buf *buffer.Buffer, lang detectlang.Lang) ([]docstub.Region, error) {
	if lang != detectlang.LangMarkdown {
		family := docstub.FamilyForLang(lang)
		if !family.Valid() {
			return nil, fmt.Errorf("%w: %q", docstub.ErrUnknownFamily, lang)
		}
		return []docstub.Region{{Start: 0, End: buf.LineCount(), Family: family}}, nil
	}

	blocks, err := fences.Find(buf.Bytes())
	if err != nil {
		return nil, err
	}
	var regions []docstub.Region
	for _, b := range blocks {
		if b.Quoted {
			simplelogger.Log("docstub: skip quoted fence at line %d", b.StartLine)
			continue
		}
		family := docstub.FamilyForLang(detectlang.ForInfoString(b.Info))
		if !family.Valid() {
			continue
		}
		regions = append(regions, docstub.Region{Start: b.StartLine, End: b.EndLine, Family: family})
	}
	return regions, nil
}

type processOptions struct {
	dryRun  bool
	color   bool
	context int
	diffOut io.Writer // receives unified diffs when dryRun is set
}

// outcome is what processing one file produced.
type outcome struct {
	docstub.Result
	linesAdded int // set for dry runs: lines the rendered diff adds
}

// processFile inserts templates into one file and saves it. With dryRun set the file is left untouched and a unified diff is written to opts.diffOut instead.
//
// Failed insertions are reported in the Result; the returned error is for failures that prevent processing the file at all (or a canceled ctx).
func processFile(ctx context.Context, t target, opts processOptions) (outcome, error) {
	buf, err := buffer.Load(t.path)
	if err != nil {
		return outcome{}, err
	}
	regions, err := regionsFor(buf, t.lang)
	if err != nil {
		return outcome{}, err
	}

	work := buf
	if opts.dryRun {
		work = buf.Clone()
	}
	res, err := docstub.GenerateRegions(ctx, work, regions)
	out := outcome{Result: res}
	if err != nil {
		return out, err
	}
	if len(res.Inserted) == 0 {
		return out, nil
	}

	if opts.dryRun {
		name := filepath.ToSlash(t.path)
		d := diff.DiffText(string(buf.Bytes()), string(work.Bytes()))
		out.linesAdded, _ = d.Stats()
		_, err := io.WriteString(opts.diffOut, d.RenderUnifiedDiff(opts.color, "a/"+name, "b/"+name, opts.context))
		return out, err
	}

	simplelogger.Log("docstub: saving %s (%d insertion(s))", t.path, len(res.Inserted))
	if err := work.Save(t.path); err != nil {
		return out, err
	}
	return out, nil
}

// summary is the one-line completion message for a processed file. Dry runs also report how many lines the diff adds.
func summary(path string, out outcome, dryRun bool) string {
	verb := "inserted"
	if dryRun {
		verb = "would insert"
	}
	msg := fmt.Sprintf("%s: %s %d doc comment template(s)", path, verb, len(out.Inserted))
	if dryRun && out.linesAdded > 0 {
		msg += fmt.Sprintf(" (+%d lines)", out.linesAdded)
	}
	if n := len(out.Skipped); n > 0 {
		msg += fmt.Sprintf(", skipped %d already documented", n)
	}
	return msg
}
