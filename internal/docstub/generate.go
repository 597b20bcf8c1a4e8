package docstub

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/codalotl/docstub/internal/simplelogger"
)

// markerWindow is how many lines above a declaration are searched for a doc marker.
const markerWindow = 2

// Region is a half-open range of 0-based lines [Start, End) scanned with one Family. A whole file is a single Region; a Markdown file has one Region per fenced code
// block. The doc-marker window never reaches above Start.
type Region struct {
	Start  int
	End    int
	Family Family
}

// Candidate is a declaration found during planning.
type Candidate struct {
	Line       int // 0-based line in the buffer as it was before any insertion
	Family     Family
	Decl       Declaration
	Documented bool // a doc marker was found on one of the two lines above Line
}

// EditError reports a failed insertion for one candidate. A failed insertion leaves the buffer unchanged.
type EditError struct {
	Candidate Candidate
	Err       error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("line %d: %s %s: %v", e.Candidate.Line+1, e.Candidate.Decl.Kind, e.Candidate.Decl.Name, e.Err)
}

func (e *EditError) Unwrap() error { return e.Err }

// Result summarizes a Generate call. Inserted and Skipped are in ascending original line order.
type Result struct {
	Inserted []Candidate
	Skipped  []Candidate  // already documented
	Failed   []*EditError // insertions that could not be applied; the scan continued past them
}

// Err returns the joined Failed errors, or nil if every insertion was applied.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Plan scans regions of buf (read-only) and returns every recognized declaration in ascending line order, marking the ones that already appear documented. Regions
// are clamped to the buffer; a region with an invalid family is an error.
func Plan(buf Buffer, regions ...Region) ([]Candidate, error) {
	total := buf.LineCount()

	var out []Candidate
	for _, r := range regions {
		if !r.Family.Valid() {
			return nil, fmt.Errorf("%w: region [%d, %d)", ErrUnknownFamily, r.Start, r.End)
		}
		start, end := max(r.Start, 0), min(r.End, total)

		for i := start; i < end; i++ {
			text, err := buf.Line(i)
			if err != nil {
				return nil, err
			}
			decl, ok := Match(text, r.Family)
			if !ok {
				continue
			}
			documented, err := hasDocMarker(buf, i, start, r.Family)
			if err != nil {
				return nil, err
			}
			out = append(out, Candidate{Line: i, Family: r.Family, Decl: decl, Documented: documented})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out, nil
}

// hasDocMarker reports whether one of the markerWindow lines above line (and at or below floor) marks it as documented. Line itself is not inspected.
func hasDocMarker(buf Buffer, line, floor int, family Family) (bool, error) {
	for i := line - 1; i >= line-markerWindow && i >= floor; i-- {
		text, err := buf.Line(i)
		if err != nil {
			return false, err
		}
		if family.marksDoc(text) {
			return true, nil
		}
	}
	return false, nil
}

// Generate inserts a doc-comment template above every undocumented declaration in buf, treating the whole buffer as family. See GenerateRegions.
func Generate(ctx context.Context, buf Buffer, family Family) (Result, error) {
	if !family.Valid() {
		return Result{}, ErrUnknownFamily
	}
	return GenerateRegions(ctx, buf, []Region{{Start: 0, End: buf.LineCount(), Family: family}})
}

// GenerateRegions plans all regions against the buffer as it is now, then applies insertions from the bottom of the buffer up, so every original declaration is
// handled exactly once and no insertion shifts a line that is still pending.
//
// A failed insertion does not stop the scan: it is recorded in Result.Failed and the next candidate is attempted. The returned error is non-nil only if planning
// failed or ctx was canceled; in the latter case the partial Result is returned with ctx.Err().
func GenerateRegions(ctx context.Context, buf Buffer, regions []Region) (Result, error) {
	candidates, err := Plan(buf, regions...)
	if err != nil {
		return Result{}, err
	}

	if simplelogger.Enabled() {
		simplelogger.Log("docstub: planned %d declaration(s) in %d region(s)", len(candidates), len(regions))
		for _, c := range candidates {
			simplelogger.Log("docstub: candidate %s %s(%s) at line %d", c.Decl.Kind, c.Decl.Name, strings.Join(c.Decl.Parameters, ", "), c.Line+1)
		}
	}

	var res Result
	var pending []Candidate
	for _, c := range candidates {
		if c.Documented {
			simplelogger.Log("docstub: skip %s %s at line %d: already documented", c.Decl.Kind, c.Decl.Name, c.Line+1)
			res.Skipped = append(res.Skipped, c)
			continue
		}
		pending = append(pending, c)
	}

	// Bottom-up order; flipped back to ascending before returning.
	finish := func() {
		slices.Reverse(res.Inserted)
		slices.Reverse(res.Failed)
	}
	for i := len(pending) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			finish()
			return res, err
		}
		c := pending[i]
		if err := Apply(buf, c.Line, RenderDeclaration(c.Family, c.Decl)); err != nil {
			simplelogger.Log("docstub: insert %s %s at line %d failed: %v", c.Decl.Kind, c.Decl.Name, c.Line+1, err)
			res.Failed = append(res.Failed, &EditError{Candidate: c, Err: err})
			continue
		}
		simplelogger.Log("docstub: inserted template for %s %s at line %d", c.Decl.Kind, c.Decl.Name, c.Line+1)
		res.Inserted = append(res.Inserted, c)
	}
	finish()
	return res, nil
}
