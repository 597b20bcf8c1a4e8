package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Op is an operation from old text to new text.
type Op int

// Operations from old text to new text.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "equal"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Diff is a line diff from old text to new text.
//
// Invariants:
//   - concat(Hunks.OldLines) == OldText
//   - concat(Hunks.NewLines) == NewText
//   - adjacent hunks never share an Op when that Op is OpEqual
type Diff struct {
	OldText string
	NewText string
	Hunks   []Hunk
}

// Hunk is a maximal run of lines with one operation. For OpEqual, OldLines and NewLines are identical. For OpInsert, OldLines is empty; for OpDelete, NewLines
// is empty.
type Hunk struct {
	Op       Op
	OldLines []string // each line includes its trailing '\n', except possibly the last line of the text
	NewLines []string
}

// DiffText diffs oldText to newText line by line.
func DiffText(oldText, newText string) Diff {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	lineDiffs := dmp.DiffMainRunes(rOld, rNew, false)
	lineDiffs = dmp.DiffCleanupMerge(lineDiffs)

	// Each rune indexes lineArray.
	decode := func(s string) []string {
		var out []string
		for _, r := range s {
			if idx := int(r); idx >= 0 && idx < len(lineArray) {
				out = append(out, lineArray[idx])
			}
		}
		return out
	}

	var hunks []Hunk
	var dels, ins []string
	flush := func() {
		switch {
		case len(dels) > 0 && len(ins) > 0:
			hunks = append(hunks, Hunk{Op: OpReplace, OldLines: dels, NewLines: ins})
		case len(dels) > 0:
			hunks = append(hunks, Hunk{Op: OpDelete, OldLines: dels})
		case len(ins) > 0:
			hunks = append(hunks, Hunk{Op: OpInsert, NewLines: ins})
		}
		dels, ins = nil, nil
	}

	for _, d := range lineDiffs {
		lines := decode(d.Text)
		if len(lines) == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			hunks = append(hunks, Hunk{Op: OpEqual, OldLines: lines, NewLines: lines})
		case diffmatchpatch.DiffDelete:
			dels = append(dels, lines...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, lines...)
		}
	}
	flush()

	return Diff{OldText: oldText, NewText: newText, Hunks: hunks}
}

// HasChanges reports whether the old and new texts differ.
func (d Diff) HasChanges() bool {
	for _, h := range d.Hunks {
		if h.Op != OpEqual {
			return true
		}
	}
	return false
}

// Stats returns the number of inserted and deleted lines. A replaced line counts once on each side.
func (d Diff) Stats() (inserted, deleted int) {
	for _, h := range d.Hunks {
		if h.Op == OpEqual {
			continue
		}
		inserted += len(h.NewLines)
		deleted += len(h.OldLines)
	}
	return inserted, deleted
}

