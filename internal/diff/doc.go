// Package diff computes line-level diffs between an "old" and a "new" text and renders them as unified diffs.
//
// A Diff holds both texts and an ordered slice of hunks that, when concatenated, reconstruct both sides. Each hunk is OpEqual, OpInsert, OpDelete, or OpReplace;
// lines keep their trailing '\n' when the input had one.
//
//	d := diff.DiffText(oldText, newText)
//	fmt.Print(d.RenderUnifiedDiff(false, "a/app.py", "b/app.py", 3))
//
// '\n' is the line separator. A "\r" before it is treated as line content, so CRLF files diff correctly but render with the "\r" stripped.
package diff
