// Package docstub finds function and class declarations in source text and inserts a documentation-comment template above each one that is not already documented.
//
// Two language families are supported. FamilyPython recognizes `def name(params)` and `class Name` lines and renders a triple-quoted block with :param and :return
// fields. FamilyJavaScript recognizes `function name(params)` and `class Name` lines and renders a /** ... */ block with @param and @returns tags. Templates carry
// the Placeholder token where a human should write the description.
//
// Matching is single-line and regular-expression based: multi-line signatures are not recognized, and a ')' inside a parameter default truncates the parameter list.
// A declaration counts as documented if one of the two lines directly above it contains the family's doc marker. This is a heuristic: a marker in an unrelated
// comment hides a declaration, and a doc comment separated from its declaration by decorators is not seen.
//
// Use Generate (or GenerateRegions for files where only some line ranges are code, such as fenced blocks in Markdown) to document a Buffer in place. Planning reads
// the buffer once; insertions are then applied from the bottom up, so each original declaration is handled exactly once. Failed insertions are collected in
// Result.Failed rather than aborting the scan. Running Generate twice inserts nothing the second time.
package docstub
