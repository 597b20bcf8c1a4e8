package docstub

import (
	"errors"
	"strings"

	"github.com/codalotl/docstub/internal/detectlang"
)

// Family is a language family: it decides which declarations are recognized, which doc marker counts as "already documented", and what template is rendered.
type Family int

const (
	FamilyUnknown Family = iota

	// FamilyPython covers whitespace-delimited languages: `def`/`class` declarations documented by a triple-quoted block with :param/:return fields.
	FamilyPython

	// FamilyJavaScript covers brace-delimited languages: `function`/`class` declarations documented by a /** ... */ block with @param/@returns tags.
	FamilyJavaScript
)

// ErrUnknownFamily is returned when an operation needs a recognized Family and got FamilyUnknown (or an out-of-range value).
var ErrUnknownFamily = errors.New("docstub: unknown language family")

func (f Family) String() string {
	switch f {
	case FamilyPython:
		return "python"
	case FamilyJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the recognized families.
func (f Family) Valid() bool {
	return f == FamilyPython || f == FamilyJavaScript
}

// FamilyForLang returns the family used to document files of lang, or FamilyUnknown.
func FamilyForLang(lang detectlang.Lang) Family {
	switch lang {
	case detectlang.LangPython:
		return FamilyPython
	case detectlang.LangJavaScript, detectlang.LangTypeScript:
		return FamilyJavaScript
	default:
		return FamilyUnknown
	}
}

// marksDoc reports whether line, found on one of the two lines above a declaration, shows that the declaration is already documented.
//
// For FamilyJavaScript a line holding only the block close also counts: the line right above a documented declaration is " */", and "/**" is usually further up
// than the window. A close that ends some other comment on the same line (ex: "/* eslint-disable */") does not.
func (f Family) marksDoc(line string) bool {
	switch f {
	case FamilyPython:
		return strings.Contains(line, `"""`) || strings.Contains(line, `'''`)
	case FamilyJavaScript:
		return strings.Contains(line, "/**") || strings.TrimSpace(line) == "*/"
	default:
		return false
	}
}
