package docstub

import (
	"regexp"
	"strings"
)

// Kind is the kind of a recognized declaration.
type Kind int

const (
	KindFunction Kind = iota + 1
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Declaration is a function or class signature recognized on a single line.
type Declaration struct {
	Kind       Kind
	Name       string
	Parameters []string // in source order; always empty for classes
}

// The parameter group stops at the first ')': a ')' inside a default value or nested type truncates the list. Multi-line signatures are not recognized.
var (
	pyFuncRE  = regexp.MustCompile(`^\s*def\s+([\p{L}_][\p{L}\p{N}_]*)\(([^)]*)\)`)
	jsFuncRE  = regexp.MustCompile(`^\s*function\s+([\p{L}_$][\p{L}\p{N}_$]*)\s*\(([^)]*)\)`)
	jsClassRE = regexp.MustCompile(`^\s*class\s+([\p{L}_$][\p{L}\p{N}_$]*)`)
	pyClassRE = regexp.MustCompile(`^\s*class\s+([\p{L}_][\p{L}\p{N}_]*)`)
)

// Match classifies line as a function declaration, a class declaration, or neither (ok == false). The function pattern is tried first. An unrecognized family never
// matches.
func Match(line string, family Family) (decl Declaration, ok bool) {
	var funcRE, clsRE *regexp.Regexp
	switch family {
	case FamilyPython:
		funcRE, clsRE = pyFuncRE, pyClassRE
	case FamilyJavaScript:
		funcRE, clsRE = jsFuncRE, jsClassRE
	default:
		return Declaration{}, false
	}

	if m := funcRE.FindStringSubmatch(line); m != nil {
		return Declaration{Kind: KindFunction, Name: m[1], Parameters: splitParams(m[2])}, true
	}
	if m := clsRE.FindStringSubmatch(line); m != nil {
		return Declaration{Kind: KindClass, Name: m[1]}, true
	}
	return Declaration{}, false
}

// splitParams splits a raw parameter list on commas, trimming each piece and dropping empty ones. It returns nil for an empty list.
func splitParams(raw string) []string {
	var params []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		params = append(params, p)
	}
	return params
}
