package docstub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tcs := []struct {
		name   string
		family Family
		line   string
		want   Declaration
		wantOK bool
	}{
		// Python:
		{name: "py function", family: FamilyPython, line: "def greet(name, age):", want: Declaration{Kind: KindFunction, Name: "greet", Parameters: []string{"name", "age"}}, wantOK: true},
		{name: "py no params", family: FamilyPython, line: "def run():", want: Declaration{Kind: KindFunction, Name: "run"}, wantOK: true},
		{name: "py indented method", family: FamilyPython, line: "    def area(self):", want: Declaration{Kind: KindFunction, Name: "area", Parameters: []string{"self"}}, wantOK: true},
		{name: "py trailing comma", family: FamilyPython, line: "def f(a, b,):", want: Declaration{Kind: KindFunction, Name: "f", Parameters: []string{"a", "b"}}, wantOK: true},
		{name: "py defaults and annotations", family: FamilyPython, line: "def f(a: int = 1, *args, **kw) -> None:", want: Declaration{Kind: KindFunction, Name: "f", Parameters: []string{"a: int = 1", "*args", "**kw"}}, wantOK: true},
		{name: "py unicode name", family: FamilyPython, line: "def größe(x):", want: Declaration{Kind: KindFunction, Name: "größe", Parameters: []string{"x"}}, wantOK: true},
		{name: "py class", family: FamilyPython, line: "class Foo:", want: Declaration{Kind: KindClass, Name: "Foo"}, wantOK: true},
		{name: "py class with bases has no params", family: FamilyPython, line: "class Foo(Base, metaclass=Meta):", want: Declaration{Kind: KindClass, Name: "Foo"}, wantOK: true},
		{name: "py nested paren truncates", family: FamilyPython, line: "def f(a=(1, 2)):", want: Declaration{Kind: KindFunction, Name: "f", Parameters: []string{"a=(1", "2"}}, wantOK: true},
		{name: "py multi-line signature", family: FamilyPython, line: "def f(a,", wantOK: false},
		{name: "py space before paren", family: FamilyPython, line: "def f (a):", wantOK: false},
		{name: "py keyword inside identifier", family: FamilyPython, line: "undef(x)", wantOK: false},
		{name: "py call", family: FamilyPython, line: "greet(name)", wantOK: false},
		{name: "py comment", family: FamilyPython, line: "# def f(x):", wantOK: false},
		{name: "py js syntax", family: FamilyPython, line: "function add(a, b) {", wantOK: false},

		// JavaScript:
		{name: "js function", family: FamilyJavaScript, line: "function add(a, b) {", want: Declaration{Kind: KindFunction, Name: "add", Parameters: []string{"a", "b"}}, wantOK: true},
		{name: "js space before paren", family: FamilyJavaScript, line: "  function noop () {}", want: Declaration{Kind: KindFunction, Name: "noop"}, wantOK: true},
		{name: "js dollar name", family: FamilyJavaScript, line: "function $el(sel) {", want: Declaration{Kind: KindFunction, Name: "$el", Parameters: []string{"sel"}}, wantOK: true},
		{name: "js ts types kept verbatim", family: FamilyJavaScript, line: "function sum(xs: number[], init = 0): number {", want: Declaration{Kind: KindFunction, Name: "sum", Parameters: []string{"xs: number[]", "init = 0"}}, wantOK: true},
		{name: "js class", family: FamilyJavaScript, line: "class Foo {", want: Declaration{Kind: KindClass, Name: "Foo"}, wantOK: true},
		{name: "js class extends", family: FamilyJavaScript, line: "class Foo extends Bar {", want: Declaration{Kind: KindClass, Name: "Foo"}, wantOK: true},
		{name: "js arrow function", family: FamilyJavaScript, line: "const add = (a, b) => a + b;", wantOK: false},
		{name: "js exported function", family: FamilyJavaScript, line: "export function add(a, b) {", wantOK: false},
		{name: "js py syntax", family: FamilyJavaScript, line: "def greet(name):", wantOK: false},

		// Unknown:
		{name: "unknown family", family: FamilyUnknown, line: "def greet(name):", wantOK: false},
		{name: "blank", family: FamilyPython, line: "", wantOK: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Match(tc.line, tc.family)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatch_ClassNeverHasParameters(t *testing.T) {
	for _, line := range []string{"class Foo(a, b):", "class Foo (object):", "class Foo { constructor(a, b) {} }"} {
		for _, f := range []Family{FamilyPython, FamilyJavaScript} {
			d, ok := Match(line, f)
			if assert.True(t, ok, "%s %q", f, line) {
				assert.Equal(t, KindClass, d.Kind)
				assert.Empty(t, d.Parameters)
			}
		}
	}
}
