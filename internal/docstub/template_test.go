package docstub

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tcs := []struct {
		name   string
		family Family
		decl   string
		params []string
		want   string
	}{
		{
			name:   "python with params",
			family: FamilyPython,
			decl:   "greet",
			params: []string{"name", "age"},
			want:   "\"\"\"greet description.\n\n:param name: DESCRIPTION\n:param age: DESCRIPTION\n:return: DESCRIPTION\n\"\"\"",
		},
		{
			name:   "python without params",
			family: FamilyPython,
			decl:   "run",
			want:   "\"\"\"run description.\n:return: DESCRIPTION\n\"\"\"",
		},
		{
			name:   "javascript with params",
			family: FamilyJavaScript,
			decl:   "add",
			params: []string{"a", "b"},
			want:   "/**\n * add description.\n * @param {any} a DESCRIPTION\n * @param {any} b DESCRIPTION\n * @returns {any} DESCRIPTION\n */",
		},
		{
			name:   "javascript without params",
			family: FamilyJavaScript,
			decl:   "Foo",
			want:   "/**\n * Foo description.\n * @returns {any} DESCRIPTION\n */",
		},
		{
			name:   "unknown family",
			family: FamilyUnknown,
			decl:   "x",
			params: []string{"a"},
			want:   "",
		},
		{
			name:   "out of range family",
			family: Family(42),
			decl:   "x",
			want:   "",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Render(tc.family, tc.decl, tc.params))
		})
	}
}

func TestRender_NoDanglingParamSection(t *testing.T) {
	got := Render(FamilyPython, "run", nil)
	assert.NotContains(t, got, ":param")
	assert.NotContains(t, got, "\n\n")
}

func TestRender_Deterministic(t *testing.T) {
	params := []string{"z", "a", "m"}
	first := Render(FamilyJavaScript, "f", params)
	for range 5 {
		assert.Equal(t, first, Render(FamilyJavaScript, "f", params))
	}
	// Parameters keep input order.
	assert.Less(t, strings.Index(first, "} z "), strings.Index(first, "} a "))
	assert.Less(t, strings.Index(first, "} a "), strings.Index(first, "} m "))
}

func TestRenderDeclaration(t *testing.T) {
	d, ok := Match("def greet(name, age):", FamilyPython)
	assert.True(t, ok)
	assert.Equal(t, Render(FamilyPython, "greet", []string{"name", "age"}), RenderDeclaration(FamilyPython, d))
}
