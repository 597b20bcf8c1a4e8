package docstub

import "strings"

// Placeholder is the token left in rendered templates for the user to replace.
const Placeholder = "DESCRIPTION"

// Render returns the unindented doc-comment template for a declaration named name with params (in order). Lines are separated by "\n" and the result has no trailing
// newline. An unrecognized family renders "" and callers must insert nothing.
//
// Python:
//
//	"""greet description.
//
//	:param name: DESCRIPTION
//	:return: DESCRIPTION
//	"""
//
// JavaScript:
//
//	/**
//	 * add description.
//	 * @param {any} a DESCRIPTION
//	 * @returns {any} DESCRIPTION
//	 */
func Render(family Family, name string, params []string) string {
	var lines []string
	switch family {
	case FamilyPython:
		lines = append(lines, `"""`+name+" description.")
		if len(params) > 0 {
			lines = append(lines, "")
			for _, p := range params {
				lines = append(lines, ":param "+p+": "+Placeholder)
			}
		}
		lines = append(lines, ":return: "+Placeholder, `"""`)

	case FamilyJavaScript:
		lines = append(lines, "/**", " * "+name+" description.")
		for _, p := range params {
			lines = append(lines, " * @param {any} "+p+" "+Placeholder)
		}
		lines = append(lines, " * @returns {any} "+Placeholder, " */")

	default:
		return ""
	}
	return strings.Join(lines, "\n")
}

// RenderDeclaration is Render for a matched Declaration.
func RenderDeclaration(family Family, d Declaration) string {
	return Render(family, d.Name, d.Parameters)
}
