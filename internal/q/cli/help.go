package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/codalotl/docstub/internal/q/uni"
)

func writeHelp(w io.Writer, cmd *Command) {
	full := commandDisplayName(cmd)
	if cmd.Short != "" {
		fmt.Fprintf(w, "%s - %s\n", full, cmd.Short)
	} else {
		fmt.Fprintf(w, "%s\n", full)
	}

	if cmd.Long != "" {
		fmt.Fprintf(w, "\n%s\n", strings.TrimRight(cmd.Long, "\n"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", usageLine(cmd))

	if len(cmd.children) > 0 {
		children := cmd.Commands()
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		rows := make([][2]string, 0, len(children))
		for _, child := range children {
			rows = append(rows, [2]string{child.Name, child.Short})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		writeColumns(w, rows)
	}

	if defs := cmd.activeFlags().sorted(); len(defs) > 0 {
		rows := make([][2]string, 0, len(defs))
		for _, def := range defs {
			rows = append(rows, [2]string{flagNames(def), strings.TrimSpace(def.usage)})
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		writeColumns(w, rows)
	}

	if cmd.Example != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example:")
		for _, line := range strings.Split(strings.TrimRight(cmd.Example, "\n"), "\n") {
			if line == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// writeColumns writes two-column rows indented by two spaces, with the second column aligned by display width.
func writeColumns(w io.Writer, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, uni.TextWidth(r[0]))
	}
	for _, r := range rows {
		if r[1] == "" {
			fmt.Fprintf(w, "  %s\n", r[0])
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", uni.PadRight(r[0], width), r[1])
	}
}

func flagNames(def *flagDef) string {
	var names string
	if def.shorthand != 0 {
		names = fmt.Sprintf("-%c, --%s", def.shorthand, def.name)
	} else {
		names = "    --" + def.name
	}
	if def.kind != flagBool {
		names += fmt.Sprintf(" <%s>", def.kind)
	}
	return names
}

func commandDisplayName(cmd *Command) string {
	var parts []string
	for _, node := range cmd.pathFromRoot() {
		parts = append(parts, node.Name)
	}
	return strings.Join(parts, " ")
}

func usageLine(cmd *Command) string {
	segments := []string{commandDisplayName(cmd)}
	if len(cmd.activeFlags().byLong) > 0 {
		segments = append(segments, "[flags]")
	}
	if len(cmd.children) > 0 {
		if cmd.Run == nil {
			segments = append(segments, "<command>")
		} else {
			segments = append(segments, "[command]")
		}
	}
	if cmd.Run != nil {
		if cmd.ArgsUsage != "" {
			segments = append(segments, cmd.ArgsUsage)
		} else {
			segments = append(segments, "[args]")
		}
	}
	return strings.Join(segments, " ")
}
