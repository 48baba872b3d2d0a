package diagnostic

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the one-line diagnostic plus the offending source line
// and a caret under the reported column, exactly reproducing
// eval.c:error_message's layout: a 3-char right-aligned line number, " | ",
// the source line with tabs expanded to eight spaces, then a caret line
// aligned the same way.
func Render(w io.Writer, err *Error, sourceText string) {
	fmt.Fprintf(w, "%s: %s: %s\n", err.Position, err.Kind.label(), err.Message)

	line := sourceLine(sourceText, err.Position.Line)
	if line == "" && err.Position.Line <= 0 {
		return
	}

	fmt.Fprintf(w, "%3d | %s\n", err.Position.Line, expandTabs(line))
	fmt.Fprint(w, "      ")
	col := err.Position.Col
	for i := 1; i <= col; i++ {
		ch := byte(' ')
		if i-1 < len(line) {
			ch = line[i-1]
		}
		if ch == '\t' {
			fmt.Fprint(w, strings.Repeat(" ", 8))
			continue
		}
		if i == col {
			fmt.Fprint(w, "^")
		} else {
			fmt.Fprint(w, " ")
		}
	}
	fmt.Fprintln(w)
}

func sourceLine(text string, lineNo int) string {
	if lineNo <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if lineNo > len(lines) {
		return ""
	}
	return lines[lineNo-1]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", 8))
}
