// Package latex converts untrusted text into LaTeX that renders literally.
package latex

import "strings"

const (
	caretMacro = `\textasciicircum{}`
	tildeMacro = `\textasciitilde{}`
)

// Escape returns s with every LaTeX special character replaced by its
// literal-rendering form. Backslashes are left as-is.
//
// Escape is not idempotent: escaping `\#` again yields `\\#`. Callers must
// escape each raw value exactly once; Text does that at emission time.
func Escape(s string) string {
	if !NeedsEscape(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, r := range s {
		switch r {
		case '#', '%', '&', '$', '_', '{', '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '^':
			b.WriteString(caretMacro)
		case '~':
			b.WriteString(tildeMacro)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NeedsEscape reports whether s contains any character Escape rewrites.
func NeedsEscape(s string) bool {
	return strings.ContainsAny(s, "#%&$_{}^~")
}

// Text is user-supplied content destined for a LaTeX document. Its raw value
// is kept intact and only reachable by conversion in Go code; String returns
// the escaped form, so printing a Text into a template escapes it exactly once.
type Text string

// String returns the escaped value.
func (t Text) String() string {
	return Escape(string(t))
}

// Empty reports whether the value is blank after trimming.
func (t Text) Empty() bool {
	return strings.TrimSpace(string(t)) == ""
}
