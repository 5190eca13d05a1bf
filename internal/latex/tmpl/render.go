// Package tmpl binds profile data into LaTeX documents.
//
// The directive grammar is text/template's action syntax (substitution,
// if/else, range) plus the helpers formatDate, join and upper. No generic
// escaping is applied by the engine; escaping comes from latex.Text values and
// from the helpers themselves.
package tmpl

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"text/template"

	"resume-builder/internal/shared/telemetry"
)

// GrammarVersion identifies the supported directive set. Bump it when adding
// helpers or actions.
const GrammarVersion = 1

var directivePattern = regexp.MustCompile(`\{\{-?\s*[.#/$(A-Za-z"][^{}]*\}\}`)

// HasDirectives reports whether src contains at least one template directive.
// LaTeX groups such as {{\bf x}} do not count.
//
// A directive must not touch a LaTeX brace: \textbf{{{.Name}}} is detected
// but does not parse, so Render returns it unchanged. Write
// \textbf{ {{.Name}} } instead.
func HasDirectives(src string) bool {
	return directivePattern.MatchString(src)
}

// Execute resolves every directive in src against data.
func Execute(src string, data any) (string, error) {
	t, err := template.New("document").
		Funcs(Funcs()).
		Option("missingkey=error").
		Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render returns src with its directives resolved. Sources without directives
// are returned unchanged. If resolution fails the original source is returned,
// so the compiler reports the problem instead of the request failing here.
// See HasDirectives for the brace spacing rule.
func Render(src string, data any) string {
	if !HasDirectives(src) {
		return src
	}
	out, err := Execute(src, data)
	if err != nil {
		telemetry.Error("template.render_failed", map[string]any{
			"error":           err.Error(),
			"grammar_version": GrammarVersion,
			"source_bytes":    len(src),
		})
		return src
	}
	return out
}

// ErrAlreadyRendered is returned by helpers given output of another helper
// where raw text is required.
var ErrAlreadyRendered = errors.New("argument is already rendered markup")
