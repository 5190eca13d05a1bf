package tmpl

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"
	"time"

	"resume-builder/internal/latex"
)

const (
	dateLayout  = "Jan 2006"
	presentWord = "Present"
)

// Markup is LaTeX produced by a helper. It is already escaped and is printed
// verbatim.
type Markup string

// Funcs returns the helper set available to documents.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": FormatDate,
		"join":       Join,
		"upper":      Upper,
	}
}

// FormatDate renders a date as "Jan 2006". Nil or zero dates render as
// "Present".
func FormatDate(v any) (Markup, error) {
	switch d := v.(type) {
	case nil:
		return presentWord, nil
	case time.Time:
		if d.IsZero() {
			return presentWord, nil
		}
		return Markup(latex.Escape(d.Format(dateLayout))), nil
	case *time.Time:
		if d == nil || d.IsZero() {
			return presentWord, nil
		}
		return Markup(latex.Escape(d.Format(dateLayout))), nil
	default:
		return "", fmt.Errorf("formatDate: unsupported type %T", v)
	}
}

// Join renders the display name of each item, escaped, separated by sep. The
// separator is document markup and is emitted as written.
func Join(items any, sep string) (Markup, error) {
	if items == nil {
		return "", nil
	}
	rv := reflect.ValueOf(items)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", fmt.Errorf("join: expected a list, got %T", items)
	}
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		name, err := displayName(rv.Index(i).Interface())
		if err != nil {
			return "", fmt.Errorf("join: item %d: %w", i, err)
		}
		if name.Empty() {
			continue
		}
		parts = append(parts, name.String())
	}
	return Markup(strings.Join(parts, sep)), nil
}

// Upper uppercases a raw value and escapes the result.
func Upper(v any) (Markup, error) {
	raw, err := rawText(v)
	if err != nil {
		return "", fmt.Errorf("upper: %w", err)
	}
	return Markup(latex.Escape(strings.ToUpper(raw))), nil
}

func displayName(item any) (latex.Text, error) {
	switch v := item.(type) {
	case displayNamer:
		return v.DisplayName(), nil
	case latex.Text:
		return v, nil
	case string:
		return latex.Text(v), nil
	case Markup:
		return "", ErrAlreadyRendered
	default:
		return "", fmt.Errorf("unsupported item type %T", item)
	}
}

func rawText(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case latex.Text:
		return string(s), nil
	case string:
		return s, nil
	case Markup:
		return "", ErrAlreadyRendered
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
