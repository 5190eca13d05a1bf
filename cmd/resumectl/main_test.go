package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/compiler"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEscapeCommand(t *testing.T) {
	out, err := execute(t, "", "escape", "R&D", "100%")
	require.NoError(t, err)
	require.Equal(t, `R\&D 100\%`, out)

	out, err = execute(t, "#1 $5", "escape")
	require.NoError(t, err)
	require.Equal(t, `\#1 \$5`, out)
}

func TestRenderCommand(t *testing.T) {
	doc := writeFile(t, "resume.tex", `\name{ {{.Name}} }`)
	profile := writeFile(t, "me.json", `{"basicInfo":{"name":"Ada & Co"}}`)

	out, err := execute(t, "", "render", "--profile", profile, doc)
	require.NoError(t, err)
	require.Equal(t, `\name{ Ada \& Co }`, out)

	out, err = execute(t, "", "render", doc)
	require.NoError(t, err)
	require.Equal(t, `\name{ {{.Name}} }`, out)
}

func TestRenderCommandStrictFailure(t *testing.T) {
	doc := writeFile(t, "resume.tex", `\name{ {{.Nope}} }`)
	profile := writeFile(t, "me.json", `{"basicInfo":{"name":"Ada"}}`)

	_, err := execute(t, "", "render", "--profile", profile, doc)
	require.Error(t, err)

	out, err := execute(t, "", "render", "--strict=false", "--profile", profile, doc)
	require.NoError(t, err)
	require.Equal(t, `\name{ {{.Nope}} }`, out)
}

func TestRenderCommandInvalidProfile(t *testing.T) {
	doc := writeFile(t, "resume.tex", `{{.Name}}`)
	profile := writeFile(t, "me.json", `{"basicInfo":{"name":""}}`)

	_, err := execute(t, "", "render", "--profile", profile, doc)
	require.Error(t, err)
}

type fixedCompiler struct {
	pdf []byte
	err error
}

func (f fixedCompiler) Compile(ctx context.Context, source string) (compiler.Result, error) {
	if f.err != nil {
		return compiler.Result{}, f.err
	}
	return compiler.Result{JobID: "job", PDF: f.pdf}, nil
}

func TestCompileTo(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	target := filepath.Join(t.TempDir(), "out.pdf")

	require.NoError(t, compileTo(context.Background(), fixedCompiler{pdf: []byte("%PDF")}, "src", target, cmd))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(data))

	out.Reset()
	failing := fixedCompiler{err: &compiler.Error{Kind: compiler.KindFailed, Message: "failed", Stderr: "! Missing $ inserted."}}
	require.Error(t, compileTo(context.Background(), failing, "src", target, cmd))
	require.Contains(t, out.String(), "Missing $ inserted")
}
