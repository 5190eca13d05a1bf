package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/internal/latex/tmpl"
	"resume-builder/internal/profiles"
)

type renderOptions struct {
	profile string
	strict  bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <document.tex>",
		Short: "Resolve template directives against a profile and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderFile(args[0], opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "profile JSON in the resume-info request shape")
	cmd.Flags().BoolVar(&opts.strict, "strict", true, "fail on template errors instead of printing the source unchanged")
	return cmd
}

// renderFile reads path and, when a profile is given, resolves its directives.
func renderFile(path string, opts renderOptions) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	src := string(raw)
	if opts.profile == "" {
		return src, nil
	}
	data, err := loadProfile(opts.profile)
	if err != nil {
		return "", err
	}
	if !opts.strict {
		return tmpl.Render(src, data), nil
	}
	if !tmpl.HasDirectives(src) {
		return src, nil
	}
	out, err := tmpl.Execute(src, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return out, nil
}

func loadProfile(path string) (tmpl.Context, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tmpl.Context{}, fmt.Errorf("read profile: %w", err)
	}
	var in profiles.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return tmpl.Context{}, fmt.Errorf("decode profile: %w", err)
	}
	p, err := in.ToProfile(time.Now().UTC())
	if err != nil {
		return tmpl.Context{}, err
	}
	return p.TemplateContext(), nil
}
