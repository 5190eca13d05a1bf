package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"resume-builder/internal/compiler"
	"resume-builder/internal/shared/config"
)

type compileOptions struct {
	renderOptions
	output string
}

func newCompileCmd() *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile <document.tex>",
		Short: "Compile a document to PDF with the configured compiler",
		Long: `Compile renders the document (when --profile is set) and runs the
compiler selected by COMPILER_MODE. On failure the compiler's stderr is
printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := renderFile(args[0], opts.renderOptions)
			if err != nil {
				return err
			}
			comp, err := compiler.New(config.Load().Compiler)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return compileTo(ctx, comp, source, opts.output, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "profile JSON in the resume-info request shape")
	cmd.Flags().BoolVar(&opts.strict, "strict", true, "fail on template errors instead of compiling the source unchanged")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "resume.pdf", "where to write the PDF")
	return cmd
}

func compileTo(ctx context.Context, comp compiler.Compiler, source, output string, cmd *cobra.Command) error {
	res, err := comp.Compile(ctx, source)
	if err != nil {
		if cerr, ok := compiler.AsError(err); ok && cerr.Stderr != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), cerr.Stderr)
		}
		return err
	}
	if err := os.WriteFile(output, res.PDF, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, job %s, %s)\n", output, len(res.PDF), res.JobID, res.Duration)
	return nil
}
