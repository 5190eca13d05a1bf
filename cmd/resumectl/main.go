// Command resumectl renders and compiles LaTeX resumes offline using the same
// packages as the API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "resumectl",
		Short: "Render and compile LaTeX resumes from the command line",
		Long: `resumectl runs the resume pipeline locally.

Examples:
  resumectl escape "R&D 100%"
  resumectl render --profile me.json resume.tex
  resumectl compile --profile me.json resume.tex -o resume.pdf`,
		SilenceUsage: true,
	}
	root.AddCommand(newEscapeCmd(), newRenderCmd(), newCompileCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
