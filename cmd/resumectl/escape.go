package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/latex"
)

func newEscapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "escape [text...]",
		Short: "Escape text for LaTeX (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), latex.Escape(text))
			return err
		},
	}
}
