// Package main export command.
package main

import (
	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/render"
)

func exportCmd() *cobra.Command {
	var outPath string
	var include []string
	var exclude []string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a filtered L5K containing the selected entities",
		Long: `Parse an L5K file, select a subset of its entities, and write a new
L5K containing only that subset. Tag values and defaults are stripped.

Selection patterns match entity keys of the form KIND/Name or
KIND/Program.Name, for example:

  l5ktune export plant.L5K --include 'UDT/*' --include 'AOI/Motor*'
  l5ktune export plant.L5K --exclude 'PROGRAM_TAG/Test.*' -o trimmed.L5K`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := parseFile(args[0])
			if err != nil {
				return err
			}
			sel, err := buildSelection(p, include, exclude)
			if err != nil {
				return err
			}
			text, rep := export.Export(p, sel, exportOptions())
			for _, e := range rep.Errors {
				render.Stderr().Println("Warning: %v", e)
			}
			return writeOutput(outPath, text)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringArrayVar(&include, "include", nil, "Include entities matching pattern (repeatable)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Exclude entities matching pattern (repeatable)")
	return cmd
}
