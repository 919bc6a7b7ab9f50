// Package main merge command.
package main

import (
	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/merge"
	"github.com/l5ktune/l5ktune/internal/render"
)

func mergeCmd() *cobra.Command {
	var outPath string
	var addPats []string
	var removePats []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "merge <current> <updated>",
		Short: "Fold entity additions and removals from one L5K into another",
		Long: `Diff two L5K files and apply the differences to the current one: entities
only in the updated file are added, entities only in the current file are
removed. Entities present in both are left exactly as they are in current.

By default every change is applied. Use --add / --remove patterns to accept
only matching changes; a pattern flag given with no match accepts nothing
from that side.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _, err := parseFile(args[0])
			if err != nil {
				return err
			}
			updated, _, err := parseFile(args[1])
			if err != nil {
				return err
			}

			cs := merge.Diff(current, updated)
			r := render.New(pretty)
			if cs.Empty() || dryRun {
				render.Stdout().Print("%s", r.ChangeSet(cs))
				return nil
			}

			add := cs.Added
			remove := cs.Removed
			if cmd.Flags().Changed("add") {
				add, err = matchKeys(cs.Added, addPats)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("remove") {
				remove, err = matchKeys(cs.Removed, removePats)
				if err != nil {
					return err
				}
			}

			rep := merge.Apply(current, updated, add, remove)
			render.Stderr().Print("%s", r.MergeReport(rep))

			sel := export.SelectAll(current)
			text, exRep := export.Export(current, sel, exportOptions())
			for _, e := range exRep.Errors {
				render.Stderr().Println("Warning: %v", e)
			}
			return writeOutput(outPath, text)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringArrayVar(&addPats, "add", nil, "Accept only additions matching pattern (repeatable)")
	cmd.Flags().StringArrayVar(&removePats, "remove", nil, "Accept only removals matching pattern (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the change set without applying it")
	return cmd
}
