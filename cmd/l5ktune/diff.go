// Package main diff command.
package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/merge"
	"github.com/l5ktune/l5ktune/internal/render"
)

func diffCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "diff <current> <updated>",
		Short: "Compare two L5K files by entity key",
		Long: `Parse two L5K files and list the entities present in only one of them.
Entities existing in both are not compared further; bodies may differ.`,
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
			if asJSON {
				data, err := json.MarshalIndent(cs, "", "  ")
				if err != nil {
					return err
				}
				render.Stdout().Println("%s", data)
				return nil
			}
			render.Stdout().Print("%s", render.New(pretty).ChangeSet(cs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
