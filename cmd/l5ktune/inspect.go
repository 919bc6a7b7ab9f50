// Package main inspect command.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/model"
	"github.com/l5ktune/l5ktune/internal/render"
)

func inspectCmd() *cobra.Command {
	var asJSON bool
	var listKeys bool

	cmd := &cobra.Command{
		Use:   "inspect <file|glob>...",
		Short: "Parse L5K files and summarize their contents",
		Long: `Parse one or more L5K files and print what each contains.

Glob patterns use ** for recursive matching, e.g. 'exports/**/*.L5K'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files match %v", args)
			}

			out := render.Stdout()
			r := render.New(pretty)
			for i, path := range paths {
				p, rep, err := parseFile(path)
				if err != nil {
					return err
				}
				switch {
				case asJSON:
					data, err := json.MarshalIndent(p, "", "  ")
					if err != nil {
						return err
					}
					out.Println("%s", data)
				case listKeys:
					out.Print("%s", r.EntityList(model.Keys(p), nil))
				default:
					if i > 0 {
						out.Line()
					}
					out.Print("%s", r.ParseSummary(path, p, rep))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Dump the parsed model as JSON")
	cmd.Flags().BoolVar(&listKeys, "keys", false, "List entity keys one per line")
	return cmd
}
