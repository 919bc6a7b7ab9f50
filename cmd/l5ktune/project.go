// Package main project session commands.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/merge"
	"github.com/l5ktune/l5ktune/internal/project"
	"github.com/l5ktune/l5ktune/internal/render"
	"github.com/l5ktune/l5ktune/internal/treestate"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Saved filtering sessions",
		Long: `A project file stores a parsed model plus which entities are included
and any description overrides, so a filtering session survives between runs.`,
	}

	cmd.AddCommand(projectNewCmd())
	cmd.AddCommand(projectShowCmd())
	cmd.AddCommand(projectSelectCmd("include", true))
	cmd.AddCommand(projectSelectCmd("exclude", false))
	cmd.AddCommand(projectDescribeCmd())
	cmd.AddCommand(projectExportCmd())
	cmd.AddCommand(projectMergeCmd())
	return cmd
}

func projectNewCmd() *cobra.Command {
	var outPath string
	var includeAll bool

	cmd := &cobra.Command{
		Use:   "new <file.l5k>",
		Short: "Parse an L5K file into a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, rep, err := parseFile(args[0])
			if err != nil {
				return err
			}
			st := treestate.FromProject(p)
			if includeAll {
				st.IncludeAll()
			}
			f := project.New(args[0], p, st)
			if err := f.Save(outPath); err != nil {
				return err
			}
			render.Stdout().Print("%s", render.New(pretty).ParseSummary(args[0], p, rep))
			render.Stdout().Println("Saved project %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "project.json", "Project file path")
	cmd.Flags().BoolVar(&includeAll, "include-all", false, "Start with every entity included")
	return cmd
}

func projectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project.json>",
		Short: "List the project's entities and their inclusion state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := project.Load(args[0])
			if err != nil {
				return err
			}
			out := render.Stdout()
			out.Println("Project %s", f.ProjectID)
			if f.Source != "" {
				out.Item("source: %s", f.Source)
			}
			if !f.SavedAt.IsZero() {
				out.Item("saved: %s", f.SavedAt.Format("2006-01-02 15:04:05"))
			}
			out.Section("entities")
			out.Print("%s", render.New(pretty).EntityList(st.Keys(), st.Included))
			return nil
		},
	}
}

// projectSelectCmd builds the include and exclude commands; they differ only
// in the flag value written.
func projectSelectCmd(name string, included bool) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   name + " <project.json> [pattern...]",
		Short: "Mark entities matching the patterns as " + name + "d",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := project.Load(args[0])
			if err != nil {
				return err
			}
			var touched int
			if all {
				if included {
					st.IncludeAll()
				} else {
					st.ExcludeAll()
				}
				touched = len(st.Keys())
			} else {
				if len(args) < 2 {
					return fmt.Errorf("no patterns given (or use --all)")
				}
				matched, err := matchKeys(st.Keys(), args[1:])
				if err != nil {
					return err
				}
				for _, k := range matched {
					st.SetIncluded(k, included)
				}
				touched = len(matched)
			}
			f.States = st.Snapshot()
			if err := f.Save(args[0]); err != nil {
				return err
			}
			render.Stdout().Println("%sd %d entities", name, touched)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Apply to every entity")
	return cmd
}

func projectDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <project.json> <key> <text>",
		Short: "Override an entity's description",
		Long: `Set the description exported for one entity, identified by its key,
e.g. 'UDT/MOTOR_DATA' or 'PROGRAM_TAG/MainProgram.Speed'.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := project.Load(args[0])
			if err != nil {
				return err
			}
			matched, err := matchKeys(st.Keys(), []string{args[1]})
			if err != nil {
				return err
			}
			if len(matched) == 0 {
				return fmt.Errorf("no entity matches %q", args[1])
			}
			if len(matched) > 1 {
				return fmt.Errorf("%q matches %d entities, need exactly one", args[1], len(matched))
			}
			st.SetDescription(matched[0], args[2])
			f.States = st.Snapshot()
			return f.Save(args[0])
		},
	}
}

func projectExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Write the included entities as an L5K file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := project.Load(args[0])
			if err != nil {
				return err
			}
			st.ApplyDescriptions(f.Model)
			text, rep := export.Export(f.Model, st.Selection(), exportOptions())
			for _, e := range rep.Errors {
				render.Stderr().Println("Warning: %v", e)
			}
			return writeOutput(outPath, text)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func projectMergeCmd() *cobra.Command {
	var addPats []string
	var removePats []string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "merge <project.json> <updated.l5k>",
		Short: "Fold changes from a newer L5K export into the project",
		Long: `Diff the project's model against a newer L5K export and apply the
differences. Inclusion flags and description overrides of entities present
in both survive untouched; added entities start excluded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := project.Load(args[0])
			if err != nil {
				return err
			}
			updated, _, err := parseFile(args[1])
			if err != nil {
				return err
			}

			cs := merge.Diff(f.Model, updated)
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

			rep := merge.Apply(f.Model, updated, add, remove)
			st.Sync(f.Model)
			f.States = st.Snapshot()
			if err := f.Save(args[0]); err != nil {
				return err
			}
			render.Stdout().Print("%s", r.MergeReport(rep))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&addPats, "add", nil, "Accept only additions matching pattern (repeatable)")
	cmd.Flags().StringArrayVar(&removePats, "remove", nil, "Accept only removals matching pattern (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the change set without applying it")
	return cmd
}
