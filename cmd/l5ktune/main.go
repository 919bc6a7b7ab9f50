// Package main provides the l5ktune CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/l5ktune/l5ktune/internal/config"
	"github.com/l5ktune/l5ktune/internal/render"
)

var (
	version  = "0.1.0"
	pretty   = true
	settings config.Settings
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "l5ktune",
		Short: "Filter, trim, and merge L5K controller exports",
		Long: `l5ktune parses Rockwell L5K controller exports into an entity model,
lets you select the data types, instructions, tags, and programs you care
about, and writes a clean L5K containing only those entities.

Use 'l5ktune inspect <file>' to see what a file contains.
Use 'l5ktune help' for the full command list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("settings")
			var err error
			settings, err = config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			if settings.NoColor {
				pretty = false
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")
	rootCmd.PersistentFlags().String("settings", "", "Settings file path")

	rootCmd.AddGroup(
		&cobra.Group{ID: "read", Title: "Reading:"},
		&cobra.Group{ID: "write", Title: "Writing:"},
	)

	inspect := inspectCmd()
	inspect.GroupID = "read"
	rootCmd.AddCommand(inspect)

	diff := diffCmd()
	diff.GroupID = "read"
	rootCmd.AddCommand(diff)

	export := exportCmd()
	export.GroupID = "write"
	rootCmd.AddCommand(export)

	mergeC := mergeCmd()
	mergeC.GroupID = "write"
	rootCmd.AddCommand(mergeC)

	proj := projectCmd()
	proj.GroupID = "write"
	rootCmd.AddCommand(proj)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("l5ktune " + version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		render.Stderr().Println("Error: %v", err)
		os.Exit(1)
	}
}
