// Package main shared helpers for l5ktune commands.
package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/logging"
	"github.com/l5ktune/l5ktune/internal/model"
)

// parseFile reads and parses one L5K file, logging the timing. Parse
// diagnostics land in the returned report; only I/O and scan failures are
// errors.
func parseFile(path string) (*model.Project, *l5k.Report, error) {
	log := logging.New("parser").WithSource(path)
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var p *model.Project
	var rep *l5k.Report
	err = logging.NewRecoveryHandler("parser").WrapError(func() error {
		var perr error
		p, rep, perr = l5k.ParseWithOptions(string(data), l5k.Options{
			ExtraBaseTypes: settings.ExtraBaseTypes,
		})
		return perr
	})
	if err != nil {
		log.Error("parse_failed", map[string]any{"bytes": len(data)}, err)
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.TimedEvent("parse", start, map[string]any{
		"bytes":    len(data),
		"udts":     p.UDTs.Len(),
		"aois":     p.AOIs.Len(),
		"tags":     p.Tags.Len(),
		"programs": p.Programs.Len(),
		"warnings": len(rep.Warnings),
	})
	return p, rep, nil
}

// expandPaths resolves glob patterns (doublestar syntax, ** supported) to a
// sorted list of files. Literal paths pass through untouched.
func expandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pat := range patterns {
		if !hasGlobMeta(pat) {
			if !seen[pat] {
				seen[pat] = true
				out = append(out, pat)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasGlobMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// matchKeys filters keys by doublestar patterns matched against the key
// string form, e.g. "UDT/*", "TAG/Motor*", "PROGRAM_TAG/MainProgram.*".
func matchKeys(keys []model.Key, patterns []string) ([]model.Key, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	var out []model.Key
	for _, k := range keys {
		for _, pat := range patterns {
			ok, err := doublestar.Match(pat, k.String())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
			}
			if ok {
				out = append(out, k)
				break
			}
		}
	}
	return out, nil
}

// buildSelection turns include/exclude patterns into an export selection.
// No include patterns means everything; excludes are subtracted after.
func buildSelection(p *model.Project, include, exclude []string) (export.Selection, error) {
	keys := model.Keys(p)
	sel := export.NewSelection()
	if len(include) == 0 {
		sel = export.SelectAll(p)
	} else {
		matched, err := matchKeys(keys, include)
		if err != nil {
			return sel, err
		}
		for _, k := range matched {
			sel.Include(k)
		}
	}
	excluded, err := matchKeys(keys, exclude)
	if err != nil {
		return sel, err
	}
	for _, k := range excluded {
		sel.Exclude(k)
	}
	return sel, nil
}

// writeOutput writes text to path, or stdout when path is empty or "-".
func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// exportOptions builds export options from the loaded settings.
func exportOptions() export.Options {
	return export.Options{
		Indent:              settings.Indent,
		LocalTagPlaceholder: settings.LocalTagPlaceholder,
	}
}
