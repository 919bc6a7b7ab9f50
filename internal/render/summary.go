package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/merge"
	"github.com/l5ktune/l5ktune/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. With pretty off, output is plain text suitable
// for piping.
func New(pretty bool) *Renderer {
	if !pretty {
		color.NoColor = true
	}
	return &Renderer{pretty: pretty}
}

// ParseSummary formats the entity counts and diagnostics of one parse.
func (r *Renderer) ParseSummary(source string, p *model.Project, rep *l5k.Report) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(titleStyle.Render(source) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	} else {
		sb.WriteString(source + "\n")
	}

	name := p.ControllerName
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(&sb, "Controller: %s\n", name)
	r.countLine(&sb, "UDTs", p.UDTs.Len())
	r.countLine(&sb, "AOIs", p.AOIs.Len())
	r.countLine(&sb, "Controller tags", p.Tags.Len())
	r.countLine(&sb, "Programs", p.Programs.Len())
	for _, prog := range p.Programs.Values() {
		if r.pretty {
			fmt.Fprintf(&sb, "    %s %s\n", dimStyle.Render("└─"),
				fmt.Sprintf("%s: %d tags", prog.Name, prog.Tags.Len()))
		} else {
			fmt.Fprintf(&sb, "    %s: %d tags\n", prog.Name, prog.Tags.Len())
		}
	}

	if len(rep.Corrections) > 0 {
		sb.WriteString("\nCorrections:\n")
		for _, c := range rep.Corrections {
			fmt.Fprintf(&sb, "  %s\n", color.YellowString(c))
		}
	}
	if len(rep.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range rep.Warnings {
			fmt.Fprintf(&sb, "  %s\n", color.YellowString(w))
		}
	}
	if len(rep.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range rep.Errors {
			fmt.Fprintf(&sb, "  %s\n", color.RedString(e.Error()))
		}
	}
	return sb.String()
}

func (r *Renderer) countLine(sb *strings.Builder, label string, n int) {
	if r.pretty {
		fmt.Fprintf(sb, "  %-16s %s\n", label, countStyle.Render(fmt.Sprintf("%d", n)))
	} else {
		fmt.Fprintf(sb, "  %-16s %d\n", label, n)
	}
}

// EntityList formats the filterable keys of a model, one per line, with the
// inclusion marker when state is known.
func (r *Renderer) EntityList(keys []model.Key, included func(model.Key) bool) string {
	if len(keys) == 0 {
		return "No entities found"
	}
	var sb strings.Builder
	for _, k := range keys {
		mark := " "
		if included != nil {
			if included(k) {
				mark = color.GreenString(BoolIcon(true))
			} else {
				mark = BoolIcon(false)
			}
		}
		fmt.Fprintf(&sb, "[%s] %s\n", mark, k)
	}
	return sb.String()
}

// ChangeSet formats a merge diff as added and removed key tables.
func (r *Renderer) ChangeSet(cs *merge.ChangeSet) string {
	if cs.Empty() {
		return "No differences found"
	}
	var sb strings.Builder
	if len(cs.Added) > 0 {
		if r.pretty {
			sb.WriteString(color.GreenString("Added (%d)\n", len(cs.Added)))
		} else {
			fmt.Fprintf(&sb, "Added (%d)\n", len(cs.Added))
		}
		for _, k := range cs.Added {
			fmt.Fprintf(&sb, "  + %s\n", k)
		}
	}
	if len(cs.Removed) > 0 {
		if r.pretty {
			sb.WriteString(color.RedString("Removed (%d)\n", len(cs.Removed)))
		} else {
			fmt.Fprintf(&sb, "Removed (%d)\n", len(cs.Removed))
		}
		for _, k := range cs.Removed {
			fmt.Fprintf(&sb, "  - %s\n", k)
		}
	}
	return sb.String()
}

// MergeReport formats the outcome of applying a change set.
func (r *Renderer) MergeReport(rep *merge.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Applied %d changes\n", len(rep.Applied))
	for _, w := range rep.Warnings {
		fmt.Fprintf(&sb, "  %s\n", color.YellowString(Truncate(w, 120)))
	}
	return sb.String()
}
