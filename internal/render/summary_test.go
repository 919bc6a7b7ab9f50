package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/merge"
	"github.com/l5ktune/l5ktune/internal/model"
)

func fixtureProject() *model.Project {
	p := model.NewProject()
	p.ControllerName = "PlantLine"
	p.UDTs.Add("MOTOR_DATA", model.NewUDT("MOTOR_DATA"))
	p.Tags.Add("Line1", &model.Tag{Name: "Line1"})
	prog := model.NewProgram("Main", "")
	prog.Tags.Add("Count", &model.Tag{Name: "Count"})
	p.Programs.Add("Main", prog)
	return p
}

func TestParseSummary_Plain(t *testing.T) {
	r := New(false)
	out := r.ParseSummary("plant.L5K", fixtureProject(), &l5k.Report{
		Corrections: []string{`Corrected MotorCtl.SpeedFault: from "Motor.3" to "BOOL"`},
		Warnings:    []string{"line 7: skipped"},
	})

	assert.Contains(t, out, "plant.L5K")
	assert.Contains(t, out, "Controller: PlantLine")
	assert.Contains(t, out, "Main: 1 tags")
	assert.Contains(t, out, "Corrections:")
	assert.Contains(t, out, "MotorCtl.SpeedFault")
	assert.Contains(t, out, "Warnings:")
}

func TestEntityList(t *testing.T) {
	r := New(false)
	keys := model.Keys(fixtureProject())
	out := r.EntityList(keys, func(k model.Key) bool {
		return k.Kind == model.KindTag
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(keys))
	assert.Contains(t, out, "[✓] TAG/Line1")
	assert.Contains(t, out, "[✗] PROGRAM_TAG/Main.Count")

	// Without inclusion state the marker column stays blank.
	assert.Contains(t, r.EntityList(keys, nil), "[ ] TAG/Line1")
	assert.Equal(t, "No entities found", r.EntityList(nil, nil))
}

func TestChangeSet(t *testing.T) {
	r := New(false)
	cs := &merge.ChangeSet{
		Added:   []model.Key{{Kind: model.KindUDT, Name: "PUMP_DATA"}},
		Removed: []model.Key{{Kind: model.KindTag, Name: "Line1"}},
	}
	out := r.ChangeSet(cs)
	assert.Contains(t, out, "Added (1)")
	assert.Contains(t, out, "+ UDT/PUMP_DATA")
	assert.Contains(t, out, "Removed (1)")
	assert.Contains(t, out, "- TAG/Line1")

	assert.Equal(t, "No differences found", r.ChangeSet(&merge.ChangeSet{}))
}

func TestMergeReport(t *testing.T) {
	r := New(false)
	rep := &merge.Report{
		Applied:  []model.Key{{Kind: model.KindUDT, Name: "PUMP_DATA"}},
		Warnings: []string{strings.Repeat("w", 200)},
	}
	out := r.MergeReport(rep)
	assert.Contains(t, out, "Applied 1 changes")
	// Long warning lines are shortened for the terminal.
	assert.NotContains(t, out, strings.Repeat("w", 200))
	assert.Contains(t, out, "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "lon...", Truncate("long string", 6))
}
