package treestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l5ktune/l5ktune/internal/export"
	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/model"
)

func fixtureProject() *model.Project {
	p := model.NewProject()
	p.UDTs.Add("MOTOR_DATA", model.NewUDT("MOTOR_DATA"))
	p.AOIs.Add("MotorCtl", model.NewAOI("MotorCtl"))
	p.Tags.Add("Line1", &model.Tag{Name: "Line1"})
	prog := model.NewProgram("Main", "")
	prog.Tags.Add("Count", &model.Tag{Name: "Count"})
	p.Programs.Add("Main", prog)
	return p
}

func TestFromProject_StartsExcluded(t *testing.T) {
	st := FromProject(fixtureProject())
	require.Len(t, st.Keys(), 5)
	for _, k := range st.Keys() {
		assert.False(t, st.Included(k))
	}
}

func TestSetIncluded_UnknownKeyIgnored(t *testing.T) {
	st := FromProject(fixtureProject())
	ghost := model.Key{Kind: model.KindTag, Name: "Ghost"}
	st.SetIncluded(ghost, true)
	assert.False(t, st.Included(ghost))
	assert.False(t, st.Has(ghost))
}

func TestSelection(t *testing.T) {
	p := fixtureProject()
	st := FromProject(p)
	st.SetIncluded(model.Key{Kind: model.KindUDT, Name: "MOTOR_DATA"}, true)
	st.SetIncluded(model.Key{Kind: model.KindProgramTag, Name: "Count", Parent: "Main"}, true)

	sel := st.Selection()
	assert.True(t, sel.UDTs["MOTOR_DATA"])
	assert.False(t, sel.AOIs["MotorCtl"])
	assert.True(t, sel.ProgramTags["Main"]["Count"])
}

func TestIncludeAllExcludeAll(t *testing.T) {
	st := FromProject(fixtureProject())
	st.IncludeAll()
	for _, k := range st.Keys() {
		assert.True(t, st.Included(k))
	}
	st.ExcludeAll()
	for _, k := range st.Keys() {
		assert.False(t, st.Included(k))
	}
}

func TestSnapshotRestore(t *testing.T) {
	p := fixtureProject()
	st := FromProject(p)
	udtKey := model.Key{Kind: model.KindUDT, Name: "MOTOR_DATA"}
	st.SetIncluded(udtKey, true)
	st.SetDescription(udtKey, "motor record")

	snap := st.Snapshot()
	require.Len(t, snap, 5)

	// A fresh state over a fresh parse of the same model picks the flags up
	// by key.
	st2 := FromProject(fixtureProject())
	st2.Restore(snap)
	assert.True(t, st2.Included(udtKey))
	desc, ok := st2.Description(udtKey)
	require.True(t, ok)
	assert.Equal(t, "motor record", desc)
	assert.False(t, st2.Included(model.Key{Kind: model.KindTag, Name: "Line1"}))
}

func TestRestore_SkipsUnknownKeys(t *testing.T) {
	st := FromProject(fixtureProject())
	st.Restore([]SnapshotEntry{{Kind: model.KindTag, Name: "Gone", Included: true}})
	assert.False(t, st.Has(model.Key{Kind: model.KindTag, Name: "Gone"}))
}

func TestApplyDescriptions(t *testing.T) {
	p := fixtureProject()
	st := FromProject(p)
	st.SetDescription(model.Key{Kind: model.KindUDT, Name: "MOTOR_DATA"}, "motor record")
	st.SetDescription(model.Key{Kind: model.KindProgramTag, Name: "Count", Parent: "Main"}, "cycle count")

	st.ApplyDescriptions(p)

	udt, _ := p.UDTs.Get("MOTOR_DATA")
	assert.Equal(t, "motor record", udt.Description)
	prog, _ := p.Programs.Get("Main")
	tag, _ := prog.Tags.Get("Count")
	assert.Equal(t, "cycle count", tag.Description)
}

func TestApplyDescriptions_ReachesExportedText(t *testing.T) {
	const src = `CONTROLLER Demo
	TAG
		Line1Motor : DINT (Description := "Motor one");
	END_TAG
END_CONTROLLER
`
	p, _, err := l5k.Parse(src)
	require.NoError(t, err)

	st := FromProject(p)
	st.IncludeAll()
	st.SetDescription(model.Key{Kind: model.KindTag, Name: "Line1Motor"}, "Motor one, east wing")
	st.ApplyDescriptions(p)

	text, rep := export.Export(p, st.Selection(), export.Options{})
	require.Empty(t, rep.Errors)
	assert.Contains(t, text, `Line1Motor : DINT (Description := "Motor one, east wing");`)
	assert.NotContains(t, text, `"Motor one"`)
}

func TestSync_PreservesSurvivingState(t *testing.T) {
	p := fixtureProject()
	st := FromProject(p)
	keep := model.Key{Kind: model.KindUDT, Name: "MOTOR_DATA"}
	st.SetIncluded(keep, true)
	st.SetIncluded(model.Key{Kind: model.KindTag, Name: "Line1"}, true)

	// Line1 disappears, a new tag arrives.
	p.Tags.Delete("Line1")
	p.Tags.Add("Line2", &model.Tag{Name: "Line2"})
	st.Sync(p)

	assert.True(t, st.Included(keep))
	newKey := model.Key{Kind: model.KindTag, Name: "Line2"}
	assert.True(t, st.Has(newKey))
	assert.False(t, st.Included(newKey))
	assert.False(t, st.Has(model.Key{Kind: model.KindTag, Name: "Line1"}))
}
