package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l5ktune/l5ktune/internal/l5k"
	"github.com/l5ktune/l5ktune/internal/model"
)

const sampleL5K = `(*********************************
Import-Export
*********************************)
0.3
0.3
CONTROLLER PlantLine (ProcessorType := "1756-L83E",
                      Description := "Line controller")
	DATATYPE MOTOR_DATA (FamilyType := NoFamily)
		DINT DATA[20];
		REAL Speed (Description := "Commanded speed");
	END_DATATYPE

	DATATYPE PUMP_DATA (FamilyType := NoFamily)
		DINT Pressure;
	END_DATATYPE

	ADD_ON_INSTRUCTION_DEFINITION MotorCtl (Description := "Motor control")
		PARAMETERS
			EnableIn : BOOL (Description := "Enable", DefaultData := 1);
			SpeedFault OF Motor.3 (Description := "Fault bit");
		END_PARAMETERS
		LOCAL_TAGS
			Motor : DINT (DefaultData := 0);
		END_LOCAL_TAGS
	END_ADD_ON_INSTRUCTION_DEFINITION

	ADD_ON_INSTRUCTION_DEFINITION EmptyCtl (Description := "No locals")
		PARAMETERS
			EnableIn : BOOL (Description := "Enable");
		END_PARAMETERS
		LOCAL_TAGS
		END_LOCAL_TAGS
	END_ADD_ON_INSTRUCTION_DEFINITION

	TAG
		Line1Motor : MOTOR_DATA (Description := "Motor one");
		Speeds : REAL[8] := [0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0];
	END_TAG

	PROGRAM MainProgram (Description := "Main routine program")
		TAG
			LocalCount : DINT (RADIX := Decimal) := 5;
		END_TAG
	END_PROGRAM
END_CONTROLLER
`

func parseSample(t *testing.T) *model.Project {
	t.Helper()
	p, _, err := l5k.Parse(sampleL5K)
	require.NoError(t, err)
	return p
}

func exportAll(t *testing.T, p *model.Project, opts Options) string {
	t.Helper()
	text, rep := Export(p, SelectAll(p), opts)
	require.Empty(t, rep.Errors)
	return text
}

func TestExport_Order(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{})

	idxHeader := strings.Index(text, "Import-Export")
	idxController := strings.Index(text, "CONTROLLER PlantLine")
	idxUDT := strings.Index(text, "DATATYPE MOTOR_DATA")
	idxAOI := strings.Index(text, "ADD_ON_INSTRUCTION_DEFINITION MotorCtl")
	idxTag := strings.Index(text, "\tTAG")
	idxProg := strings.Index(text, "PROGRAM MainProgram")
	idxEnd := strings.Index(text, "END_CONTROLLER")

	for name, idx := range map[string]int{
		"header": idxHeader, "controller": idxController, "udt": idxUDT,
		"aoi": idxAOI, "tag": idxTag, "program": idxProg, "end": idxEnd,
	} {
		require.NotEqual(t, -1, idx, "missing %s section", name)
	}
	assert.Less(t, idxHeader, idxController)
	assert.Less(t, idxController, idxUDT)
	assert.Less(t, idxUDT, idxAOI)
	assert.Less(t, idxAOI, idxTag)
	assert.Less(t, idxTag, idxProg)
	assert.Less(t, idxProg, idxEnd)
	assert.True(t, strings.HasSuffix(text, "END_CONTROLLER\n"))
}

func TestExport_ExcludedEntitiesAbsent(t *testing.T) {
	p := parseSample(t)
	sel := SelectAll(p)
	sel.Exclude(model.Key{Kind: model.KindUDT, Name: "PUMP_DATA"})
	sel.Exclude(model.Key{Kind: model.KindTag, Name: "Speeds"})
	sel.Exclude(model.Key{Kind: model.KindProgram, Name: "MainProgram"})
	sel.Exclude(model.Key{Kind: model.KindProgramTag, Name: "LocalCount", Parent: "MainProgram"})

	text, rep := Export(p, sel, Options{})
	require.Empty(t, rep.Errors)

	assert.NotContains(t, text, "PUMP_DATA")
	assert.NotContains(t, text, "Speeds")
	assert.NotContains(t, text, "PROGRAM MainProgram")
	assert.Contains(t, text, "DATATYPE MOTOR_DATA")
	assert.Contains(t, text, "Line1Motor")
}

func TestExport_ExclusionDoesNotAffectOthers(t *testing.T) {
	p := parseSample(t)
	sel := SelectAll(p)
	sel.Exclude(model.Key{Kind: model.KindUDT, Name: "PUMP_DATA"})
	partial, rep := Export(p, sel, Options{})
	require.Empty(t, rep.Errors)

	// Excluding one UDT yields byte-identical output to a source that never
	// contained it.
	pumpBlock := "\tDATATYPE PUMP_DATA (FamilyType := NoFamily)\n\t\tDINT Pressure;\n\tEND_DATATYPE\n\n"
	require.Contains(t, sampleL5K, pumpBlock)
	pWithout, _, err := l5k.Parse(strings.Replace(sampleL5K, pumpBlock, "", 1))
	require.NoError(t, err)
	assert.Equal(t, exportAll(t, pWithout, Options{}), partial)
}

func TestExport_BitAliasEmitsPlainBool(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{})

	assert.Contains(t, text, "SpeedFault : BOOL (")
	assert.NotContains(t, text, "Motor.3")
	assert.NotContains(t, text, "OF ")
}

func TestExport_ValuesNeverEmitted(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{})

	assert.NotContains(t, text, ":= [")
	assert.NotContains(t, text, ":= 5")
	assert.NotContains(t, text, "DefaultData")
	assert.Contains(t, text, "Speeds : REAL[8];")
	assert.Contains(t, text, "LocalCount : DINT (RADIX := Decimal);")
}

func TestExport_EmptyLocalTagsBlock(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{})

	// EmptyCtl has zero local tags; the block is still emitted, with no
	// entries between the delimiters.
	idx := strings.Index(text, "ADD_ON_INSTRUCTION_DEFINITION EmptyCtl")
	require.NotEqual(t, -1, idx)
	rest := text[idx:]
	ltIdx := strings.Index(rest, "LOCAL_TAGS")
	require.NotEqual(t, -1, ltIdx)
	between := rest[ltIdx+len("LOCAL_TAGS") : strings.Index(rest, "END_LOCAL_TAGS")]
	assert.Empty(t, strings.TrimSpace(between))
}

func TestExport_LocalTagPlaceholder(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{
		LocalTagPlaceholder: "__PlaceHolder : BOOL (Description := \"do not use\");",
	})

	idx := strings.Index(text, "ADD_ON_INSTRUCTION_DEFINITION EmptyCtl")
	require.NotEqual(t, -1, idx)
	assert.Contains(t, text[idx:], "__PlaceHolder : BOOL")

	// MotorCtl has a real local tag; no placeholder there.
	motorIdx := strings.Index(text, "ADD_ON_INSTRUCTION_DEFINITION MotorCtl")
	assert.NotContains(t, text[motorIdx:idx], "__PlaceHolder")
}

func TestExport_TagDescriptionOverride(t *testing.T) {
	p := parseSample(t)
	motor, _ := p.Tags.Get("Line1Motor")
	motor.Description = "Motor one, east wing"
	speeds, _ := p.Tags.Get("Speeds")
	speeds.Description = "Commanded speeds"
	prog, _ := p.Programs.Get("MainProgram")
	count, _ := prog.Tags.Get("LocalCount")
	count.Description = "Cycle count"

	text := exportAll(t, p, Options{})

	// The overrides replace what the captured definitions carried.
	assert.Contains(t, text, `Line1Motor : MOTOR_DATA (Description := "Motor one, east wing");`)
	assert.NotContains(t, text, `"Motor one"`)
	assert.Contains(t, text, `Speeds : REAL[8] (Description := "Commanded speeds");`)
	assert.Contains(t, text, `LocalCount : DINT (RADIX := Decimal, Description := "Cycle count");`)
}

func TestExport_DescriptionsEncoded(t *testing.T) {
	p := parseSample(t)
	udt, _ := p.UDTs.Get("PUMP_DATA")
	udt.Description = `pump "P1"` + "\nsecond line"

	text := exportAll(t, p, Options{})
	assert.Contains(t, text, `DATATYPE PUMP_DATA (Description := "pump $"P1$"$Nsecond line", FamilyType := NoFamily)`)
}

func TestExport_RoundTripStable(t *testing.T) {
	p := parseSample(t)
	first := exportAll(t, p, Options{})

	p2, rep2, err := l5k.Parse(first)
	require.NoError(t, err)
	require.Empty(t, rep2.Errors)

	// Same entity keys survive the round trip.
	assert.Equal(t, model.KeySet(p), model.KeySet(p2))

	second := exportAll(t, p2, Options{})
	assert.Equal(t, first, second)
}

func TestExport_MissingFieldReported(t *testing.T) {
	p := model.NewProject()
	udt := model.NewUDT("BROKEN")
	udt.Members.Put("X", &model.Member{Name: "X"})
	p.UDTs.Add("BROKEN", udt)

	text, rep := Export(p, SelectAll(p), Options{})
	require.Len(t, rep.Errors, 1)
	assert.True(t, IsMissingField(rep.Errors[0]))
	var me *MissingFieldError
	require.ErrorAs(t, rep.Errors[0], &me)
	assert.Equal(t, "BROKEN", me.Key.Name)

	// The rest of the entity still exports.
	assert.Contains(t, text, "DATATYPE BROKEN")
	assert.Contains(t, text, "END_DATATYPE")
}

func TestExport_CustomIndent(t *testing.T) {
	p := parseSample(t)
	text := exportAll(t, p, Options{Indent: "  "})
	assert.Contains(t, text, "  DATATYPE MOTOR_DATA")
	assert.NotContains(t, text, "\tDATATYPE")
}
