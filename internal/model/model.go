// Package model defines the in-memory representation of a parsed L5K file:
// the header, user-defined types, add-on instructions, controller tags, and
// programs with their scoped tags. The model is built once per parse and is
// mutated only by description edits and merge application.
package model

import "fmt"

// Primitive L5K data types. Everything else is assumed to be a user-defined
// or vendor structure type.
var BaseTypes = map[string]bool{
	"BOOL": true,
	"SINT": true,
	"INT":  true,
	"DINT": true,
	"LINT": true,
	"REAL": true,
}

// Header holds the raw banner block at the top of an L5K file. It is emitted
// verbatim at the top of every export and is not filterable.
type Header struct {
	Content string `json:"content"`
}

// Project is the root of the entity model for one parsed L5K file.
type Project struct {
	Header           *Header               `json:"header,omitempty"`
	ControllerName   string                `json:"controller_name,omitempty"`
	ControllerHeader []string              `json:"controller_header,omitempty"`
	UDTs             *OrderedMap[*UDT]     `json:"udts"`
	AOIs             *OrderedMap[*AOI]     `json:"aois"`
	Tags             *OrderedMap[*Tag]     `json:"tags"`
	Programs         *OrderedMap[*Program] `json:"programs"`
}

// NewProject creates an empty project with initialized containers.
func NewProject() *Project {
	return &Project{
		UDTs:     NewOrderedMap[*UDT](),
		AOIs:     NewOrderedMap[*AOI](),
		Tags:     NewOrderedMap[*Tag](),
		Programs: NewOrderedMap[*Program](),
	}
}

func (p *Project) String() string {
	return fmt.Sprintf("Project(udts=%d, aois=%d, tags=%d, programs=%d)",
		p.UDTs.Len(), p.AOIs.Len(), p.Tags.Len(), p.Programs.Len())
}

// UDT is a user-defined type: a named, ordered record of members.
type UDT struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	FamilyType  string              `json:"family_type,omitempty"`
	Members     *OrderedMap[*Member] `json:"members"`
}

// NewUDT creates a UDT with the default NoFamily family type.
func NewUDT(name string) *UDT {
	return &UDT{Name: name, FamilyType: "NoFamily", Members: NewOrderedMap[*Member]()}
}

// Member is a single member of a UDT. Hidden SINT words (ten-Z prefix) carry
// their BIT alias children; bit members record the word they alias.
type Member struct {
	Name         string              `json:"name"`
	DataType     string              `json:"data_type"`
	BaseType     string              `json:"base_type,omitempty"`
	Description  string              `json:"description,omitempty"`
	Definition   string              `json:"definition,omitempty"`
	Dims         string              `json:"dims,omitempty"`
	HiddenParent bool                `json:"hidden_parent,omitempty"`
	Bit          bool                `json:"bit,omitempty"`
	ParentWord   string              `json:"parent_word,omitempty"`
	BitIndex     int                 `json:"bit_index,omitempty"`
	Children     *OrderedMap[*Member] `json:"children,omitempty"`
}

// DisplayName is the base name plus any array declarator, e.g. "DATA[20]".
// Model keys always use the base name alone.
func (m *Member) DisplayName() string {
	return m.Name + m.Dims
}

// AddChild attaches a bit alias child to a hidden word member.
func (m *Member) AddChild(child *Member) {
	if m.Children == nil {
		m.Children = NewOrderedMap[*Member]()
	}
	m.Children.Put(child.Name, child)
}

// AOI is an add-on instruction definition: parameters plus local tags.
type AOI struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  *OrderedMap[*Parameter] `json:"parameters"`
	LocalTags   *OrderedMap[*LocalTag]  `json:"local_tags"`
}

// NewAOI creates an AOI with initialized containers.
func NewAOI(name string) *AOI {
	return &AOI{
		Name:       name,
		Parameters: NewOrderedMap[*Parameter](),
		LocalTags:  NewOrderedMap[*LocalTag](),
	}
}

// Parameter is an AOI parameter. BitAlias marks parameters that referenced a
// single bit of another tag via an OF path; they export as plain BOOL.
type Parameter struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	Description string `json:"description,omitempty"`
	Definition  string `json:"definition,omitempty"`
	BitAlias    bool   `json:"bit_alias,omitempty"`
	Corrected   bool   `json:"corrected,omitempty"`
}

// LocalTag is an AOI-scoped tag.
type LocalTag struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	Description string `json:"description,omitempty"`
	Definition  string `json:"definition,omitempty"`
}

// Tag is a controller-scoped or program-scoped tag. Initial values are never
// captured; Definition holds the cleaned, value-free statement.
type Tag struct {
	Name        string `json:"name"`
	DataType    string `json:"data_type"`
	BaseType    string `json:"base_type,omitempty"`
	Description string `json:"description,omitempty"`
	Definition  string `json:"definition,omitempty"`
}

// Program is a named program with its scoped tags.
type Program struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Tags        *OrderedMap[*Tag] `json:"tags"`
}

// NewProgram creates a program with an initialized tag container.
func NewProgram(name, description string) *Program {
	return &Program{Name: name, Description: description, Tags: NewOrderedMap[*Tag]()}
}
