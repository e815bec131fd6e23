package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Section names inside the bundle.
const (
	SectionCharacter          = "masterCharacter"
	SectionSkill              = "masterCharacterSkill"
	SectionAbility            = "masterCharacterLeaderSkill"
	SectionAbilityDescription = "masterCharacterLeaderSkillDescription"
	SectionEquipment          = "masterCharacterEquipment"
	SectionSkin               = "masterCharacterSkin"
	SectionFlowerMemory       = "masterFlowerMemory"
	SectionMemoryAbility      = "masterFlowerMemoryAbility"
	SectionBlessedOath        = "masterCharacterMariage"
	SectionSyncData           = "masterSyncData"
)

// Layout is the ordered field list of one section in one bundle era.
type Layout struct {
	Section string
	Version string
	fields  []string
	index   map[string]int
}

// NewLayout builds a layout. Field names must be unique.
func NewLayout(section, version string, fields ...string) *Layout {
	l := &Layout{
		Section: section,
		Version: version,
		fields:  fields,
		index:   make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := l.index[f]; dup {
			panic(fmt.Sprintf("layout %s/%s: duplicate field %q", section, version, f))
		}
		l.index[f] = i
	}
	return l
}

// Len returns the expected field count.
func (l *Layout) Len() int { return len(l.fields) }

// Fields returns the field names in order.
func (l *Layout) Fields() []string {
	out := make([]string, len(l.fields))
	copy(out, l.fields)
	return out
}

// Index returns the position of a named field.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Bind parses one raw row against the layout. A field count mismatch is
// recovered by padding or cropping and reported through diag.
func (l *Layout) Bind(raw string, diag *Diagnostics) Row {
	values, exact, actual := SplitRow(raw, l.Len())
	row := Row{layout: l, values: values}
	if !exact && diag != nil {
		diag.SchemaDrift(l, raw, actual, row)
	}
	return row
}

// Row is one field vector bound to its layout.
type Row struct {
	layout *Layout
	values []string
}

// Layout returns the layout the row was bound with.
func (r Row) Layout() *Layout { return r.layout }

// Get returns a field by name, or "" if this layout has no such field.
func (r Row) Get(name string) string {
	if r.layout == nil {
		return ""
	}
	i, ok := r.layout.index[name]
	if !ok {
		return ""
	}
	return r.values[i]
}

// Has reports whether the layout defines name.
func (r Row) Has(name string) bool {
	if r.layout == nil {
		return false
	}
	_, ok := r.layout.index[name]
	return ok
}

// At returns a field by position.
func (r Row) At(i int) string { return r.values[i] }

// Values returns a copy of the field vector.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Describe lists every field as "NN: name = value".
func (r Row) Describe() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = fmt.Sprintf("%02d: %s = %s", i, r.layout.fields[i], v)
	}
	return out
}

// fieldReader converts named string fields to typed values once, reporting
// anything that does not parse.
type fieldReader struct {
	row  Row
	diag *Diagnostics
}

func (f fieldReader) text(name string) string { return f.row.Get(name) }

func (f fieldReader) num(name string) int {
	s := strings.TrimSpace(f.row.Get(name))
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Some integer columns are written as "12.0".
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			f.bad(name, s)
			return 0
		}
		return int(fv)
	}
	return v
}

func (f fieldReader) dec(name string) float64 {
	s := strings.TrimSpace(f.row.Get(name))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.bad(name, s)
		return 0
	}
	return v
}

// flag treats any non-empty value other than "0" as true.
func (f fieldReader) flag(name string) bool {
	s := strings.TrimSpace(f.row.Get(name))
	return s != "" && s != "0"
}

func (f fieldReader) bad(name, value string) {
	if f.diag != nil {
		f.diag.BadField(f.row.layout.Section, name, value)
	}
}
