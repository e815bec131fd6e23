package data

import (
	"fmt"
	"strings"
)

// SynthesisMarker appears in the description of abilities that belong to
// synthesis materials rather than knights.
const SynthesisMarker = "合成"

// AbilityEffect is one effect slot of a bundled ability.
// Values keeps the game's Val0..Val6 numbering.
type AbilityEffect struct {
	ID     string
	Values [7]string
}

// Ability is one masterCharacterLeaderSkill row: up to three effects bundled
// under one id.
type Ability struct {
	row Row

	ID          string
	ShortDesc   string
	Description string
	Effects     []AbilityEffect
}

func (a *Ability) Key() string { return a.ID }
func (a *Ability) Fields() []string { return a.row.Values() }
func (a *Ability) Row() Row { return a.row }

// IsSynthesis reports whether the row's own text marks it as synthesis fodder.
func (a *Ability) IsSynthesis() bool {
	return strings.Contains(a.ShortDesc, SynthesisMarker) ||
		strings.Contains(a.Description, SynthesisMarker)
}

// Ability layouts. v1 carried its own description; v2 moved descriptions
// to masterCharacterLeaderSkillDescription and widened each slot.
var (
	AbilityV1 = NewLayout(SectionAbility, "v1",
		"uniqueID", "shortDescJapanese",
		"ability1ID", "ability1Val0", "ability1Val1", "ability1Val2",
		"ability2ID", "ability2Val0", "ability2Val1", "ability2Val2",
		"descJapanese", "date00", "date01", "unknown00",
	)
	AbilityV2 = NewLayout(SectionAbility, "v2", abilitySlots(3)...)
)

// abilityValueOrder is the column order of a v2 slot's values.
var abilityValueOrder = []int{5, 0, 1, 2, 3, 4, 6}

func abilitySlots(n int) []string {
	fields := []string{"uniqueID"}
	for i := 1; i <= n; i++ {
		fields = append(fields, fmt.Sprintf("ability%dID", i))
		for _, v := range abilityValueOrder {
			fields = append(fields, fmt.Sprintf("ability%dVal%d", i, v))
		}
	}
	return fields
}

// DecodeAbility converts a bound row into an Ability. Empty slots are kept
// so effect positions stay stable.
func DecodeAbility(row Row, diag *Diagnostics) *Ability {
	f := fieldReader{row: row, diag: diag}
	a := &Ability{
		row:         row,
		ID:          f.text("uniqueID"),
		ShortDesc:   f.text("shortDescJapanese"),
		Description: f.text("descJapanese"),
	}
	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("ability%dID", i)
		if !row.Has(id) {
			break
		}
		e := AbilityEffect{ID: f.text(id)}
		for v := range e.Values {
			e.Values[v] = f.text(fmt.Sprintf("ability%dVal%d", i, v))
		}
		a.Effects = append(a.Effects, e)
	}
	return a
}

// AbilityDescription is one masterCharacterLeaderSkillDescription row.
type AbilityDescription struct {
	row Row

	ID      string
	AltID   string
	Icons   [4]string
	Entries [4]string
}

func (d *AbilityDescription) Key() string { return d.ID }
func (d *AbilityDescription) Fields() []string { return d.row.Values() }
func (d *AbilityDescription) Row() Row { return d.row }

// IsSynthesis reports whether the first description marks synthesis fodder.
func (d *AbilityDescription) IsSynthesis() bool {
	return strings.Contains(d.Entries[0], SynthesisMarker)
}

var AbilityDescriptionV1 = NewLayout(SectionAbilityDescription, "v1",
	"id0", "id1",
	"ability1icon", "ability1desc", "ability2icon", "ability2desc",
	"ability3icon", "ability3desc", "ability4icon", "ability4desc",
)

// DecodeAbilityDescription converts a bound row into an AbilityDescription.
func DecodeAbilityDescription(row Row, diag *Diagnostics) *AbilityDescription {
	f := fieldReader{row: row, diag: diag}
	d := &AbilityDescription{row: row, ID: f.text("id0"), AltID: f.text("id1")}
	for i := 0; i < 4; i++ {
		d.Icons[i] = f.text(fmt.Sprintf("ability%dicon", i+1))
		d.Entries[i] = f.text(fmt.Sprintf("ability%ddesc", i+1))
	}
	return d
}
