package data

import (
	"fmt"
	"strconv"
	"strings"
)

// OwnerSeparator splits the owners column of an equipment row.
const OwnerSeparator = "|"

// Equipment is one masterCharacterEquipment row.
//
// Owners lists the charID2 of every knight that may equip it. No owners
// means public equipment, one means personal equipment, more means a
// personal item granted to every base form of one knight.
type Equipment struct {
	row Row

	ID             string
	Name           string
	EquipID        string
	LvlOne         Stats
	LvlMax         Stats
	BaseAbilityID  string
	Abilities      [2]AbilityEffect
	Part           int
	Type           int
	IsPersonal     bool
	Owners         []int
	Classification int
	// Classification2 exists from the v2 layout on; personal lookup
	// pages use 21 for personal and 30 for personal evolved items.
	Classification2 int
	IsLevelable     bool
	IsForgingFairy  bool
	Description     string
	PlusValue       int
	PersonalSortID  string
	IsEarring       bool
}

func (e *Equipment) Key() string { return e.EquipID }
func (e *Equipment) Fields() []string { return e.row.Values() }
func (e *Equipment) Row() Row { return e.row }

// OwnerIDs returns the ids of knights owning this equipment.
func (e *Equipment) OwnerIDs() []int {
	out := make([]int, len(e.Owners))
	copy(out, e.Owners)
	return out
}

// OwnedBy reports whether ownerID appears in the owner list.
func (e *Equipment) OwnedBy(ownerID string) bool {
	id, err := strconv.Atoi(strings.TrimSpace(ownerID))
	if err != nil {
		return false
	}
	for _, o := range e.Owners {
		if o == id {
			return true
		}
	}
	return false
}

func (e *Equipment) String() string {
	owners := "nobody"
	if len(e.Owners) > 0 {
		owners = e.row.Get("owners")
	}
	return fmt.Sprintf("equipment %s named %s owned by %s", e.EquipID, e.Name, owners)
}

var equipmentFields = []string{
	"id0", "name", "equipID",
	"lvlOneHP", "lvlOneAtk", "lvlOneDef", "lvlMaxHP", "lvlMaxAtk", "lvlMaxDef",
	"baseAbilityID",
	"ability1ID", "ability1Val0", "ability1Val1", "ability1Val2",
	"ability2ID", "ability2Val0", "ability2Val1", "ability2Val2",
	"equipPart", "equipType", "isPersonalEquip", "owners", "classification",
	"isLevelable", "isForgingFairy", "desc", "commonEquipPlusValue",
	"personalEquipSortID", "isPersonalEarring", "zero", "extra1", "extra2",
}

// Equipment layouts.
var (
	EquipmentV1 = NewLayout(SectionEquipment, "v1", equipmentFields...)
	EquipmentV2 = NewLayout(SectionEquipment, "v2",
		concat(equipmentFields, []string{"classification2", "extra3"})...)
)

// ParseOwnerIDs splits a pipe-separated owners value. Empty input yields an
// empty list; entries that are not integers are skipped and reported.
func ParseOwnerIDs(s string, diag *Diagnostics) []int {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}
	}
	parts := strings.Split(s, OwnerSeparator)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			if diag != nil {
				diag.BadField(SectionEquipment, "owners", s)
			}
			continue
		}
		out = append(out, id)
	}
	return out
}

// DecodeEquipment converts a bound row into Equipment.
func DecodeEquipment(row Row, diag *Diagnostics) *Equipment {
	f := fieldReader{row: row, diag: diag}
	e := &Equipment{
		row:             row,
		ID:              f.text("id0"),
		Name:            f.text("name"),
		EquipID:         f.text("equipID"),
		LvlOne:          Stats{HP: f.num("lvlOneHP"), Atk: f.num("lvlOneAtk"), Def: f.num("lvlOneDef")},
		LvlMax:          Stats{HP: f.num("lvlMaxHP"), Atk: f.num("lvlMaxAtk"), Def: f.num("lvlMaxDef")},
		BaseAbilityID:   f.text("baseAbilityID"),
		Part:            f.num("equipPart"),
		Type:            f.num("equipType"),
		IsPersonal:      f.flag("isPersonalEquip"),
		Owners:          ParseOwnerIDs(f.text("owners"), diag),
		Classification:  f.num("classification"),
		Classification2: f.num("classification2"),
		IsLevelable:     f.flag("isLevelable"),
		IsForgingFairy:  f.flag("isForgingFairy"),
		Description:     f.text("desc"),
		PlusValue:       f.num("commonEquipPlusValue"),
		PersonalSortID:  f.text("personalEquipSortID"),
		IsEarring:       f.flag("isPersonalEarring"),
	}
	for i := range e.Abilities {
		n := i + 1
		e.Abilities[i].ID = f.text(fmt.Sprintf("ability%dID", n))
		for v := 0; v < 3; v++ {
			e.Abilities[i].Values[v] = f.text(fmt.Sprintf("ability%dVal%d", n, v))
		}
	}
	return e
}
