package data

import (
	"strings"
)

// Source supplies raw section rows and sync tables. bundle.Bundle
// implements it.
type Source interface {
	// Rows returns the non-empty rows of a CSV section in order.
	Rows(section string) []string
	// SyncTable returns the merged objects of one masterSyncData table,
	// ordered by first appearance.
	SyncTable(name string) []map[string]string
}

// Schemas pins the layout used for each versioned section. A nil entry is
// detected from the first row of its section.
type Schemas struct {
	Character *CharacterSchema
	Skill     *Layout
	Ability   *Layout
	Equipment *Layout
}

// Sections holds every assembled section of one bundle.
type Sections struct {
	CharacterSchema *CharacterSchema

	// Characters holds every playable knight row in source order.
	Characters []*Character
	// UniqueCharacters holds rows of characters that are not knights
	// (materials, fairies), keyed by name; the last row per name wins.
	UniqueCharacters map[string]*Character
	// OtherCharacters holds every non-knight row in source order.
	OtherCharacters []*Character

	Skills              *Table[*Skill]
	Abilities           *Table[*Ability]
	AbilityDescriptions *Table[*AbilityDescription]
	Equipment           *Table[*Equipment]
	// EquipmentRaw is the unpadded field vector of each equipment row, in
	// the same order as Equipment.All().
	EquipmentRaw    [][]string
	Skins           *Table[*Skin]
	FlowerMemories  *Table[*FlowerMemory]
	MemoryAbilities *Table[*FlowerMemoryAbility]
	BlessedOaths    *Table[*BlessedOath]
}

// Assembler turns raw section rows into typed records.
type Assembler struct {
	diag    *Diagnostics
	schemas Schemas
}

// NewAssembler returns an assembler reporting through diag.
func NewAssembler(diag *Diagnostics, schemas Schemas) *Assembler {
	if diag == nil {
		diag = NewDiagnostics(nil)
	}
	return &Assembler{diag: diag, schemas: schemas}
}

// Diagnostics returns the collector used by this assembler.
func (a *Assembler) Diagnostics() *Diagnostics { return a.diag }

// Assemble builds every section from src. Abilities are filtered after
// both ability sections and the character section are read.
func (a *Assembler) Assemble(src Source) *Sections {
	s := &Sections{UniqueCharacters: make(map[string]*Character)}

	skillLayout := a.schemas.Skill
	if skillLayout == nil {
		skillLayout = detectLayout([]*Layout{SkillV1, SkillV2}, src.Rows(SectionSkill))
	}
	s.Skills = NewTable(bindAll(src.Rows(SectionSkill), skillLayout, a.diag, DecodeSkill))

	s.AbilityDescriptions = NewTable(bindAll(src.Rows(SectionAbilityDescription),
		AbilityDescriptionV1, a.diag, DecodeAbilityDescription))

	abilityLayout := a.schemas.Ability
	if abilityLayout == nil {
		abilityLayout = detectLayout([]*Layout{AbilityV1, AbilityV2}, src.Rows(SectionAbility))
	}
	abilities := bindAll(src.Rows(SectionAbility), abilityLayout, a.diag, DecodeAbility)

	equipLayout := a.schemas.Equipment
	if equipLayout == nil {
		equipLayout = detectLayout([]*Layout{EquipmentV1, EquipmentV2}, src.Rows(SectionEquipment))
	}
	var equipment []*Equipment
	for _, raw := range src.Rows(SectionEquipment) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s.EquipmentRaw = append(s.EquipmentRaw, RawFields(raw))
		equipment = append(equipment, DecodeEquipment(equipLayout.Bind(raw, a.diag), a.diag))
	}
	s.Equipment = NewTable(equipment)

	s.Skins = NewTable(bindAll(src.Rows(SectionSkin), SkinV1, a.diag, DecodeSkin))
	s.BlessedOaths = NewTable(bindAll(src.Rows(SectionBlessedOath), BlessedOathV1, a.diag, DecodeBlessedOath))
	s.FlowerMemories, s.MemoryAbilities = a.flowerMemories(src)

	schema := a.schemas.Character
	if schema == nil {
		schema = DetectCharacterSchema(src.Rows(SectionCharacter))
	}
	s.CharacterSchema = schema
	excluded := make(map[string]bool)
	for _, raw := range src.Rows(SectionCharacter) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		c := schema.Decode(schema.Layout.Bind(raw, a.diag), a.diag)
		if !c.IsKnight {
			if id := c.Ability(1); id != "" {
				excluded[id] = true
			}
			s.UniqueCharacters[c.FullName] = c
			s.OtherCharacters = append(s.OtherCharacters, c)
			continue
		}
		s.Characters = append(s.Characters, c)
	}

	s.Abilities = NewTable(filterAbilities(abilities, s.AbilityDescriptions, excluded))
	return s
}

// filterAbilities drops synthesis-material abilities and abilities owned by
// non-knight characters.
func filterAbilities(all []*Ability, descs *Table[*AbilityDescription], excluded map[string]bool) []*Ability {
	out := make([]*Ability, 0, len(all))
	for _, ab := range all {
		if excluded[ab.ID] || ab.IsSynthesis() {
			continue
		}
		if d, ok := descs.Get(ab.ID); ok && d.IsSynthesis() {
			continue
		}
		out = append(out, ab)
	}
	return out
}

// flowerMemories reads the CSV sections when present and falls back to the
// sync tables otherwise.
func (a *Assembler) flowerMemories(src Source) (*Table[*FlowerMemory], *Table[*FlowerMemoryAbility]) {
	memories := bindAll(src.Rows(SectionFlowerMemory), FlowerMemoryV1, a.diag, DecodeFlowerMemory)
	if len(memories) == 0 {
		for _, obj := range src.SyncTable(SyncFlowerMemories) {
			memories = append(memories, DecodeFlowerMemory(FlowerMemoryV1.BindObject(obj), a.diag))
		}
	}

	abilities := bindAll(src.Rows(SectionMemoryAbility), FlowerMemoryAbilityV1, a.diag, DecodeFlowerMemoryAbility)
	if len(abilities) == 0 {
		for _, obj := range src.SyncTable(SyncMemoryAbilities) {
			abilities = append(abilities, DecodeFlowerMemoryAbility(FlowerMemoryAbilityV1.BindObject(obj), a.diag))
		}
	}

	var links []memoryAbilityLink
	for _, obj := range src.SyncTable(SyncFlowerMemoryAbilitys) {
		row := memoryAbilityLinkV1.BindObject(obj)
		links = append(links, memoryAbilityLink{
			memoryID:  row.Get("flowerMemoryId"),
			step:      atoiOr(row.Get("overLimitStep"), 0),
			abilityID: row.Get("abilityId"),
		})
	}
	attachMemoryAbilities(memories, links)
	return NewTable(memories), NewTable(abilities)
}

// bindAll binds and decodes each non-empty row.
func bindAll[T any](rows []string, l *Layout, diag *Diagnostics, decode func(Row, *Diagnostics) T) []T {
	out := make([]T, 0, len(rows))
	for _, raw := range rows {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out = append(out, decode(l.Bind(raw, diag), diag))
	}
	return out
}
