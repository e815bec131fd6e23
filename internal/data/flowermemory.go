package data

import (
	"sort"
	"strconv"
)

// Sync table names inside masterSyncData.
const (
	SyncFlowerMemories       = "master_flower_memorys"
	SyncMemoryAbilities      = "master_abilitys"
	SyncFlowerMemoryAbilitys = "master_flower_memorys_abilitys"
)

// FlowerMemory is one flower memory. Field names match the sync table keys,
// so the same layout binds CSV rows and sync objects.
type FlowerMemory struct {
	row Row

	ID          string
	ItemID      string
	Name        string
	Reading     string
	Rarity      int
	Order       int
	GrowthType  string
	Init        Stats
	PerLevel    Stats
	Description string

	// AbilityIDs holds the memory ability at each over-limit step.
	AbilityIDs []string
}

func (m *FlowerMemory) Key() string { return m.ID }
func (m *FlowerMemory) Fields() []string { return m.row.Values() }
func (m *FlowerMemory) Row() Row { return m.row }

var FlowerMemoryV1 = NewLayout(SectionFlowerMemory, "v1",
	"id", "itemId", "name", "readingName", "rarity", "orderNum", "growthType",
	"initHitPoint", "hitPointPerLevel", "initAttack", "attackPerLevel",
	"initDefense", "defensePerLevel", "description",
)

// DecodeFlowerMemory converts a bound row into a FlowerMemory.
func DecodeFlowerMemory(row Row, diag *Diagnostics) *FlowerMemory {
	f := fieldReader{row: row, diag: diag}
	return &FlowerMemory{
		row:         row,
		ID:          f.text("id"),
		ItemID:      f.text("itemId"),
		Name:        f.text("name"),
		Reading:     f.text("readingName"),
		Rarity:      f.num("rarity"),
		Order:       f.num("orderNum"),
		GrowthType:  f.text("growthType"),
		Init:        Stats{HP: f.num("initHitPoint"), Atk: f.num("initAttack"), Def: f.num("initDefense")},
		PerLevel:    Stats{HP: f.num("hitPointPerLevel"), Atk: f.num("attackPerLevel"), Def: f.num("defensePerLevel")},
		Description: f.text("description"),
	}
}

// FlowerMemoryAbility is an ability used by flower memories.
type FlowerMemoryAbility struct {
	row Row

	ID          string
	Name        string
	EffectID    string
	Description string
	Values      [4]string
}

func (a *FlowerMemoryAbility) Key() string { return a.ID }
func (a *FlowerMemoryAbility) Fields() []string { return a.row.Values() }
func (a *FlowerMemoryAbility) Row() Row { return a.row }

var FlowerMemoryAbilityV1 = NewLayout(SectionMemoryAbility, "v1",
	"id", "name", "effectId", "description", "value1", "value2", "value3", "value4",
)

// DecodeFlowerMemoryAbility converts a bound row into a FlowerMemoryAbility.
func DecodeFlowerMemoryAbility(row Row, diag *Diagnostics) *FlowerMemoryAbility {
	f := fieldReader{row: row, diag: diag}
	return &FlowerMemoryAbility{
		row:         row,
		ID:          f.text("id"),
		Name:        f.text("name"),
		EffectID:    f.text("effectId"),
		Description: f.text("description"),
		Values:      [4]string{f.text("value1"), f.text("value2"), f.text("value3"), f.text("value4")},
	}
}

// memoryAbilityLink ties a memory to its ability at one over-limit step.
type memoryAbilityLink struct {
	memoryID  string
	step      int
	abilityID string
}

var memoryAbilityLinkV1 = NewLayout(SyncFlowerMemoryAbilitys, "v1",
	"id", "flowerMemoryId", "overLimitStep", "abilityId",
)

// attachMemoryAbilities fills AbilityIDs of each memory in step order.
func attachMemoryAbilities(memories []*FlowerMemory, links []memoryAbilityLink) {
	byMemory := make(map[string][]memoryAbilityLink)
	for _, l := range links {
		byMemory[l.memoryID] = append(byMemory[l.memoryID], l)
	}
	for _, m := range memories {
		ls := byMemory[m.ID]
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].step < ls[j].step })
		m.AbilityIDs = m.AbilityIDs[:0]
		for _, l := range ls {
			m.AbilityIDs = append(m.AbilityIDs, l.abilityID)
		}
	}
}

// BindObject binds a flat sync object to a layout. Keys the layout does not
// name are ignored; missing keys become empty fields.
func (l *Layout) BindObject(obj map[string]string) Row {
	values := make([]string, l.Len())
	for i, name := range l.fields {
		values[i] = obj[name]
	}
	return Row{layout: l, values: values}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
