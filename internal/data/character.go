package data

import (
	"fmt"
	"strings"
)

// Stats is an HP/attack/defense triple.
type Stats struct {
	HP  int
	Atk int
	Def int
}

// Bonus is an HP/attack/defense multiplier triple from affection.
type Bonus struct {
	HP  float64
	Atk float64
	Def float64
}

// Character is one masterCharacter row: one evolution tier of one character.
type Character struct {
	row Row

	ID            string
	AltID         string
	Family        int
	Nation        int
	Rarity        int
	Type          int
	Gift          int
	AbilityIDs    []string
	SkillID       string
	Skill2ID      string
	LvlOne        Stats
	LvlMax        Stats
	Speed         int
	AmpuleBonus   Stats
	Ampule2Bonus  Stats
	GoldSellValue int
	SortID        string
	LibraryID     string
	OwnerID       string // charID2; shared by every tier, used by personal equipment
	IsNotPreEvo   bool
	IsKnight      bool
	Aff1          Bonus
	Aff2          Bonus
	FullName      string
	Reading       string
	Variant       string
	PowersOnly    bool
	IsSynthMat    bool
	IsEvent       bool
	Date0         string
	Date1         string
	Date2         string
	GameVersion   string
	RarityGrownID string
	CanGrow       bool

	// Tier is resolved once from the overloaded evolutionTier column.
	Tier        Tier
	TierLiteral string
}

func (c *Character) Key() string { return c.ID }

// Fields returns the exact field vector the record was built from.
func (c *Character) Fields() []string { return c.row.Values() }

// Row returns the bound row.
func (c *Character) Row() Row { return c.row }

func (c *Character) String() string {
	return fmt.Sprintf("character %s (%s) at evolution tier %s", c.FullName, c.ID, c.TierLiteral)
}

// CharacterSchema is one era of the masterCharacter layout together with
// the columns that era uses to disambiguate tier "99".
type CharacterSchema struct {
	Layout *Layout

	RarityGrownField string
	FlagAField       string
	FlagBField       string
}

// Decode converts a bound row into a Character.
func (s *CharacterSchema) Decode(row Row, diag *Diagnostics) *Character {
	f := fieldReader{row: row, diag: diag}
	c := &Character{
		row:           row,
		ID:            strings.TrimSpace(f.text("id0")),
		AltID:         f.text("id1"),
		Family:        f.num("family"),
		Nation:        f.num("nation"),
		Rarity:        f.num("rarity"),
		Type:          f.num("type"),
		Gift:          f.num("gift"),
		SkillID:       f.text("skill1ID"),
		Skill2ID:      f.text("skill2ID"),
		LvlOne:        Stats{HP: f.num("lvlOneHP"), Atk: f.num("lvlOneAtk"), Def: f.num("lvlOneDef")},
		LvlMax:        Stats{HP: f.num("lvlMaxHP"), Atk: f.num("lvlMaxAtk"), Def: f.num("lvlMaxDef")},
		Speed:         f.num("lvlOneSpd"),
		AmpuleBonus:   Stats{HP: f.num("ampuleBonusHP"), Atk: f.num("ampuleBonusAtk"), Def: f.num("ampuleBonusDef")},
		Ampule2Bonus:  Stats{HP: f.num("ampule2BonusHP"), Atk: f.num("ampule2BonusAtk"), Def: f.num("ampule2BonusDef")},
		GoldSellValue: f.num("goldSellValue"),
		SortID:        f.text("sortID"),
		LibraryID:     f.text("libraryID"),
		OwnerID:       f.text("charID2"),
		IsNotPreEvo:   f.flag("isNotPreEvo"),
		IsKnight:      f.text("isFlowerKnight1") == "1",
		Aff1:          Bonus{HP: f.dec("aff1MultHP"), Atk: f.dec("aff1MultAtk"), Def: f.dec("aff1MultDef")},
		Aff2:          Bonus{HP: f.dec("aff2MultHP"), Atk: f.dec("aff2MultAtk"), Def: f.dec("aff2MultDef")},
		FullName:      f.text("fullName"),
		Reading:       f.text("reading"),
		Variant:       f.text("variant"),
		PowersOnly:    f.text("isBloomedPowersOnly") == "1",
		IsSynthMat:    f.flag("isSpecialSynthMat"),
		IsEvent:       f.flag("isEventKnight"),
		Date0:         f.text("date0"),
		Date1:         f.text("date1"),
		Date2:         f.text("date2"),
		GameVersion:   f.text("gameVersionWhenAdded"),
		RarityGrownID: f.text("rarityGrownID"),
		CanGrow:       f.flag("canRarityGrow"),
		TierLiteral:   strings.TrimSpace(f.text("evolutionTier")),
	}
	if c.SortID == "" {
		// Before the library sort column existed, charID1 played that role.
		c.SortID = f.text("charID1")
	}
	for i := 1; i <= 9; i++ {
		name := fmt.Sprintf("ability%dID", i)
		if row.Has(name) {
			c.AbilityIDs = append(c.AbilityIDs, f.text(name))
		}
	}

	var grown, flagA, flagB bool
	if s.RarityGrownField != "" {
		grown = f.text(s.RarityGrownField) == "1"
	}
	if s.FlagAField != "" {
		flagA = f.text(s.FlagAField) == "1"
	}
	if s.FlagBField != "" {
		flagB = f.text(s.FlagBField) == "1"
	}
	c.Tier = ClassifyTier(c.TierLiteral, grown, flagA, flagB)
	return c
}

// Ability returns the n-th (1-based) ability id, or "" past the end.
func (c *Character) Ability(n int) string {
	if n < 1 || n > len(c.AbilityIDs) {
		return ""
	}
	return c.AbilityIDs[n-1]
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	charHead = []string{
		"id0", "id1", "family", "nation", "charID1", "baseName0", "baseName1",
		"rarity", "type", "gift",
	}
	charStats = []string{
		"lvlOneHP", "lvlMaxHP", "lvlOneAtk", "lvlMaxAtk", "lvlOneDef", "lvlMaxDef",
		"lvlOneSpd", "lvlMaxSpd",
		"ampuleBonusHP", "ampuleBonusAtk", "ampuleBonusDef",
	}
	charMiddle = []string{
		"goldSellValue", "sortCategory", "hasAlternateForm", "sortID",
		"isNotPreEvo", "isFlowerKnight1",
		"aff1MultHP", "aff1MultAtk", "aff1MultDef",
		"charID2", "evolutionTier", "isFlowerKnight2",
		"aff2MultHP", "aff2MultAtk", "aff2MultDef",
		"unknown01", "unknown02", "unknown03", "unknown04",
		"fullName", "isBloomedPowersOnly", "variant", "reading",
		"libraryID", "isSpecialSynthMat", "isEventKnight",
		"date0", "date1", "unknown06", "gameVersionWhenAdded",
	}
	charGrowth = []string{"rarityGrownID", "isRarityGrown", "canRarityGrow"}
)

// Character layouts, oldest first.
var (
	// CharacterV1 is the 2017 layout: two abilities, no library or growth columns.
	CharacterV1 = &CharacterSchema{
		Layout: NewLayout(SectionCharacter, "v1",
			"id0", "id1", "family", "nation", "charID1", "baseName0", "baseName1",
			"rarity", "type", "gift",
			"ability1ID", "ability2ID", "skill1ID", "skill2ID", "unknown00",
			"lvlOneHP", "lvlMaxHP", "lvlOneAtk", "lvlMaxAtk", "lvlOneDef", "lvlMaxDef",
			"lvlOneSpd", "lvlMaxSpd",
			"ampuleBonusHP", "ampuleBonusAtk", "ampuleBonusDef",
			"goldSellValue", "sortCategory", "evolutionKeyValue",
			"isNotPreEvo", "isFlowerKnight1",
			"aff1MultHP", "aff1MultAtk", "aff1MultDef",
			"charID2", "evolutionTier", "isFlowerKnight2", "unknown01",
			"aff2MultHP", "aff2MultAtk", "aff2MultDef",
			"unknown02", "unknown03", "unknown04", "unknown05",
			"fullName", "isBloomedPowersOnly", "variant", "reading",
			"date0", "date1", "unknown06", "gameVersionWhenAdded",
		),
	}

	// CharacterV2 adds the third ability, library ids and event flags (Dec 2017).
	CharacterV2 = &CharacterSchema{
		Layout: NewLayout(SectionCharacter, "v2", concat(
			charHead,
			[]string{"ability1ID", "ability2ID", "ability3ID", "skill1ID", "skill2ID"},
			charStats,
			charMiddle,
		)...),
	}

	// CharacterV3 adds rarity growth (Mar 2018). Tier "99" first appears here.
	CharacterV3 = &CharacterSchema{
		Layout: NewLayout(SectionCharacter, "v3", concat(
			charHead,
			[]string{"ability1ID", "ability2ID", "ability3ID", "skill1ID", "skill2ID"},
			charStats,
			charMiddle,
			charGrowth,
		)...),
		RarityGrownField: "isRarityGrown",
		FlagAField:       "unknown03",
		FlagBField:       "unknown04",
	}

	// CharacterV4 is the 2020 layout: nine ability slots, second ampule
	// bonus, and a third date column.
	CharacterV4 = &CharacterSchema{
		Layout: NewLayout(SectionCharacter, "v4", concat(
			charHead,
			[]string{
				"ability1ID", "ability2ID", "ability3ID", "ability4ID", "ability5ID",
				"ability6ID", "ability7ID", "ability8ID", "ability9ID",
				"skill1ID", "skill2ID", "unknown07",
			},
			charStats,
			[]string{"ampule2BonusHP", "ampule2BonusAtk", "ampule2BonusDef"},
			charMiddle,
			charGrowth,
			[]string{"date2"},
		)...),
		RarityGrownField: "isRarityGrown",
		FlagAField:       "unknown03",
		FlagBField:       "unknown04",
	}
)

// CharacterSchemas lists every known character layout, oldest first.
func CharacterSchemas() []*CharacterSchema {
	return []*CharacterSchema{CharacterV1, CharacterV2, CharacterV3, CharacterV4}
}

// CharacterSchemaByVersion returns the layout named version ("v1".."v4").
func CharacterSchemaByVersion(version string) (*CharacterSchema, error) {
	for _, s := range CharacterSchemas() {
		if s.Layout.Version == version {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown character schema %q", version)
}

// DetectCharacterSchema picks the layout matching the first row's width.
func DetectCharacterSchema(rows []string) *CharacterSchema {
	layouts := make([]*Layout, 0, 4)
	for _, s := range CharacterSchemas() {
		layouts = append(layouts, s.Layout)
	}
	picked := detectLayout(layouts, rows)
	for _, s := range CharacterSchemas() {
		if s.Layout == picked {
			return s
		}
	}
	return CharacterV4
}

// detectLayout returns the candidate whose width is closest to the first
// non-empty row. Ties and empty input go to the newest candidate.
func detectLayout(candidates []*Layout, rows []string) *Layout {
	newest := candidates[len(candidates)-1]
	width := -1
	for _, r := range rows {
		if strings.TrimSpace(r) != "" {
			width = len(RawFields(r))
			break
		}
	}
	if width < 0 {
		return newest
	}
	best := newest
	bestDist := abs(best.Len() - width)
	for i := len(candidates) - 2; i >= 0; i-- {
		if d := abs(candidates[i].Len() - width); d < bestDist {
			best, bestDist = candidates[i], d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
