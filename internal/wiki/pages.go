// Package wiki renders master data as wiki module pages and templates.
package wiki

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fkgwiki/nazuna/internal/data"
)

// Page is one rendered wiki page.
type Page struct {
	Title string
	Body  string
	// Lua is false for wikitext pages, which are not run through the
	// Lua checker.
	Lua bool
}

// FileName maps a page title to a local file name.
func (p Page) FileName() string {
	name := strings.NewReplacer(":", "_", "/", "_", " ", "_").Replace(p.Title)
	if p.Lua {
		return name + ".lua"
	}
	return name + ".txt"
}

// Page titles.
const (
	TitleSkillList          = "Module:SkillList"
	TitleBundledAbilityList = "Module:BundledAbilityList"
	TitleEquipmentData      = "Module:Equipment/Data"
	TitleEquipmentLookup    = "Module:Equipment/LookupData"
	TitleEquipmentNames     = "Module:Equipment/Names"
	TitleMasterCharacter    = "Module:MasterCharacterData"
	TitleKnightIDAndName    = "Module:KnightIdAndName/Data"
	TitleSkinData           = "Module:Skin/Data"
	TitleMemoryData         = "Module:FlowerMemories/Data"
	TitleMemoryAbilityData  = "Module:FlowerMemories/AbilityData"
	TitleBlessedOathList    = "Module:BlessedOathList"
)

// Renderer formats one loaded Master as wiki pages.
type Renderer struct {
	m     *data.Master
	names *Names
}

// NewRenderer returns a renderer. names may be nil.
func NewRenderer(m *data.Master, names *Names) *Renderer {
	if names == nil {
		names = &Names{}
	}
	return &Renderer{m: m, names: names}
}

type builder func(*Renderer) Page

var builders = map[string]builder{
	TitleSkillList:          (*Renderer).SkillList,
	TitleBundledAbilityList: (*Renderer).BundledAbilityList,
	TitleEquipmentData:      (*Renderer).EquipmentData,
	TitleEquipmentLookup:    (*Renderer).EquipmentLookup,
	TitleEquipmentNames:     (*Renderer).EquipmentNames,
	TitleMasterCharacter:    (*Renderer).MasterCharacterData,
	TitleKnightIDAndName:    (*Renderer).KnightIDAndName,
	TitleSkinData:           (*Renderer).SkinData,
	TitleMemoryData:         (*Renderer).FlowerMemoryData,
	TitleMemoryAbilityData:  (*Renderer).FlowerMemoryAbilityData,
	TitleBlessedOathList:    (*Renderer).BlessedOathList,
}

// Titles lists every module page in a stable order.
func Titles() []string {
	out := make([]string, 0, len(builders))
	for t := range builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Render builds the named pages, or every page when titles is empty.
func (r *Renderer) Render(titles ...string) ([]Page, error) {
	if len(titles) == 0 {
		titles = Titles()
	}
	pages := make([]Page, 0, len(titles))
	for _, t := range titles {
		b, ok := builders[t]
		if !ok {
			return nil, fmt.Errorf("unknown page %q", t)
		}
		pages = append(pages, b(r))
	}
	return pages, nil
}

func entry(key, table string) string { return luaKey(key) + " = " + table }

func rowTable(r data.Record) string {
	row := r.Row()
	return inline(recordFields(row.Layout().Fields(), row.Values()))
}

// SkillList relates skill ids to every skill field.
func (r *Renderer) SkillList() Page {
	var entries []string
	for _, s := range r.m.Skills() {
		entries = append(entries, entry(s.ID, rowTable(s)))
	}
	return Page{Title: TitleSkillList, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Relates skill IDs with their accompanying data.",
	}, entries)}
}

// BundledAbilityList relates bundled ability ids to their effects.
func (r *Renderer) BundledAbilityList() Page {
	var entries []string
	for _, a := range r.m.Abilities() {
		entries = append(entries, entry(a.ID, rowTable(a)))
	}
	return Page{Title: TitleBundledAbilityList, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Relates ability IDs with their accompanying data.",
	}, entries)}
}

func ownersList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// EquipmentData relates equipment ids to every equipment field. Owners are
// written as a list.
func (r *Renderer) EquipmentData() Page {
	var entries []string
	for _, e := range r.m.Equipment() {
		row := e.Row()
		fields := recordFields(row.Layout().Fields(), row.Values())
		for i := range fields {
			if fields[i].key == "owners" {
				fields[i].value = ownersList(e.OwnerIDs())
			}
		}
		entries = append(entries, entry(e.EquipID, inline(fields)))
	}
	return Page{Title: TitleEquipmentData, Lua: true, Body: module([]string{
		categoryEquipment, categoryAuto,
		"-- Relates equipment IDs with accompanying data.",
	}, entries)}
}

// Personal equipment classifications.
const (
	classPersonal        = 21
	classPersonalEvolved = 30
)

// EquipmentLookup relates each owner id to its personal equipment ids:
// single-owner personal items, then shared evolved items, then rainbow
// items.
func (r *Renderer) EquipmentLookup() Page {
	all := r.m.Equipment()
	lookup := make(map[int][]string)
	for _, e := range all {
		c := e.Classification2
		if (c == classPersonal || c == classPersonalEvolved) && len(e.Owners) == 1 {
			lookup[e.Owners[0]] = []string{e.EquipID}
		}
	}
	owners := make([]int, 0, len(lookup))
	for o := range lookup {
		owners = append(owners, o)
	}
	sort.Ints(owners)

	var entries []string
	for _, o := range owners {
		ids := lookup[o]
		key := strconv.Itoa(o)
		for _, e := range all {
			if e.OwnedBy(key) && strings.HasPrefix(e.EquipID, "38") && e.Classification2 == classPersonalEvolved {
				ids = append(ids, e.EquipID)
			}
		}
		for _, e := range all {
			if e.OwnedBy(key) && len(e.EquipID) == 7 {
				ids = append(ids, e.EquipID)
			}
		}
		entries = append(entries, "["+key+"]={"+strings.Join(ids, ",")+"}")
	}
	return Page{Title: TitleEquipmentLookup, Lua: true, Body: module([]string{
		categoryKnights, categoryEquipment, categoryAuto,
		"--Relates equipment IDs with ownership.",
	}, entries)}
}

// EquipmentNames relates Japanese equipment names, without their generic
// affix, to English names. Overlay entries are kept even when the item is
// gone; new items map to "".
func (r *Renderer) EquipmentNames() Page {
	names := make(map[string]string, len(r.names.Equipment))
	for jp, en := range r.names.Equipment {
		names[jp] = en
	}
	for _, e := range r.m.Equipment() {
		jp := TrimEquipmentAffix(e.Name)
		if jp == "" {
			// Forge spirits are nothing but an affix.
			continue
		}
		if _, ok := names[jp]; !ok {
			names[jp] = ""
		}
	}
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, len(keys))
	for i, k := range keys {
		entries[i] = "[" + luaString(k) + "] = " + luaString(names[k])
	}
	return Page{Title: TitleEquipmentNames, Lua: true, Body: module([]string{
		categoryEquipment, categoryAuto, categoryManual,
		"-- Relates Japanese equipment names to translated names.",
		"-- New equipment is added automatically; translations are added by editors.",
	}, entries)}
}

var equipmentAffixes = []string{"指輪", "腕輪", "首飾り", "耳飾り"}

// TrimEquipmentAffix removes a generic ring/bracelet/necklace/earring
// suffix from an equipment name.
func TrimEquipmentAffix(name string) string {
	for _, a := range equipmentAffixes {
		if strings.HasSuffix(name, a) {
			return strings.TrimSuffix(name, a)
		}
	}
	return name
}

func statFields(prefix string, s data.Stats) []field {
	return []field{
		{prefix + "HP", luaInt(s.HP)},
		{prefix + "Atk", luaInt(s.Atk)},
		{prefix + "Def", luaInt(s.Def)},
	}
}

func bonusFields(prefix string, b data.Bonus) []field {
	return []field{
		{prefix + "HP", luaFloat(b.HP)},
		{prefix + "Atk", luaFloat(b.Atk)},
		{prefix + "Def", luaFloat(b.Def)},
	}
}

func (r *Renderer) knightFields(k *data.Knight) []field {
	pre := k.Tier(data.TierPreEvolution)
	if pre == nil {
		pre = &data.TierData{}
	}
	fs := []field{
		{"id", luaValue(pre.ID)},
		{"charID", luaValue(k.SortID())},
		{"charID2", luaValue(k.OwnerID())},
		{"libID", luaValue(k.LibraryID())},
		{"type", luaInt(k.Type())},
		{"rarity", luaInt(k.Rarity())},
		{"isEvent", luaBool(k.IsEvent())},
		{"reading", luaString(k.Reading())},
		{"tier3PowersOnlyBloom", luaBool(k.Bloomability() == data.BloomPowersOnly)},
		{"gift", luaInt(k.Gift())},
		{"nation", luaInt(k.Nation())},
		{"family", luaInt(k.Family())},
		{"japanese", luaString(k.FullName())},
		{"dateAdded", luaString(pre.Date0)},
		{"speed", luaInt(k.Speed())},
		{"skill", luaValue(k.Skill())},
	}
	if en := r.names.Knights[k.FullName()]; en != "" {
		fs = append(fs, field{"english", luaString(en)})
	}
	for _, t := range k.PresentTiers() {
		d := k.Tier(t)
		p := "tier" + strconv.Itoa(t.Index())
		fs = append(fs, field{p + "ID", luaValue(d.ID)})
		fs = append(fs, field{p + "LvCap", luaInt(d.LevelCap)})
		fs = append(fs, statFields(p+"Lv1", d.LvlOne)...)
		fs = append(fs, statFields(p+"LvMax", d.LvlMax)...)
		fs = append(fs, bonusFields(p+"Aff1", d.Aff1)...)
		fs = append(fs, bonusFields(p+"Aff2", d.Aff2)...)
		for i, a := range d.Abilities {
			if a != "" && a != "0" {
				fs = append(fs, field{fmt.Sprintf("%sAbility%d", p, i+1), luaValue(a)})
			}
		}
		if t != data.TierPreEvolution && d.Skill != k.Skill() {
			fs = append(fs, field{p + "Skill", luaValue(d.Skill)})
		}
	}
	return fs
}

// MasterCharacterData relates each knight's name to its data across tiers.
func (r *Renderer) MasterCharacterData() Page {
	knights := append([]*data.Knight(nil), r.m.Knights()...)
	sort.SliceStable(knights, func(i, j int) bool { return knights[i].FullName() < knights[j].FullName() })

	var entries []string
	for _, k := range knights {
		entries = append(entries, "["+luaString(k.FullName())+"] = "+inline(r.knightFields(k)))
	}
	return Page{Title: TitleMasterCharacter, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Relates character data to their IDs.",
	}, entries)}
}

// KnightIDAndName relates pre-evolution ids to knight names and back.
func (r *Renderer) KnightIDAndName() Page {
	knights := append([]*data.Knight(nil), r.m.Knights()...)
	firstID := func(k *data.Knight) string { return k.Tier(data.TierPreEvolution).ID }

	sort.SliceStable(knights, func(i, j int) bool { return atoi(firstID(knights[i])) < atoi(firstID(knights[j])) })
	idToName := make([]string, len(knights))
	for i, k := range knights {
		idToName[i] = "[" + luaString(firstID(k)) + "] = " + luaString(k.FullName()) + ","
	}

	sort.SliceStable(knights, func(i, j int) bool { return knights[i].FullName() < knights[j].FullName() })
	nameToID := make([]string, len(knights))
	for i, k := range knights {
		nameToID[i] = "[" + luaString(k.FullName()) + "] = " + luaString(firstID(k)) + ","
	}

	return Page{Title: TitleKnightIDAndName, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Relates character names to their IDs and vice-versa.",
		"-- Use this module when MasterCharacterData is overkill.",
	}, []string{
		"idToName = {\n\t\t" + strings.Join(idToName, "\n\t\t") + "\n\t}",
		"nameToId = {\n\t\t" + strings.Join(nameToID, "\n\t\t") + "\n\t}",
	})}
}

// Skin kinds.
const (
	skinFree = 1
	skinPaid = 2
)

// SkinData writes five lookups: library id to skin ids, skin id to info,
// library ids with exclusive skins, library ids with paid skins, and base
// ids with different-version skins.
func (r *Renderer) SkinData() Page {
	var skins []*data.Skin
	paid := make(map[int]bool)
	for _, s := range r.m.Skins() {
		kind, _ := strconv.Atoi(s.Row().Get("isSkin"))
		if kind == skinFree || kind == skinPaid {
			skins = append(skins, s)
			if kind == skinPaid {
				paid[atoi(s.LibraryID)] = true
			}
		}
	}

	byLib := make(map[int][]string)
	exclusive := make(map[int]bool)
	diffVer := make(map[int]bool)
	var info []string
	for _, s := range skins {
		lib := atoi(s.LibraryID)
		byLib[lib] = append(byLib[lib], luaString(s.ID))
		if s.IsExclusive {
			exclusive[lib] = true
		}
		if s.IsDiffVer {
			diffVer[atoi(s.ReplaceID)] = true
		}
		info = append(info, "["+luaString(s.ID)+"] = "+inline([]field{
			{"libraryID", luaValue(s.LibraryID)},
			{"replaceID", luaValue(s.ReplaceID)},
			{"isDiffVer", luaBool(s.IsDiffVer)},
			{"isExclusive", luaBool(s.IsExclusive)},
			{"skinName", luaString(s.Name)},
		})+",")
	}

	var libs []string
	for _, lib := range sortedInts(byLib) {
		libs = append(libs, "["+luaString(strconv.Itoa(lib))+"] = {"+strings.Join(byLib[lib], ", ")+"},")
	}
	body := []string{
		"libIdToSkinIds = {\n\t\t" + strings.Join(libs, "\n\t\t") + "\n\t}",
		"skinIdToInfo = {\n\t\t" + strings.Join(info, "\n\t\t") + "\n\t}",
		"libIdsWithExclusiveSkins = " + flagSet(exclusive),
		"libIdsWithPaidSkins = " + flagSet(paid),
		"uniqueCharIdsWithMinorSkins = " + flagSet(diffVer),
	}
	return Page{Title: TitleSkinData, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Relates skin IDs to their data.",
		"-- Exclusive skins come free with a character; paid skins cost Flower Stones;",
		"-- different-version skins are minor changes earned at one evolution tier.",
	}, body)}
}

func flagSet(set map[int]bool) string {
	var lines []string
	for _, id := range sortedInts(set) {
		lines = append(lines, "["+luaString(strconv.Itoa(id))+"] = 1,")
	}
	if len(lines) == 0 {
		return "{}"
	}
	return "{\n\t\t" + strings.Join(lines, "\n\t\t") + "\n\t}"
}

func sortedInts[V any](m map[int]V) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// FlowerMemoryData relates flower memory ids to their data.
func (r *Renderer) FlowerMemoryData() Page {
	var entries []string
	for _, m := range r.m.FlowerMemories() {
		fs := recordFields(m.Row().Layout().Fields(), m.Row().Values())
		abilities := make([]string, len(m.AbilityIDs))
		for i, a := range m.AbilityIDs {
			abilities[i] = luaValue(a)
		}
		fs = append(fs, field{"abilities", "{" + strings.Join(abilities, ", ") + "}"})
		entries = append(entries, entry(m.ID, inline(fs)))
	}
	return Page{Title: TitleMemoryData, Lua: true, Body: module([]string{
		categoryMemories, categoryAuto,
		"-- Relates Flower Memory IDs to their data.",
	}, entries)}
}

// FlowerMemoryAbilityData relates memory ability ids to their parameters.
func (r *Renderer) FlowerMemoryAbilityData() Page {
	var entries []string
	for _, a := range r.m.MemoryAbilities() {
		entries = append(entries, entry(a.ID, rowTable(a)))
	}
	return Page{Title: TitleMemoryAbilityData, Lua: true, Body: module([]string{
		categoryMemories, categoryAuto,
		"-- Contains ability parameters used by Flower Memories.",
	}, entries)}
}

// BlessedOathList lists knights that can receive a Blessed Oath ring.
func (r *Renderer) BlessedOathList() Page {
	var entries []string
	for _, b := range r.m.BlessedOaths() {
		entries = append(entries, entry(b.SameCharacterID, rowTable(b)))
	}
	return Page{Title: TitleBlessedOathList, Lua: true, Body: module([]string{
		categoryKnights, categoryAuto,
		"-- Contain the list of Flower Knights that can be given a Blessed Oath Ring.",
	}, entries)}
}
