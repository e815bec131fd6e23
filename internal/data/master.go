package data

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Lookup errors returned by Master.
var (
	ErrKnightNotFound  = errors.New("knight not found")
	ErrAmbiguousKnight = errors.New("several knights share one id")
)

// Options controls how a bundle is loaded into a Master.
type Options struct {
	Schemas Schemas
	// Strict aborts the load when a knight has a tier gap instead of
	// dropping that knight.
	Strict bool
}

// Master owns every assembled section and knight of one bundle.
type Master struct {
	log      *zap.Logger
	diag     *Diagnostics
	sections *Sections
	knights  []*Knight
	byName   map[string]*Knight
}

// Load assembles src and reconstructs its knights. Rows are grouped into
// knights by full name, in first-seen order.
func Load(src Source, log *zap.Logger, opts Options) (*Master, error) {
	if log == nil {
		log = zap.NewNop()
	}
	diag := NewDiagnostics(log)
	sections := NewAssembler(diag, opts.Schemas).Assemble(src)
	rec := NewReconstructor(diag)

	m := &Master{
		log:      log,
		diag:     diag,
		sections: sections,
		byName:   make(map[string]*Knight),
	}
	var order []string
	for _, c := range sections.Characters {
		k, seen := m.byName[c.FullName]
		k = rec.Add(k, c)
		if k == nil {
			continue
		}
		if !seen {
			order = append(order, c.FullName)
		}
		m.byName[c.FullName] = k
	}

	for _, name := range order {
		k := m.byName[name]
		if err := k.Validate(); err != nil {
			diag.TierGap(k, err)
			if opts.Strict {
				return nil, fmt.Errorf("knight %s: %w", name, err)
			}
			delete(m.byName, name)
			continue
		}
		m.knights = append(m.knights, k)
	}

	log.Info("master data loaded",
		zap.String("character_schema", sections.CharacterSchema.Layout.Version),
		zap.Int("knights", len(m.knights)),
		zap.Int("skills", sections.Skills.Count()),
		zap.Int("abilities", sections.Abilities.Count()),
		zap.Int("equipment", sections.Equipment.Count()),
		zap.Int("diagnostics", len(diag.Entries())),
	)
	return m, nil
}

// Diagnostics returns what was reported while loading.
func (m *Master) Diagnostics() *Diagnostics { return m.diag }

// Sections returns the assembled sections.
func (m *Master) Sections() *Sections { return m.sections }

// Knights returns every knight in first-seen order.
func (m *Master) Knights() []*Knight { return m.knights }

// Knight resolves a knight by exact full name or by any of its tier ids.
func (m *Master) Knight(nameOrID string) (*Knight, error) {
	if k, ok := m.byName[strings.TrimSpace(nameOrID)]; ok {
		return k, nil
	}
	id := NormalizeID(nameOrID)
	if !isDigits(id) {
		m.log.Warn("no knight with this name", zap.String("name", nameOrID))
		return nil, fmt.Errorf("%w: %q", ErrKnightNotFound, nameOrID)
	}

	var matches []*Knight
	for _, k := range m.knights {
		if k.HasID(id) {
			matches = append(matches, k)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		m.log.Warn("no knight with this id", zap.String("id", id))
		return nil, fmt.Errorf("%w: id %s", ErrKnightNotFound, id)
	}
	names := make([]string, len(matches))
	for i, k := range matches {
		names[i] = k.FullName()
	}
	m.log.Error("data integrity: several knights claim one id",
		zap.String("id", id),
		zap.Strings("knights", names),
	)
	return nil, fmt.Errorf("%w: id %s claimed by %d knights", ErrAmbiguousKnight, id, len(matches))
}

// CharEntries returns the tier rows of one character, found by full name or
// by the id of any of its rows. Non-knight rows are searched too. A match
// must have two to four rows.
func (m *Master) CharEntries(nameOrID string) ([]*Character, error) {
	rows := make([]*Character, 0, len(m.sections.Characters)+len(m.sections.OtherCharacters))
	rows = append(rows, m.sections.Characters...)
	rows = append(rows, m.sections.OtherCharacters...)

	name := strings.TrimSpace(nameOrID)
	if id := NormalizeID(nameOrID); isDigits(id) {
		name = ""
		for _, c := range rows {
			if c.ID == id {
				name = c.FullName
				break
			}
		}
		if name == "" {
			m.log.Warn("no character with this id", zap.String("id", id))
			return nil, fmt.Errorf("%w: id %s", ErrKnightNotFound, id)
		}
	}

	var entries []*Character
	for _, c := range rows {
		if c.FullName == name {
			entries = append(entries, c)
		}
	}
	if len(entries) < 2 || len(entries) > len(Tiers) {
		m.log.Warn("no character by that name has 2 to 4 evolution stages",
			zap.String("name", name),
			zap.Int("rows", len(entries)),
		)
		return nil, fmt.Errorf("%w: %q", ErrKnightNotFound, name)
	}
	return entries, nil
}

// NewestKnights returns the knights whose latest date is the latest of all.
func (m *Master) NewestKnights() []*Knight {
	newest := ""
	for _, k := range m.knights {
		if d := k.LatestDate(); d > newest {
			newest = d
		}
	}
	var out []*Knight
	for _, k := range m.knights {
		if k.LatestDate() == newest {
			out = append(out, k)
		}
	}
	return out
}

// DateGroup is every knight having one date among its tier dates.
type DateGroup struct {
	Date    string
	Knights []*Knight
}

// KnightsByDate groups knights under every date0/date1 of their present
// tiers, newest date first.
func (m *Master) KnightsByDate() []DateGroup {
	byDate := make(map[string][]*Knight)
	for _, k := range m.knights {
		seen := make(map[string]bool)
		for _, t := range k.PresentTiers() {
			d := k.Tier(t)
			for _, date := range []string{d.Date0, d.Date1} {
				if date == "" || seen[date] {
					continue
				}
				seen[date] = true
				byDate[date] = append(byDate[date], k)
			}
		}
	}
	out := make([]DateGroup, 0, len(byDate))
	for date, ks := range byDate {
		out = append(out, DateGroup{Date: date, Knights: ks})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// PersonalEquipment returns equipment whose owner list contains the
// knight's owner id, in source order.
func (m *Master) PersonalEquipment(k *Knight) []*Equipment {
	var out []*Equipment
	for _, e := range m.sections.Equipment.All() {
		if e.OwnedBy(k.OwnerID()) {
			out = append(out, e)
		}
	}
	return out
}

// EquipmentFields returns the fields of e's row as they appeared in the
// bundle, without padding, or nil if e is not from this master.
func (m *Master) EquipmentFields(e *Equipment) []string {
	for i, x := range m.sections.Equipment.All() {
		if x == e {
			return m.sections.EquipmentRaw[i]
		}
	}
	return nil
}

// Sorted listings used by renderers.
func (m *Master) Skills() []*Skill { return m.sections.Skills.Sorted() }
func (m *Master) Abilities() []*Ability { return m.sections.Abilities.Sorted() }
func (m *Master) Equipment() []*Equipment { return m.sections.Equipment.Sorted() }
func (m *Master) Skins() []*Skin { return m.sections.Skins.Sorted() }
func (m *Master) FlowerMemories() []*FlowerMemory { return m.sections.FlowerMemories.Sorted() }
func (m *Master) BlessedOaths() []*BlessedOath { return m.sections.BlessedOaths.Sorted() }
func (m *Master) Characters() []*Character { return NewTable(m.sections.Characters).Sorted() }
func (m *Master) AbilityDescriptions() []*AbilityDescription {
	return m.sections.AbilityDescriptions.Sorted()
}
func (m *Master) MemoryAbilities() []*FlowerMemoryAbility {
	return m.sections.MemoryAbilities.Sorted()
}

// UniqueCharacters returns the non-knight characters ordered by id.
func (m *Master) UniqueCharacters() []*Character {
	rows := make([]*Character, 0, len(m.sections.UniqueCharacters))
	for _, c := range m.sections.UniqueCharacters {
		rows = append(rows, c)
	}
	return NewTable(rows).Sorted()
}

// AbilityReference counts how many bundled abilities use one effect id.
type AbilityReference struct {
	EffectID string
	Count    int
	// Example is the first bundled ability seen using the effect.
	Example *Ability
	Slot    int
}

// ReferencedAbilities counts effect references across bundled abilities,
// ordered by numeric effect id. Effect ids of 0 or below in later slots
// mean an empty slot and are skipped.
func (m *Master) ReferencedAbilities() []AbilityReference {
	refs := make(map[string]*AbilityReference)
	for _, ab := range m.sections.Abilities.All() {
		for i, e := range ab.Effects {
			if i > 0 {
				if n, err := strconv.Atoi(e.ID); err != nil || n <= 0 {
					continue
				}
			}
			r, ok := refs[e.ID]
			if !ok {
				r = &AbilityReference{EffectID: e.ID, Example: ab, Slot: i + 1}
				refs[e.ID] = r
			}
			r.Count++
		}
	}
	out := make([]AbilityReference, 0, len(refs))
	for _, r := range refs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].EffectID, out[j].EffectID) })
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
