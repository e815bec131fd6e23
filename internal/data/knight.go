package data

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// Tier is one evolution stage of a knight.
type Tier int

const (
	TierUnknown Tier = iota
	TierPreEvolution
	TierEvolved
	TierBloomed
	TierRarityGrown
)

// Tiers lists the valid tiers in evolution order.
var Tiers = [...]Tier{TierPreEvolution, TierEvolved, TierBloomed, TierRarityGrown}

func (t Tier) String() string {
	switch t {
	case TierPreEvolution:
		return "pre-evolution"
	case TierEvolved:
		return "evolved"
	case TierBloomed:
		return "bloomed"
	case TierRarityGrown:
		return "rarity-grown"
	}
	return "unknown"
}

// Index returns the 1-based tier number used by wiki pages, or 0.
func (t Tier) Index() int {
	if t < TierPreEvolution || t > TierRarityGrown {
		return 0
	}
	return int(t)
}

// ClassifyTier resolves the overloaded evolutionTier column. Literal "99"
// means bloom for a low-rarity character or rarity growth depending on the
// two era-specific flags.
func ClassifyTier(literal string, rarityGrown, flagA, flagB bool) Tier {
	switch {
	case literal == "1":
		return TierPreEvolution
	case literal == "2":
		return TierEvolved
	case literal == "3" && !rarityGrown,
		literal == "99" && rarityGrown && !flagA && flagB:
		return TierBloomed
	case literal == "4" && rarityGrown,
		literal == "99" && rarityGrown && flagA && !flagB:
		return TierRarityGrown
	}
	return TierUnknown
}

// Bloomability describes whether and how a knight blooms.
type Bloomability int

const (
	NoBloom Bloomability = iota
	Bloomable
	BloomPowersOnly
)

// Level caps per rarity for the first three tiers. Rarity growth always
// lands on the six-star bloom cap.
var levelCaps = map[int][3]int{
	2: {50, 60, 80},
	3: {50, 60, 80},
	4: {50, 60, 80},
	5: {60, 70, 80},
	6: {60, 70, 80},
}

func levelCap(rarity int, t Tier) int {
	if t == TierRarityGrown {
		return levelCaps[6][2]
	}
	caps, ok := levelCaps[rarity]
	if !ok || t.Index() == 0 {
		return 0
	}
	return caps[t.Index()-1]
}

// TierData is the per-tier part of a knight.
type TierData struct {
	ID          string
	LevelCap    int
	Skill       string
	Abilities   []string
	LvlOne      Stats
	LvlMax      Stats
	Aff1        Bonus
	Aff2        Bonus
	Date0       string
	Date1       string
	GameVersion string
}

func newTierData(c *Character, rarity int, t Tier) *TierData {
	abilities := make([]string, 3)
	for i := range abilities {
		abilities[i] = c.Ability(i + 1)
	}
	return &TierData{
		ID:          c.ID,
		LevelCap:    levelCap(rarity, t),
		Skill:       c.SkillID,
		Abilities:   abilities,
		LvlOne:      c.LvlOne,
		LvlMax:      c.LvlMax,
		Aff1:        c.Aff1,
		Aff2:        c.Aff2,
		Date0:       c.Date0,
		Date1:       c.Date1,
		GameVersion: c.GameVersion,
	}
}

// ErrTierGap is returned by Validate for a knight that has a later tier
// without the tier before it.
var ErrTierGap = errors.New("evolution tier gap")

// Knight is one playable character reconstructed from its tier rows.
// Identity fields are fixed by NewKnight and only exposed through getters.
type Knight struct {
	fullName   string
	reading    string
	rarity     int
	speed      int
	skill      string
	family     int
	kind       int
	nation     int
	gift       int
	isEvent    bool
	powersOnly bool
	ownerID    string

	sortID    string
	libraryID string

	tiers        [5]*TierData
	bloomability Bloomability
	grows        bool

	latest      string
	latestKnown bool
	latestScans int
}

// NewKnight starts a knight from the first row seen for it.
func NewKnight(first *Character) *Knight {
	return &Knight{
		fullName:   first.FullName,
		reading:    first.Reading,
		rarity:     first.Rarity,
		speed:      first.Speed,
		skill:      first.SkillID,
		family:     first.Family,
		kind:       first.Type,
		nation:     first.Nation,
		gift:       first.Gift,
		isEvent:    first.IsEvent,
		powersOnly: first.PowersOnly,
		ownerID:    first.OwnerID,
	}
}

func (k *Knight) FullName() string { return k.fullName }
func (k *Knight) Reading() string { return k.reading }
func (k *Knight) Rarity() int { return k.rarity }
func (k *Knight) Speed() int { return k.speed }
func (k *Knight) Skill() string { return k.skill }
func (k *Knight) Family() int { return k.family }
func (k *Knight) Type() int { return k.kind }
func (k *Knight) Nation() int { return k.nation }
func (k *Knight) Gift() int { return k.gift }
func (k *Knight) IsEvent() bool { return k.isEvent }

// OwnerID is the charID2 shared by all tiers; equipment owner lists refer to it.
func (k *Knight) OwnerID() string { return k.ownerID }

// SortID and LibraryID come from the pre-evolution row only.
func (k *Knight) SortID() string { return k.sortID }
func (k *Knight) LibraryID() string { return k.libraryID }

// Tier returns the data for t, or nil if the knight lacks that tier.
func (k *Knight) Tier(t Tier) *TierData {
	if t.Index() == 0 {
		return nil
	}
	return k.tiers[t]
}

// Has reports whether the knight has tier t.
func (k *Knight) Has(t Tier) bool { return k.Tier(t) != nil }

// PresentTiers returns the tiers the knight has, in order.
func (k *Knight) PresentTiers() []Tier {
	var out []Tier
	for _, t := range Tiers {
		if k.tiers[t] != nil {
			out = append(out, t)
		}
	}
	return out
}

// CanEvolve is false for materials and skins.
func (k *Knight) CanEvolve() bool { return k.Has(TierEvolved) }

func (k *Knight) Bloomability() Bloomability { return k.bloomability }
func (k *Knight) CanBloom() bool { return k.bloomability != NoBloom }
func (k *Knight) CanRarityGrow() bool { return k.grows }

// set stores the tier data. Bloom and growth flags only ever turn on.
func (k *Knight) set(t Tier, c *Character) {
	k.tiers[t] = newTierData(c, k.rarity, t)
	switch t {
	case TierPreEvolution:
		k.sortID = c.SortID
		k.libraryID = c.LibraryID
	case TierBloomed:
		if c.PowersOnly {
			k.bloomability = BloomPowersOnly
		} else if k.bloomability == NoBloom {
			k.bloomability = Bloomable
		}
	case TierRarityGrown:
		k.grows = true
	}
	k.latestKnown = false
}

// LatestDate returns the latest of the date0/date1 values over the tiers
// the knight has. Dates are zero-padded "YYYY/MM/DD hh:mm:ss" strings, so
// the lexicographic maximum is the latest. The result is computed once.
func (k *Knight) LatestDate() string {
	if k.latestKnown {
		return k.latest
	}
	k.latestScans++
	latest := ""
	for _, t := range Tiers {
		d := k.tiers[t]
		if d == nil {
			continue
		}
		if d.Date0 > latest {
			latest = d.Date0
		}
		if d.Date1 > latest {
			latest = d.Date1
		}
	}
	k.latest = latest
	k.latestKnown = true
	return latest
}

// HasID reports whether candidate is the id of one of the knight's tiers.
func (k *Knight) HasID(candidate string) bool {
	id := NormalizeID(candidate)
	if id == "" {
		return false
	}
	for _, t := range Tiers {
		if d := k.tiers[t]; d != nil && d.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the tier ids in tier order.
func (k *Knight) IDs() []string {
	var out []string
	for _, t := range Tiers {
		if d := k.tiers[t]; d != nil {
			out = append(out, d.ID)
		}
	}
	return out
}

// Validate returns ErrTierGap if a tier is present without its predecessor.
func (k *Knight) Validate() error {
	for i := 1; i < len(Tiers); i++ {
		t, prev := Tiers[i], Tiers[i-1]
		if k.Has(t) && !k.Has(prev) {
			return fmt.Errorf("%w: %s tier without %s tier", ErrTierGap, t, prev)
		}
	}
	return nil
}

func (k *Knight) String() string {
	return fmt.Sprintf("%s (%s)", k.fullName, strings.Join(k.IDs(), "/"))
}

// NormalizeID trims an id typed by an operator and folds full-width digits
// to ASCII.
func NormalizeID(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
