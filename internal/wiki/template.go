package wiki

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fkgwiki/nazuna/internal/data"
)

// iconName turns an English name into the wiki's icon file naming rule:
// no spaces, "(" becomes "_", ")" is dropped.
func iconName(english string) string {
	return strings.NewReplacer(" ", "", "(", "_", ")", "").Replace(english)
}

// CharacterTemplate renders the {{CharacterStat}} wikitext for one knight.
// english overrides the names overlay when non-empty.
func (r *Renderer) CharacterTemplate(nameOrID, english string) (Page, error) {
	k, err := r.m.Knight(nameOrID)
	if err != nil {
		return Page{}, err
	}
	if english == "" {
		english = r.names.Knights[k.FullName()]
	}

	var sb strings.Builder
	param := func(name, value string) {
		fmt.Fprintf(&sb, "\n|%s = %s", name, value)
	}
	sb.WriteString("{{CharacterStat")
	param("JP", k.FullName())
	param("reading", k.Reading())
	param("name", english)
	param("icon", iconName(english))
	param("rarity", strconv.Itoa(k.Rarity()))
	param("type", strconv.Itoa(k.Type()))
	param("nation", strconv.Itoa(k.Nation()))
	param("family", strconv.Itoa(k.Family()))
	param("gift", strconv.Itoa(k.Gift()))
	param("speed", strconv.Itoa(k.Speed()))

	skillName := ""
	if s, ok := r.m.Sections().Skills.Get(k.Skill()); ok {
		skillName = s.Name
	}
	param("skill", skillName)

	for _, t := range k.PresentTiers() {
		d := k.Tier(t)
		p := "tier" + strconv.Itoa(t.Index())
		param(p+"id", d.ID)
		param(p+"lvcap", strconv.Itoa(d.LevelCap))
		param(p+"hp", strconv.Itoa(d.LvlMax.HP))
		param(p+"atk", strconv.Itoa(d.LvlMax.Atk))
		param(p+"def", strconv.Itoa(d.LvlMax.Def))
	}
	if k.Bloomability() == data.BloomPowersOnly {
		param("bloom", "powers")
	}

	var equips []string
	for _, e := range r.m.PersonalEquipment(k) {
		equips = append(equips, e.EquipID)
	}
	param("equipment", strings.Join(equips, ","))
	sb.WriteString("\n}}")

	return Page{Title: "Template:" + k.FullName(), Body: sb.String()}, nil
}
