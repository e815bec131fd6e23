// masterconv dumps knights, skills or equipment from getMaster files to YAML
// for review diffs.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fkgwiki/nazuna/internal/bundle"
	"github.com/fkgwiki/nazuna/internal/data"
	"gopkg.in/yaml.v3"
)

type tierEntry struct {
	Tier  string `yaml:"tier"`
	ID    string `yaml:"id"`
	LvCap int    `yaml:"lv_cap"`
	HP    int    `yaml:"hp"`
	Atk   int    `yaml:"atk"`
	Def   int    `yaml:"def"`
	Skill string `yaml:"skill"`
	Date0 string `yaml:"date0,omitempty"`
	Date1 string `yaml:"date1,omitempty"`
}

type knightEntry struct {
	Name     string      `yaml:"name"`
	Reading  string      `yaml:"reading"`
	Rarity   int         `yaml:"rarity"`
	Type     int         `yaml:"type"`
	Nation   int         `yaml:"nation"`
	OwnerID  string      `yaml:"owner_id"`
	CanBloom bool        `yaml:"can_bloom"`
	CanGrow  bool        `yaml:"can_rarity_grow"`
	Tiers    []tierEntry `yaml:"tiers"`
}

type skillEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type equipmentEntry struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Owners []int    `yaml:"owners,flow"`
	Class2 int      `yaml:"classification2"`
	Fields []string `yaml:"fields,flow"`
}

func main() {
	kind := flag.String("kind", "knights", "what to dump: knights, skills or equipment")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: masterconv [-kind knights|skills|equipment] <getMaster...> <output.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}
	inputs := flag.Args()[:flag.NArg()-1]
	output := flag.Arg(flag.NArg() - 1)

	b, err := bundle.Decode(inputs...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	m, err := data.Load(b, nil, data.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var doc any
	var n int
	switch *kind {
	case "knights":
		entries := knights(m)
		doc, n = entries, len(entries)
	case "skills":
		var entries []skillEntry
		for _, s := range m.Skills() {
			entries = append(entries, skillEntry{ID: s.ID, Name: s.Name, Description: s.Description})
		}
		doc, n = entries, len(entries)
	case "equipment":
		var entries []equipmentEntry
		for _, e := range m.Equipment() {
			entries = append(entries, equipmentEntry{
				ID:     e.EquipID,
				Name:   e.Name,
				Owners: e.OwnerIDs(),
				Class2: e.Classification2,
				Fields: m.EquipmentFields(e),
			})
		}
		doc, n = entries, len(entries)
	default:
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		os.Exit(1)
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "# %s dumped by masterconv (%d entries)\n", *kind, n)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d %s entries to %s\n", n, *kind, output)
}

func knights(m *data.Master) []knightEntry {
	var out []knightEntry
	for _, k := range m.Knights() {
		e := knightEntry{
			Name:     k.FullName(),
			Reading:  k.Reading(),
			Rarity:   k.Rarity(),
			Type:     k.Type(),
			Nation:   k.Nation(),
			OwnerID:  k.OwnerID(),
			CanBloom: k.CanBloom(),
			CanGrow:  k.CanRarityGrow(),
		}
		for _, t := range k.PresentTiers() {
			d := k.Tier(t)
			e.Tiers = append(e.Tiers, tierEntry{
				Tier: t.String(), ID: d.ID, LvCap: d.LevelCap,
				HP: d.LvlMax.HP, Atk: d.LvlMax.Atk, Def: d.LvlMax.Def,
				Skill: d.Skill, Date0: d.Date0, Date1: d.Date1,
			})
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
