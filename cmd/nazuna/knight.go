package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fkgwiki/nazuna/internal/wiki"
	"github.com/spf13/cobra"
)

var (
	knightTemplate bool
	knightEnglish  string
	knightRows     bool
)

var knightCmd = &cobra.Command{
	Use:   "knight <name|id>",
	Short: "Show one flower knight",
	Long: `Looks a knight up by its full Japanese name or by the id of any of
its evolution tiers and prints its data, its raw rows or its
{{CharacterStat}} template.`,
	Args: cobra.ExactArgs(1),
	RunE: runKnight,
}

func init() {
	knightCmd.Flags().BoolVarP(&knightTemplate, "template", "t", false, "print the CharacterStat template")
	knightCmd.Flags().StringVar(&knightEnglish, "english", "", "English name for the template")
	knightCmd.Flags().BoolVar(&knightRows, "rows", false, "print the raw character rows")
	rootCmd.AddCommand(knightCmd)
}

func runKnight(_ *cobra.Command, args []string) error {
	m, err := loadMaster()
	if err != nil {
		return err
	}

	if knightRows {
		rows, err := m.CharEntries(args[0])
		if err != nil {
			return err
		}
		for _, c := range rows {
			fmt.Fprintln(out, strings.Join(c.Fields(), ","))
		}
		return nil
	}

	k, err := knightOrFail(m, args[0])
	if err != nil {
		return err
	}

	if knightTemplate {
		names, err := wiki.LoadNames(cfg.Wiki.NamesFile)
		if err != nil {
			return err
		}
		page, err := wiki.NewRenderer(m, names).CharacterTemplate(k.FullName(), knightEnglish)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, page.Body)
		return nil
	}

	printSection(k.FullName())
	printField("Reading", k.Reading())
	printField("Rarity", strconv.Itoa(k.Rarity()))
	printField("Owner id", k.OwnerID())
	printField("Library id", k.LibraryID())
	printField("Skill", k.Skill())
	printField("Latest date", k.LatestDate())
	for _, t := range k.PresentTiers() {
		d := k.Tier(t)
		printField(t.String(), fmt.Sprintf("%s  Lv%d  %d/%d/%d", d.ID, d.LevelCap, d.LvlMax.HP, d.LvlMax.Atk, d.LvlMax.Def))
	}
	for _, e := range m.PersonalEquipment(k) {
		printField("Equipment", e.EquipID+" "+e.Name)
	}
	return nil
}
