package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var abilitiesUnique bool

var abilitiesCmd = &cobra.Command{
	Use:   "abilities",
	Short: "Count ability effect ids used by bundled abilities",
	Long: `Lists every ability effect id referenced by the bundled abilities with
its use count and one example. With --unique, lists the non-knight
characters whose abilities were left out of the bundled list instead.`,
	Args: cobra.NoArgs,
	RunE: runAbilities,
}

func init() {
	abilitiesCmd.Flags().BoolVar(&abilitiesUnique, "unique", false, "list non-knight characters")
	rootCmd.AddCommand(abilitiesCmd)
}

func runAbilities(_ *cobra.Command, _ []string) error {
	m, err := loadMaster()
	if err != nil {
		return err
	}

	if abilitiesUnique {
		chars := m.UniqueCharacters()
		printSection("Unique characters")
		printStat("Total", len(chars))
		for _, c := range chars {
			printField(c.ID, c.FullName)
		}
		return nil
	}

	refs := m.ReferencedAbilities()
	printSection("Ability effects")
	printStat("Distinct effects", len(refs))
	for _, r := range refs {
		example := ""
		if r.Example != nil {
			example = fmt.Sprintf(" e.g. %s slot %d", r.Example.ID, r.Slot)
		}
		printField(r.EffectID, fmt.Sprintf("%d%s", r.Count, example))
	}
	return nil
}
