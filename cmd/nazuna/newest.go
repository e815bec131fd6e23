package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var newestDates int

var newestCmd = &cobra.Command{
	Use:   "newest",
	Short: "List the most recently added or changed knights",
	Args:  cobra.NoArgs,
	RunE:  runNewest,
}

func init() {
	newestCmd.Flags().IntVarP(&newestDates, "dates", "n", 0, "also list knights for the N most recent dates")
	rootCmd.AddCommand(newestCmd)
}

func runNewest(_ *cobra.Command, _ []string) error {
	m, err := loadMaster()
	if err != nil {
		return err
	}

	printSection("Newest")
	for _, k := range m.NewestKnights() {
		printField(k.FullName(), k.LatestDate())
	}

	groups := m.KnightsByDate()
	if newestDates < len(groups) {
		groups = groups[:newestDates]
	}
	for _, g := range groups {
		printSection(g.Date)
		names := make([]string, len(g.Knights))
		for i, k := range g.Knights {
			names[i] = k.FullName()
		}
		printOK(strings.Join(names, ", "))
	}
	return nil
}
