package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment <name|id>",
	Short: "List a knight's personal equipment",
	Args:  cobra.ExactArgs(1),
	RunE:  runEquipment,
}

var equipmentRows bool

func init() {
	equipmentCmd.Flags().BoolVar(&equipmentRows, "rows", false, "print the raw equipment rows")
	rootCmd.AddCommand(equipmentCmd)
}

func runEquipment(_ *cobra.Command, args []string) error {
	m, err := loadMaster()
	if err != nil {
		return err
	}
	k, err := knightOrFail(m, args[0])
	if err != nil {
		return err
	}

	equips := m.PersonalEquipment(k)
	if equipmentRows {
		for _, e := range equips {
			fmt.Fprintln(out, strings.Join(m.EquipmentFields(e), ","))
		}
		return nil
	}
	printSection(k.FullName())
	printStat("Personal equipment", len(equips))
	for _, e := range equips {
		printField(e.EquipID, e.Name+" ("+strconv.Itoa(e.Classification2)+")")
	}
	return nil
}
