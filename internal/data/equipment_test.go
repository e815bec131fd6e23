package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOwnerIDs(t *testing.T) {
	diag := NewDiagnostics(nil)

	assert.Equal(t, []int{}, ParseOwnerIDs("", diag))
	assert.Equal(t, []int{71}, ParseOwnerIDs("71", diag))
	assert.Equal(t, []int{71, 341}, ParseOwnerIDs("71|341", diag))
	assert.Equal(t, []int{71, 341}, ParseOwnerIDs(" 71 | x | 341 ", diag))
	assert.Equal(t, 1, diag.Count(DiagBadField))
}

func TestEquipment_OwnedBy(t *testing.T) {
	e := DecodeEquipment(EquipmentV1.Bind(rowOf(EquipmentV1, map[string]string{
		"equipID": "380001", "name": "共有の腕輪", "owners": "71|341",
		"ability1ID": "5", "ability1Val0": "10",
	}), nil), nil)

	assert.True(t, e.OwnedBy("71"))
	assert.True(t, e.OwnedBy(" 341"))
	assert.False(t, e.OwnedBy("7"))
	assert.False(t, e.OwnedBy("abc"))
	assert.Equal(t, 0, e.Classification2, "v1 rows have no classification2")
	assert.Equal(t, "5", e.Abilities[0].ID)
	assert.Equal(t, "10", e.Abilities[0].Values[0])
	assert.Equal(t, "equipment 380001 named 共有の腕輪 owned by 71|341", e.String())
}
