package data

import "strconv"

// npcIDFloor is where ids reused for non-playable characters start.
const npcIDFloor = 700000

// npcNames are reused NPC rows that would otherwise overwrite the playable
// knight of the same name.
var npcNames = map[string]bool{
	"ツツジ": true,
}

// Reconstructor folds character rows into knights.
type Reconstructor struct {
	diag *Diagnostics
}

// NewReconstructor returns a reconstructor reporting through diag.
func NewReconstructor(diag *Diagnostics) *Reconstructor {
	if diag == nil {
		diag = NewDiagnostics(nil)
	}
	return &Reconstructor{diag: diag}
}

// Add applies one character row to k and returns the knight. When k is nil
// a new knight is started from c. Rows for NPCs and rows whose tier cannot
// be classified are dropped; k is returned unchanged (possibly nil).
func (r *Reconstructor) Add(k *Knight, c *Character) *Knight {
	if isNPC(c) {
		return k
	}
	if c.Tier == TierUnknown {
		r.diag.Unclassified(c)
		return k
	}
	if k == nil {
		k = NewKnight(c)
	}
	k.set(c.Tier, c)
	return k
}

func isNPC(c *Character) bool {
	id, err := strconv.Atoi(c.ID)
	if err != nil {
		return false
	}
	return id >= npcIDFloor && npcNames[c.FullName]
}
