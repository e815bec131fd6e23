package data

// BlessedOath is one masterCharacterMariage row: a knight that can receive
// a Blessed Oath ring.
type BlessedOath struct {
	row Row

	ID              string
	SameCharacterID string
	Date0           string
	Date1           string
}

func (b *BlessedOath) Key() string { return b.SameCharacterID }
func (b *BlessedOath) Fields() []string { return b.row.Values() }
func (b *BlessedOath) Row() Row { return b.row }

var BlessedOathV1 = NewLayout(SectionBlessedOath, "v1",
	"id", "sameCharacterID", "isEnabled", "date0", "date1",
)

// DecodeBlessedOath converts a bound row into a BlessedOath.
func DecodeBlessedOath(row Row, diag *Diagnostics) *BlessedOath {
	f := fieldReader{row: row, diag: diag}
	return &BlessedOath{
		row:             row,
		ID:              f.text("id"),
		SameCharacterID: f.text("sameCharacterID"),
		Date0:           f.text("date0"),
		Date1:           f.text("date1"),
	}
}
