package data

// Skin is one masterCharacterSkin row.
type Skin struct {
	row Row

	ID        string
	LibraryID string
	// ReplaceID is the base character id for a different-version skin and
	// 0 for exclusive skins.
	ReplaceID   string
	IsSkin      bool
	IsDiffVer   bool
	IsExclusive bool
	Name        string
	Position    int
}

func (s *Skin) Key() string { return s.ID }
func (s *Skin) Fields() []string { return s.row.Values() }
func (s *Skin) Row() Row { return s.row }

var SkinV1 = NewLayout(SectionSkin, "v1",
	"uniqueID", "libraryID", "replaceID", "isSkin", "isDiffVer", "isExclusive",
	"skinName", "pos", "unknown00", "unknown01",
)

// DecodeSkin converts a bound row into a Skin.
func DecodeSkin(row Row, diag *Diagnostics) *Skin {
	f := fieldReader{row: row, diag: diag}
	return &Skin{
		row:         row,
		ID:          f.text("uniqueID"),
		LibraryID:   f.text("libraryID"),
		ReplaceID:   f.text("replaceID"),
		IsSkin:      f.flag("isSkin"),
		IsDiffVer:   f.flag("isDiffVer"),
		IsExclusive: f.flag("isExclusive"),
		Name:        f.text("skinName"),
		Position:    f.num("pos"),
	}
}
