package data

// Skill is one masterCharacterSkill row.
type Skill struct {
	row Row

	ID              string
	Name            string
	TypeID          int
	Values          [3]string
	Description     string
	TriggerRateLv1  int
	TriggerRateLvUp int
	Date0           string
	Date1           string
}

func (s *Skill) Key() string { return s.ID }
func (s *Skill) Fields() []string { return s.row.Values() }
func (s *Skill) Row() Row { return s.row }

// Skill layouts. v2 gained an extra column before the dates.
var (
	SkillV1 = NewLayout(SectionSkill, "v1",
		"uniqueID", "nameJapanese", "typeID", "val0", "val1", "val2",
		"descJapanese", "triggerRateLv1", "triggerRateLvUp",
		"unknown00", "date00", "date01", "unknown01",
	)
	SkillV2 = NewLayout(SectionSkill, "v2",
		"uniqueID", "nameJapanese", "typeID", "val0", "val1", "val2",
		"descJapanese", "triggerRateLv1", "triggerRateLvUp",
		"unknown00", "unknown01", "date00", "date01", "unknown02",
	)
)

// DecodeSkill converts a bound row into a Skill.
func DecodeSkill(row Row, diag *Diagnostics) *Skill {
	f := fieldReader{row: row, diag: diag}
	return &Skill{
		row:             row,
		ID:              f.text("uniqueID"),
		Name:            f.text("nameJapanese"),
		TypeID:          f.num("typeID"),
		Values:          [3]string{f.text("val0"), f.text("val1"), f.text("val2")},
		Description:     f.text("descJapanese"),
		TriggerRateLv1:  f.num("triggerRateLv1"),
		TriggerRateLvUp: f.num("triggerRateLvUp"),
		Date0:           f.text("date00"),
		Date1:           f.text("date01"),
	}
}
