package data

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fkgwiki/nazuna/internal/bundle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	sections map[string][]string
	sync     map[string][]map[string]string
}

func (f fakeSource) Rows(section string) []string { return f.sections[section] }

func (f fakeSource) SyncTable(name string) []map[string]string { return f.sync[name] }

func knightRow(id, name, tier, date string, extra map[string]string) string {
	kv := map[string]string{
		"id0": id, "fullName": name, "evolutionTier": tier, "date0": date,
		"isFlowerKnight1": "1", "rarity": "5", "charID2": "100", "charID1": "1" + id,
		"skill1ID": "501", "ability1ID": "9002", "lvlMaxHP": "1000", "aff1MultHP": "1.5",
		"reading": "なずな", "libraryID": "L" + id,
	}
	for k, v := range extra {
		kv[k] = v
	}
	return rowOf(CharacterV3.Layout, kv)
}

func newTestSource() fakeSource {
	return fakeSource{
		sections: map[string][]string{
			SectionCharacter: {
				knightRow("100001", "ナズナ", "1", "2017/01/01 00:00:00", nil),
				knightRow("100003", "ナズナ", "2", "2017/01/01 00:00:00", nil),
				knightRow("100005", "ナズナ", "99", "2018/05/01 12:00:00",
					map[string]string{"isRarityGrown": "1", "unknown04": "1"}),
				knightRow("100009", "ナズナ", "7", "2018/05/01 12:00:00", nil),
				knightRow("100011", "ウメ", "1", "2017/03/01 00:00:00", map[string]string{"charID2": "200"}),
				knightRow("100013", "ウメ", "2", "2017/03/01 00:00:00", map[string]string{"charID2": "200"}),
				knightRow("100021", "サクラ", "2", "2017/04/01 00:00:00", map[string]string{"charID2": "300"}),
				knightRow("700001", "ツツジ", "1", "2017/04/01 00:00:00", nil),
				rowOf(CharacterV3.Layout, map[string]string{
					"id0": "900001", "fullName": "ワイルドアムリタ", "evolutionTier": "1",
					"isFlowerKnight1": "0", "ability1ID": "9001",
				}),
			},
			SectionSkill: {
				rowOf(SkillV2, map[string]string{"uniqueID": "501", "nameJapanese": "花の舞"}),
			},
			SectionAbility: {
				rowOf(AbilityV2, map[string]string{"uniqueID": "9001", "ability1ID": "10"}),
				rowOf(AbilityV2, map[string]string{"uniqueID": "9002", "ability1ID": "10", "ability2ID": "0"}),
				rowOf(AbilityV2, map[string]string{"uniqueID": "9003", "ability1ID": "11"}),
			},
			SectionAbilityDescription: {
				rowOf(AbilityDescriptionV1, map[string]string{"id0": "9003", "ability1desc": "合成時に経験値"}),
			},
			SectionEquipment: {
				rowOf(EquipmentV2, map[string]string{"equipID": "200001", "name": "ナズナの指輪", "owners": "100", "classification2": "21"}),
				rowOf(EquipmentV2, map[string]string{"equipID": "380001", "name": "共有の腕輪", "owners": "100|200", "classification2": "30"}),
				rowOf(EquipmentV2, map[string]string{"equipID": "1000001", "name": "虹色の首飾り", "owners": "100"}),
				rowOf(EquipmentV2, map[string]string{"equipID": "1", "name": "銅の指輪"}),
			},
			SectionBlessedOath: {
				rowOf(BlessedOathV1, map[string]string{"id": "2", "sameCharacterID": "200"}),
				rowOf(BlessedOathV1, map[string]string{"id": "1", "sameCharacterID": "100"}),
			},
		},
		sync: map[string][]map[string]string{
			SyncFlowerMemories: {
				{"id": "1", "name": "思い出", "rarity": "5"},
			},
			SyncMemoryAbilities: {
				{"id": "77", "name": "攻撃力上昇", "value1": "5"},
			},
			SyncFlowerMemoryAbilitys: {
				{"id": "2", "flowerMemoryId": "1", "overLimitStep": "2", "abilityId": "78"},
				{"id": "1", "flowerMemoryId": "1", "overLimitStep": "1", "abilityId": "77"},
			},
		},
	}
}

func TestLoad_ReconstructsKnights(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	assert.Same(t, CharacterV3, m.Sections().CharacterSchema)
	require.Len(t, m.Knights(), 2, "サクラ has a tier gap and ツツジ is an NPC row")

	k, err := m.Knight("ナズナ")
	require.NoError(t, err)
	assert.Equal(t, []Tier{TierPreEvolution, TierEvolved, TierBloomed}, k.PresentTiers())
	assert.Equal(t, Bloomable, k.Bloomability())
	assert.Equal(t, "1100001", k.SortID())
	assert.Equal(t, 1000, k.Tier(TierEvolved).LvlMax.HP)
	assert.Equal(t, 1.5, k.Tier(TierEvolved).Aff1.HP)
	assert.Equal(t, "2018/05/01 12:00:00", k.LatestDate())

	diag := m.Diagnostics()
	assert.Equal(t, 1, diag.Count(DiagClassification))
	assert.Equal(t, 1, diag.Count(DiagTierGap))
	assert.Equal(t, 0, diag.Count(DiagSchemaDrift))
}

func TestLoad_PreEvolutionAndEvolvedOnly(t *testing.T) {
	b := bundle.New()
	b.SetText(SectionCharacter, strings.Join([]string{
		knightRow("100011", "ウメ", "1", "2017/03/01 00:00:00", nil),
		knightRow("100013", "ウメ", "2", "2017/03/02 00:00:00", nil),
		knightRow("100015", "ウメ", "5", "2020/01/01 00:00:00", nil),
	}, "\n"))
	var buf bytes.Buffer
	require.NoError(t, bundle.Encode(&buf, b))
	decoded, err := bundle.NewDecoder(nil).DecodeBytes(buf.Bytes())
	require.NoError(t, err)

	m, err := Load(decoded, nil, Options{})
	require.NoError(t, err)
	k, err := m.Knight("ウメ")
	require.NoError(t, err)

	assert.Equal(t, []Tier{TierPreEvolution, TierEvolved}, k.PresentTiers())
	assert.False(t, k.CanBloom())
	assert.False(t, k.CanRarityGrow())
	assert.Equal(t, "2017/03/02 00:00:00", k.LatestDate(), "the unclassified row's date is ignored")
	assert.Equal(t, 1, m.Diagnostics().Count(DiagClassification))
}

func TestLoad_EquipmentRawMatchesRecords(t *testing.T) {
	full := rowOf(EquipmentV2, map[string]string{"equipID": "200001", "name": "ナズナの指輪", "owners": "100"})
	trailing := strings.TrimSuffix(rowOf(EquipmentV2, map[string]string{
		"equipID": "200002", "name": "ウメの指輪", "owners": "200",
	}), "0")
	short := strings.Join(strings.Split(rowOf(EquipmentV2, map[string]string{
		"id0": "3", "name": "短い", "equipID": "200003",
	}), FieldDelimiter)[:3], FieldDelimiter)

	src := fakeSource{sections: map[string][]string{
		SectionEquipment: {full, trailing, short},
	}}
	m, err := Load(src, nil, Options{Schemas: Schemas{Equipment: EquipmentV2}})
	require.NoError(t, err)

	raw := m.Sections().EquipmentRaw
	records := m.Sections().Equipment.All()
	require.Len(t, raw, m.Sections().Equipment.Count())
	assert.Len(t, raw[0], EquipmentV2.Len())
	assert.Len(t, raw[1], EquipmentV2.Len()-1)
	assert.Len(t, raw[2], 3)
	for i, e := range records {
		fields := e.Fields()
		require.GreaterOrEqual(t, len(fields), len(raw[i]))
		assert.Equal(t, raw[i], fields[:len(raw[i])], "row %d", i)
		assert.Equal(t, raw[i], m.EquipmentFields(e))
	}
	assert.Equal(t, "200003", records[2].EquipID)
	assert.Nil(t, m.EquipmentFields(&Equipment{}))
}

func TestLoad_StrictFailsOnTierGap(t *testing.T) {
	_, err := Load(newTestSource(), nil, Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTierGap))
}

func TestLoad_PinnedSchema(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{Schemas: Schemas{Character: CharacterV4}})
	require.NoError(t, err)
	assert.Same(t, CharacterV4, m.Sections().CharacterSchema)
	assert.Equal(t, 1, m.Diagnostics().Count(DiagSchemaDrift))
}

func TestMaster_KnightByID(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	k, err := m.Knight("100013")
	require.NoError(t, err)
	assert.Equal(t, "ウメ", k.FullName())

	k, err = m.Knight("１０００１１")
	require.NoError(t, err)
	assert.Equal(t, "ウメ", k.FullName())

	_, err = m.Knight("999999")
	assert.True(t, errors.Is(err, ErrKnightNotFound))
	_, err = m.Knight("ヒマワリ")
	assert.True(t, errors.Is(err, ErrKnightNotFound))
}

func TestMaster_KnightAmbiguousID(t *testing.T) {
	src := fakeSource{sections: map[string][]string{
		SectionCharacter: {
			knightRow("300001", "アサガオ", "1", "", nil),
			knightRow("300003", "ヒルガオ", "1", "", nil),
			knightRow("300001", "ヒルガオ", "2", "", nil),
		},
	}}
	m, err := Load(src, nil, Options{})
	require.NoError(t, err)

	_, err = m.Knight("300001")
	assert.True(t, errors.Is(err, ErrAmbiguousKnight))
}

func TestMaster_CharEntries(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	rows, err := m.CharEntries("100003")
	require.NoError(t, err)
	assert.Len(t, rows, 4, "the unclassified row is still a row of the knight")

	rows, err = m.CharEntries("ウメ")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = m.CharEntries("サクラ")
	assert.True(t, errors.Is(err, ErrKnightNotFound))
	_, err = m.CharEntries("123")
	assert.True(t, errors.Is(err, ErrKnightNotFound))
}

func TestMaster_CharEntriesNonKnight(t *testing.T) {
	src := newTestSource()
	src.sections[SectionCharacter] = append(src.sections[SectionCharacter],
		rowOf(CharacterV3.Layout, map[string]string{
			"id0": "900002", "fullName": "ワイルドアムリタ", "evolutionTier": "2",
			"isFlowerKnight1": "0",
		}))
	m, err := Load(src, nil, Options{})
	require.NoError(t, err)

	rows, err := m.CharEntries("900002")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "900001", rows[0].ID)
}

func TestMaster_Newest(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	newest := m.NewestKnights()
	require.Len(t, newest, 1)
	assert.Equal(t, "ナズナ", newest[0].FullName())

	groups := m.KnightsByDate()
	require.Len(t, groups, 3)
	assert.Equal(t, "2018/05/01 12:00:00", groups[0].Date)
	assert.Equal(t, "2017/03/01 00:00:00", groups[1].Date)
	assert.Equal(t, "2017/01/01 00:00:00", groups[2].Date)
	require.Len(t, groups[2].Knights, 1)
}

func TestMaster_PersonalEquipment(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	k, err := m.Knight("ナズナ")
	require.NoError(t, err)
	var ids []string
	for _, e := range m.PersonalEquipment(k) {
		ids = append(ids, e.EquipID)
	}
	assert.Equal(t, []string{"200001", "380001", "1000001"}, ids)

	k, err = m.Knight("ウメ")
	require.NoError(t, err)
	assert.Len(t, m.PersonalEquipment(k), 1)
}

func TestMaster_AbilityFiltering(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	abilities := m.Abilities()
	require.Len(t, abilities, 1)
	assert.Equal(t, "9002", abilities[0].ID)

	refs := m.ReferencedAbilities()
	require.Len(t, refs, 1)
	assert.Equal(t, "10", refs[0].EffectID)
	assert.Equal(t, 1, refs[0].Count)
	assert.Equal(t, 1, refs[0].Slot)

	unique := m.UniqueCharacters()
	require.Len(t, unique, 1)
	assert.Equal(t, "ワイルドアムリタ", unique[0].FullName)
}

func TestMaster_Listings(t *testing.T) {
	m, err := Load(newTestSource(), nil, Options{})
	require.NoError(t, err)

	oaths := m.BlessedOaths()
	require.Len(t, oaths, 2)
	assert.Equal(t, "100", oaths[0].SameCharacterID)

	equips := m.Equipment()
	assert.Equal(t, "1", equips[0].EquipID)
	assert.Empty(t, equips[0].OwnerIDs())

	memories := m.FlowerMemories()
	require.Len(t, memories, 1)
	assert.Equal(t, "思い出", memories[0].Name)
	assert.Equal(t, []string{"77", "78"}, memories[0].AbilityIDs)
	assert.Len(t, m.MemoryAbilities(), 1)
	assert.Len(t, m.Skills(), 1)
}
