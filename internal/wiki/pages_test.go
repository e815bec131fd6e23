package wiki

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fkgwiki/nazuna/internal/data"
	"github.com/fkgwiki/nazuna/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

type fakeSource map[string][]string

func (f fakeSource) Rows(section string) []string { return f[section] }

func (f fakeSource) SyncTable(string) []map[string]string { return nil }

func row(l *data.Layout, kv map[string]string) string {
	values := make([]string, l.Len())
	for k, v := range kv {
		i, ok := l.Index(k)
		if !ok {
			panic("no field " + k)
		}
		values[i] = v
	}
	if values[len(values)-1] == "" {
		values[len(values)-1] = "0"
	}
	return strings.Join(values, data.FieldDelimiter)
}

func knight(id, name, tier, owner string) string {
	return row(data.CharacterV3.Layout, map[string]string{
		"id0": id, "fullName": name, "evolutionTier": tier, "charID2": owner,
		"isFlowerKnight1": "1", "rarity": "5", "skill1ID": "501",
		"date0": "2018/01/01 00:00:00", "aff1MultHP": "1.5", "lvlMaxHP": "900",
	})
}

func testMaster(t *testing.T) *data.Master {
	t.Helper()
	src := fakeSource{
		data.SectionCharacter: {
			knight("100001", "ナズナ", "1", "100"),
			knight("100003", "ナズナ", "2", "100"),
			knight("100011", "ウメ", "1", "200"),
			knight("100013", "ウメ", "2", "200"),
		},
		data.SectionSkill: {
			row(data.SkillV2, map[string]string{"uniqueID": "501", "nameJapanese": "花の\"舞\""}),
		},
		data.SectionAbility: {
			row(data.AbilityV2, map[string]string{"uniqueID": "9002", "ability1ID": "10"}),
		},
		data.SectionEquipment: {
			row(data.EquipmentV2, map[string]string{"equipID": "200001", "name": "ナズナの指輪", "owners": "100", "classification2": "21"}),
			row(data.EquipmentV2, map[string]string{"equipID": "380001", "name": "共有の腕輪", "owners": "100|200", "classification2": "30"}),
			row(data.EquipmentV2, map[string]string{"equipID": "1000001", "name": "虹色の首飾り", "owners": "100"}),
			row(data.EquipmentV2, map[string]string{"equipID": "1", "name": "指輪"}),
		},
		data.SectionSkin: {
			row(data.SkinV1, map[string]string{"uniqueID": "1", "libraryID": "11", "replaceID": "0", "isSkin": "1", "isExclusive": "1", "skinName": "水着"}),
			row(data.SkinV1, map[string]string{"uniqueID": "2", "libraryID": "11", "replaceID": "100001", "isSkin": "2", "isDiffVer": "1", "skinName": "別衣装"}),
			row(data.SkinV1, map[string]string{"uniqueID": "3", "libraryID": "12", "isSkin": "0"}),
		},
		data.SectionBlessedOath: {
			row(data.BlessedOathV1, map[string]string{"id": "1", "sameCharacterID": "100"}),
		},
	}
	m, err := data.Load(src, nil, data.Options{})
	require.NoError(t, err)
	return m
}

func evalPage(t *testing.T, e *scripting.Engine, p Page) *lua.LTable {
	t.Helper()
	tbl, err := e.Eval(p.Title, p.Body)
	require.NoError(t, err, p.Body)
	return tbl
}

func TestRender_EveryPageIsValidLua(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	pages, err := NewRenderer(testMaster(t), nil).Render()
	require.NoError(t, err)
	require.Len(t, pages, len(Titles()))
	for _, p := range pages {
		assert.True(t, strings.HasPrefix(p.Body, "--[[Category:"), p.Title)
		assert.NoError(t, e.Validate(p.Title, p.Body), p.Title)
	}
}

func TestRender_UnknownTitle(t *testing.T) {
	_, err := NewRenderer(testMaster(t), nil).Render("Module:Nope")
	assert.ErrorContains(t, err, "Module:Nope")
}

func TestEquipmentLookup(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	got := scripting.ToGo(evalPage(t, e, NewRenderer(testMaster(t), nil).EquipmentLookup())).(map[string]any)
	assert.Equal(t, map[string]any{
		"100": map[string]any{"1": float64(200001), "2": float64(380001), "3": float64(1000001)},
	}, got)
}

func TestMasterCharacterData(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	names := &Names{Knights: map[string]string{"ナズナ": "Nazuna"}}
	got := scripting.ToGo(evalPage(t, e, NewRenderer(testMaster(t), names).MasterCharacterData())).(map[string]any)
	require.Len(t, got, 2)

	nazuna := got["ナズナ"].(map[string]any)
	assert.Equal(t, "Nazuna", nazuna["english"])
	assert.Equal(t, float64(100001), nazuna["id"])
	assert.Equal(t, float64(100), nazuna["charID2"])
	assert.Equal(t, float64(1.5), nazuna["tier2Aff1HP"])
	assert.Equal(t, float64(900), nazuna["tier1LvMaxHP"])
	assert.Equal(t, float64(70), nazuna["tier2LvCap"])
	assert.Nil(t, nazuna["tier3ID"])
	assert.Nil(t, got["ウメ"].(map[string]any)["english"])
}

func TestKnightIDAndName(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	got := scripting.ToGo(evalPage(t, e, NewRenderer(testMaster(t), nil).KnightIDAndName())).(map[string]any)
	assert.Equal(t, map[string]any{"100001": "ナズナ", "100011": "ウメ"}, got["idToName"])
	assert.Equal(t, map[string]any{"ナズナ": "100001", "ウメ": "100011"}, got["nameToId"])
}

func TestSkinData(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	got := scripting.ToGo(evalPage(t, e, NewRenderer(testMaster(t), nil).SkinData())).(map[string]any)
	assert.Equal(t, map[string]any{"11": map[string]any{"1": "1", "2": "2"}}, got["libIdToSkinIds"])
	assert.Equal(t, map[string]any{"11": float64(1)}, got["libIdsWithExclusiveSkins"])
	assert.Equal(t, map[string]any{"11": float64(1)}, got["libIdsWithPaidSkins"])
	assert.Equal(t, map[string]any{"100001": float64(1)}, got["uniqueCharIdsWithMinorSkins"])

	info := got["skinIdToInfo"].(map[string]any)
	require.Len(t, info, 2)
	assert.Equal(t, "水着", info["1"].(map[string]any)["skinName"])
}

func TestEquipmentNames(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	names := &Names{}
	names.Merge(map[string]string{"ナズナの": "Nazuna's", "消えた": "Gone"})
	page := NewRenderer(testMaster(t), names).EquipmentNames()

	got, err := e.StringMap(page.Title, page.Body)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"ナズナの": "Nazuna's",
		"消えた": "Gone",
		"共有の": "",
		"虹色の": "",
	}, got)
	assert.Contains(t, page.Body, categoryManual)
}

func TestCharacterTemplate(t *testing.T) {
	r := NewRenderer(testMaster(t), &Names{Knights: map[string]string{"ナズナ": "Nazuna (Swimsuit)"}})

	page, err := r.CharacterTemplate("100003", "")
	require.NoError(t, err)
	assert.False(t, page.Lua)
	assert.Equal(t, "Template_ナズナ.txt", page.FileName())
	assert.True(t, strings.HasPrefix(page.Body, "{{CharacterStat\n|JP = ナズナ"))
	assert.Contains(t, page.Body, "\n|icon = Nazuna_Swimsuit")
	assert.Contains(t, page.Body, "\n|skill = 花の\"舞\"")
	assert.Contains(t, page.Body, "\n|tier2lvcap = 70")
	assert.Contains(t, page.Body, "\n|equipment = 200001,380001,1000001")
	assert.True(t, strings.HasSuffix(page.Body, "\n}}"))

	_, err = r.CharacterTemplate("サクラ", "")
	assert.ErrorIs(t, err, data.ErrKnightNotFound)
}

type fakeArchive map[string]string

func (a fakeArchive) Changed(_ context.Context, title, body string) (bool, error) {
	return a[title] != body, nil
}

func TestPublisher_Publish(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	dir := filepath.Join(t.TempDir(), "out")
	pages, err := NewRenderer(testMaster(t), nil).Render(TitleSkillList, TitleEquipmentNames)
	require.NoError(t, err)

	archive := fakeArchive{TitleSkillList: pages[0].Body}
	changed, err := NewPublisher(dir, e, archive, nil).Publish(context.Background(), pages)
	require.NoError(t, err)
	assert.Equal(t, []string{TitleEquipmentNames}, keys(changed))

	raw, err := os.ReadFile(filepath.Join(dir, "Module_SkillList.lua"))
	require.NoError(t, err)
	assert.Equal(t, pages[0].Body, string(raw))

	existing, err := ReadEquipmentNames(e, dir)
	require.NoError(t, err)
	assert.Contains(t, existing, "ナズナの")

	missing, err := ReadEquipmentNames(e, t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPublisher_RejectsBrokenLua(t *testing.T) {
	e, err := scripting.NewEngine("", nil)
	require.NoError(t, err)
	defer e.Close()

	dir := t.TempDir()
	_, err = NewPublisher(dir, e, nil, nil).Publish(context.Background(), []Page{
		{Title: "Module:Broken", Body: "return {", Lua: true},
	})
	assert.ErrorContains(t, err, "Module:Broken")
	_, statErr := os.Stat(filepath.Join(dir, "Module_Broken.lua"))
	assert.True(t, os.IsNotExist(statErr))
}

func keys(m map[string]string) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
