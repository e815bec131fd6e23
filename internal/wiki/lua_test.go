package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuaString(t *testing.T) {
	assert.Equal(t, `"ナズナ"`, luaString("ナズナ"))
	assert.Equal(t, `"a\"b\\c\nd"`, luaString("a\"b\\c\nd"))
	assert.Equal(t, `"\001"`, luaString("\x01"))
}

func TestLuaValue(t *testing.T) {
	assert.Equal(t, "12", luaValue("12"))
	assert.Equal(t, "-1.5", luaValue("-1.5"))
	assert.Equal(t, `"012"`, luaValue("012"))
	assert.Equal(t, `""`, luaValue(""))
	assert.Equal(t, `"2018/01/01"`, luaValue("2018/01/01"))
}

func TestLuaKey(t *testing.T) {
	assert.Equal(t, "[100001]", luaKey("100001"))
	assert.Equal(t, "name", luaKey("name"))
	assert.Equal(t, `["end"]`, luaKey("end"))
	assert.Equal(t, `["1.5"]`, luaKey("1.5"))
	assert.Equal(t, `["ナズナ"]`, luaKey("ナズナ"))
}

func TestModule(t *testing.T) {
	got := module([]string{categoryAuto}, []string{"a = 1", "b = 2"})
	assert.Equal(t, "--[[Category:Automatically updated modules]]\n\nreturn {\n\ta = 1,\n\tb = 2,\n}\n", got)
	assert.Equal(t, "{id=1, name=\"x\"}", inline(recordFields([]string{"name", "id"}, []string{"x", "1"})))
}

func TestTrimEquipmentAffix(t *testing.T) {
	assert.Equal(t, "ナズナの", TrimEquipmentAffix("ナズナの指輪"))
	assert.Equal(t, "虹色の", TrimEquipmentAffix("虹色の耳飾り"))
	assert.Equal(t, "", TrimEquipmentAffix("首飾り"))
	assert.Equal(t, "ブローチ", TrimEquipmentAffix("ブローチ"))
}

func TestIconName(t *testing.T) {
	assert.Equal(t, "Nazuna_Swimsuit", iconName("Nazuna (Swimsuit)"))
}
