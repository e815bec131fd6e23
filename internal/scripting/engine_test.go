package scripting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, libDir string) *Engine {
	t.Helper()
	e, err := NewEngine(libDir, nil)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestEngine_Eval(t *testing.T) {
	e := newEngine(t, "")

	tbl, err := e.Eval("Module:Test", `return { [1] = {name="a"}, b = 2, ["c d"] = "x" }`)
	require.NoError(t, err)
	assert.Equal(t, 3, Len(tbl))
	assert.Equal(t, []string{"1", "b", "c d"}, Keys(tbl))

	got := ToGo(tbl).(map[string]any)
	assert.Equal(t, map[string]any{"name": "a"}, got["1"])
	assert.Equal(t, float64(2), got["b"])
}

func TestEngine_ValidateErrors(t *testing.T) {
	e := newEngine(t, "")

	assert.ErrorContains(t, e.Validate("Module:Broken", `return {`), "compile Module:Broken")
	assert.ErrorContains(t, e.Validate("Module:Fails", `error("boom")`), "run Module:Fails")

	err := e.Validate("Module:Number", `return 1`)
	assert.True(t, errors.Is(err, ErrNotTable))

	assert.NoError(t, e.Validate("Module:Ok", `local t = {} t.x = string.upper("a") return t`))
}

func TestEngine_NoIOLibrary(t *testing.T) {
	e := newEngine(t, "")
	assert.Error(t, e.Validate("Module:IO", `return { io.open("x") }`))
}

func TestEngine_StringMap(t *testing.T) {
	e := newEngine(t, "")

	m, err := e.StringMap("Module:Equipment/Names", `return { ["指輪"] = "Ring", ["x"] = 1, [2] = "y" }`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"指輪": "Ring"}, m)
}

func TestEngine_PreloadsHelperModules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Util.lua"),
		[]byte(`return { double = function(n) return n * 2 end }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644))

	e := newEngine(t, dir)
	tbl, err := e.Eval("Module:Uses", `local u = require("Util") return { v = u.double(21) }`)
	require.NoError(t, err)
	assert.Equal(t, float64(42), ToGo(tbl).(map[string]any)["v"])
}

func TestNewEngine_MissingLibDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	e.Close()
}
