package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNotTable is returned when a module does not return a table.
var ErrNotTable = errors.New("module does not return a table")

// Engine wraps a single gopher-lua VM used to check rendered wiki modules
// and to read existing ones back. Single-goroutine access only.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a VM with the base, table, string and math libraries,
// the subset wiki modules are allowed to use. Helper modules found in
// libDir are preloaded so pages can require them; a missing directory is
// not an error.
func NewEngine(libDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := vm.CallByParam(lua.P{
			Fn:      vm.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("open lua library %s: %w", lib.name, err)
		}
	}

	e := &Engine{vm: vm, log: log}
	if libDir != "" {
		if err := e.preloadDir(libDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load helper modules: %w", err)
		}
	}
	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() { e.vm.Close() }

// preloadDir registers each .lua file in dir as a module named after the
// file, so "Module:Foo" pages can require("Foo").
func (e *Engine) preloadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		fn, err := e.vm.LoadString(string(src))
		if err != nil {
			return fmt.Errorf("compile %s: %w", path, err)
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		e.vm.PreloadModule(name, func(L *lua.LState) int {
			L.Push(fn)
			L.Call(0, 1)
			return 1
		})
		e.log.Debug("preloaded lua module", zap.String("module", name), zap.String("file", path))
	}
	return nil
}

// Eval runs a module body and returns the table it yields.
func (e *Engine) Eval(title, src string) (*lua.LTable, error) {
	fn, err := e.vm.Load(strings.NewReader(src), title)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", title, err)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return nil, fmt.Errorf("run %s: %w", title, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w (got %s)", title, ErrNotTable, ret.Type())
	}
	return tbl, nil
}

// Validate checks that src compiles, runs and returns a table.
func (e *Engine) Validate(title, src string) error {
	tbl, err := e.Eval(title, src)
	if err != nil {
		return err
	}
	e.log.Debug("lua module ok", zap.String("title", title), zap.Int("entries", Len(tbl)))
	return nil
}

// StringMap reads a module returning {["key"] = "value", ...}. Entries
// whose key or value is not a string are skipped and logged.
func (e *Engine) StringMap(title, src string) (map[string]string, error) {
	tbl, err := e.Eval(title, src)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	tbl.ForEach(func(k, v lua.LValue) {
		ks, kok := k.(lua.LString)
		vs, vok := v.(lua.LString)
		if !kok || !vok {
			e.log.Warn("skipping malformed module entry",
				zap.String("title", title),
				zap.String("key", k.String()),
				zap.String("value", v.String()),
			)
			return
		}
		out[string(ks)] = string(vs)
	})
	return out, nil
}

// Len counts every entry of a table, array part and hash part.
func Len(t *lua.LTable) int {
	n := 0
	t.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}

// ToGo converts a Lua value to plain Go values: tables become
// map[string]any keyed by the key's string form.
func ToGo(v lua.LValue) any {
	switch lv := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(lv)
	case lua.LNumber:
		return float64(lv)
	case lua.LString:
		return string(lv)
	case *lua.LTable:
		m := make(map[string]any)
		lv.ForEach(func(k, val lua.LValue) {
			m[k.String()] = ToGo(val)
		})
		return m
	}
	return v.String()
}

// Keys returns the string forms of a table's keys, sorted.
func Keys(t *lua.LTable) []string {
	var out []string
	t.ForEach(func(k, _ lua.LValue) { out = append(out, k.String()) })
	sort.Strings(out)
	return out
}
