package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/willeq/willeq/types"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	zones []rawZone
	file  string
}

// LoadZones reads every .lua file in dir, compiles the zones they declare
// and validates them as one set. The Lua VM is discarded after loading.
func LoadZones(dir string) ([]types.ZoneDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading zone directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sort.Strings(luaFiles)

	paths := make([]string, len(luaFiles))
	for i, f := range luaFiles {
		paths[i] = filepath.Join(dir, f)
	}
	return load(paths)
}

// LoadZoneFile loads the zones declared in a single file.
func LoadZoneFile(path string) ([]types.ZoneDef, error) {
	return load([]string{path})
}

// LoadZoneString loads zones from Lua source; name labels errors.
func LoadZoneString(name, src string) ([]types.ZoneDef, error) {
	L := newSandbox()
	defer L.Close()

	coll := &collector{file: name}
	registerZoneAPI(L, coll)
	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return finish(coll)
}

func load(paths []string) ([]types.ZoneDef, error) {
	L := newSandbox()
	defer L.Close()

	coll := &collector{}
	registerZoneAPI(L, coll)
	for _, path := range paths {
		coll.file = filepath.Base(path)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", coll.file, err)
		}
	}
	return finish(coll)
}

func finish(coll *collector) ([]types.ZoneDef, error) {
	zones, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling zone data: %w", err)
	}
	if err := validate(zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// newSandbox creates a VM with only the safe standard libraries.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach the filesystem or bypass metatables.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Runs must be reproducible from the client seed.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
		tbl.RawSetString("random", lua.LNil)
	}
}
