package bundle

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything from a Lua VM that could execute
// commands, touch the filesystem, or load external code. Manifests are
// declarative; string, table, and math stay available.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	// debug could be used to escape the sandbox
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua VM with sandboxing applied. This is the
// only way manifest code is ever evaluated.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
