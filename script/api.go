package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the console surface as Lua globals.
func registerAPI(L *lua.LState, r *Runner) {
	res := r.Console.Res

	// print(...) — redirected to the runner's output writer.
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				fmt.Fprint(r.Out, "\t")
			}
			fmt.Fprint(r.Out, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(r.Out)
		return 0
	}))

	// exec("command line") — run a console command, returns its output
	// lines as a table.
	L.SetGlobal("exec", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		result := r.Console.Execute(line)
		tbl := L.NewTable()
		for _, l := range result.Lines {
			tbl.Append(lua.LString(l))
		}
		L.Push(tbl)
		return 1
	}))

	// exists("file") — true when the file resolves in an active layer.
	L.SetGlobal("exists", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(res.Exists(L.CheckString(1))))
		return 1
	}))

	// filesize("file") — size in bytes; raises on a miss.
	L.SetGlobal("filesize", L.NewFunction(func(L *lua.LState) int {
		file := L.CheckString(1)
		size, err := res.FileSize(file)
		if err != nil {
			L.RaiseError("filesize %s: %v", file, err)
		}
		L.Push(lua.LNumber(size))
		return 1
	}))

	// filedata("file") — file content as a Lua string; raises on a miss.
	L.SetGlobal("filedata", L.NewFunction(func(L *lua.LState) int {
		file := L.CheckString(1)
		data, err := res.FileData(file)
		if err != nil {
			L.RaiseError("filedata %s: %v", file, err)
		}
		L.Push(lua.LString(data))
		return 1
	}))

	// listfiles("glob") — matching logical names as a table.
	L.SetGlobal("listfiles", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		for _, m := range res.ListFiles(L.CheckString(1)) {
			tbl.Append(lua.LString(m.Name()))
		}
		L.Push(tbl)
		return 1
	}))

	// loadpak("name") — activate a package; raises on failure.
	L.SetGlobal("loadpak", L.NewFunction(func(L *lua.LState) int {
		pak := L.CheckString(1)
		if err := res.LoadPakFile(pak); err != nil {
			L.RaiseError("loadpak %s: %v", pak, err)
		}
		return 0
	}))

	// unloadpak("name", drop) — deactivate a package.
	L.SetGlobal("unloadpak", L.NewFunction(func(L *lua.LState) int {
		res.UnloadPakFile(L.CheckString(1), L.OptBool(2, false))
		return 0
	}))

	// reset() — restore the title's starting package set.
	L.SetGlobal("reset", L.NewFunction(func(L *lua.LState) int {
		if err := res.Reset(); err != nil {
			L.RaiseError("reset: %v", err)
		}
		return 0
	}))
}
