// Package lua runs fold scripts in a sandboxed gopher-lua state.
//
// A State opens only the base, table, string and math libraries and removes
// every function that loads code (dofile, loadfile, load, require). Each
// DoString or DoFile call runs under a context deadline; print output goes to
// the state's logger.
//
// FoldModule installs the global "fold" table:
//
//	s := lua.NewState(lua.WithLogger(logger))
//	defer s.Close()
//	lua.NewFoldModule(session).Register(s)
//	err := s.DoString(ctx, `
//	    if not fold.fold_all() then
//	        fold.unfold_markers()
//	    end
//	    for i, sec in ipairs(fold.sections()) do
//	        print(i, sec.start, sec["end"])
//	    end
//	`)
//
// Rows are 1-based in Lua. Commands return true, or false and a message.
package lua
