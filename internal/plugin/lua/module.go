package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cubicfold/internal/dispatcher/handler"
	foldhandler "github.com/dshills/cubicfold/internal/dispatcher/handlers/fold"
	"github.com/dshills/cubicfold/internal/fold"
	"github.com/dshills/cubicfold/internal/input"
	"github.com/dshills/cubicfold/internal/section"
)

// ModuleName is the global the fold module is installed under.
const ModuleName = "fold"

// Host is what the fold module drives.
type Host interface {
	Dispatch(action input.Action) handler.Result
	Sections() (section.Result, error)
	ActiveBuffer() fold.Buffer
}

// FoldModule exposes fold commands and buffer queries to scripts.
// Rows are 1-based on the Lua side.
type FoldModule struct {
	host Host
}

// NewFoldModule creates a fold module over host.
func NewFoldModule(host Host) *FoldModule {
	return &FoldModule{host: host}
}

// Register installs the module as a global table of s.
func (m *FoldModule) Register(s *State) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"toggle":         m.action(foldhandler.ActionToggle),
		"toggle_all":     m.action(foldhandler.ActionToggleAll),
		"fold_all":       m.foldAll,
		"unfold_all":     m.action(foldhandler.ActionUnfoldAll),
		"unfold_markers": m.unfoldMarkers,
		"dispatch":       m.dispatch,
		"sections":       m.sections,
		"cursor":         m.cursor,
		"set_cursor":     m.setCursor,
		"is_folded":      m.isFolded,
		"line":           m.line,
		"line_count":     m.lineCount,
	})
}

// action returns a function that dispatches name and pushes the outcome.
func (m *FoldModule) action(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		return pushResult(L, m.host.Dispatch(input.NewAction(name, input.SourcePlugin)))
	}
}

// fold_all([quiet]) -> true | false, message
func (m *FoldModule) foldAll(L *lua.LState) int {
	quiet := L.OptBool(1, false)
	action := input.NewAction(foldhandler.ActionFoldAll, input.SourcePlugin).
		WithArg(foldhandler.ArgQuiet, quiet)
	return pushResult(L, m.host.Dispatch(action))
}

// unfold_markers() -> unfolded | nil, message
func (m *FoldModule) unfoldMarkers(L *lua.LState) int {
	result := m.host.Dispatch(input.NewAction(foldhandler.ActionUnfoldMarkers, input.SourcePlugin))
	if !result.IsOK() {
		L.Push(lua.LNil)
		L.Push(lua.LString(resultMessage(result)))
		return 2
	}
	L.Push(lua.LBool(result.GetDataBool(foldhandler.DataUnfolded)))
	return 1
}

// dispatch(name) -> true | false, message
func (m *FoldModule) dispatch(L *lua.LState) int {
	name := L.CheckString(1)
	return pushResult(L, m.host.Dispatch(input.NewAction(name, input.SourcePlugin)))
}

// sections() -> {valid=bool, current=n, {start=a, ["end"]=b}, ...} | nil, message
func (m *FoldModule) sections(L *lua.LState) int {
	res, err := m.host.Sections()
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	tbl := L.NewTable()
	tbl.RawSetString("valid", lua.LBool(res.Valid))
	tbl.RawSetString("current", lua.LNumber(res.Current))
	for _, sec := range res.Sections {
		entry := L.NewTable()
		entry.RawSetString("start", lua.LNumber(sec.Start+1))
		entry.RawSetString("end", lua.LNumber(sec.End+1))
		tbl.Append(entry)
	}
	L.Push(tbl)
	return 1
}

// cursor() -> row | nil
func (m *FoldModule) cursor(L *lua.LState) int {
	buf := m.host.ActiveBuffer()
	if buf == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(buf.CursorRow() + 1))
	return 1
}

// set_cursor(row) -> true | false, message
func (m *FoldModule) setCursor(L *lua.LState) int {
	row := L.CheckInt(1)
	buf, ok := m.buffer(L)
	if !ok {
		return 2
	}
	if !m.checkRow(L, buf, row) {
		return 2
	}
	buf.SetCursorRow(row - 1)
	L.Push(lua.LTrue)
	return 1
}

// is_folded(row) -> bool
func (m *FoldModule) isFolded(L *lua.LState) int {
	row := L.CheckInt(1)
	buf := m.host.ActiveBuffer()
	if buf == nil || row < 1 || row > buf.LineCount() {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(buf.IsFoldedAt(row - 1)))
	return 1
}

// line(row) -> text | nil, message
func (m *FoldModule) line(L *lua.LState) int {
	row := L.CheckInt(1)
	buf, ok := m.buffer(L)
	if !ok {
		return 2
	}
	if !m.checkRow(L, buf, row) {
		return 2
	}
	L.Push(lua.LString(buf.LineText(row - 1)))
	return 1
}

// line_count() -> n
func (m *FoldModule) lineCount(L *lua.LState) int {
	buf := m.host.ActiveBuffer()
	if buf == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(buf.LineCount()))
	return 1
}

// buffer returns the active buffer, or pushes nil and a message.
func (m *FoldModule) buffer(L *lua.LState) (fold.Buffer, bool) {
	buf := m.host.ActiveBuffer()
	if buf == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(fold.ErrNoActiveDocument.Error()))
		return nil, false
	}
	return buf, true
}

func (m *FoldModule) checkRow(L *lua.LState, buf fold.Buffer, row int) bool {
	if row < 1 || row > buf.LineCount() {
		L.Push(lua.LNil)
		L.Push(lua.LString("row out of range"))
		return false
	}
	return true
}

// pushResult pushes true for a successful result, otherwise false and a
// message.
func pushResult(L *lua.LState, result handler.Result) int {
	if result.IsOK() {
		L.Push(lua.LTrue)
		return 1
	}
	L.Push(lua.LFalse)
	L.Push(lua.LString(resultMessage(result)))
	return 2
}

func resultMessage(result handler.Result) string {
	switch {
	case result.Message != "":
		return result.Message
	case result.Error != nil:
		return result.Error.Error()
	default:
		return result.Status.String()
	}
}
