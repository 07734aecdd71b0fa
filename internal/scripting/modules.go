package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers the grue.* Lua API into L. Game behavior comes
// from the Manager's callback fields; a grue.* function whose callback is
// nil raises a Lua error when called.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: The grue global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	grue := L.NewTable()
	L.SetGlobal("grue", grue)

	L.SetField(grue, "roll", L.NewFunction(m.luaRoll))
	L.SetField(grue, "check", L.NewFunction(m.luaCheck))
	L.SetField(grue, "sight_check", L.NewFunction(m.luaSightCheck))
	L.SetField(grue, "perception", L.NewFunction(m.luaPerception))
	L.SetField(grue, "lighting", L.NewFunction(m.luaLighting))
	L.SetField(grue, "set_lighting", L.NewFunction(m.luaSetLighting))
	L.SetField(grue, "party", L.NewFunction(m.luaParty))

	logTable := L.NewTable()
	L.SetField(grue, "log", logTable)
	L.SetField(logTable, "debug", L.NewFunction(m.luaLog(zapcore.DebugLevel)))
	L.SetField(logTable, "info", L.NewFunction(m.luaLog(zapcore.InfoLevel)))
	L.SetField(logTable, "warn", L.NewFunction(m.luaLog(zapcore.WarnLevel)))
	L.SetField(logTable, "error", L.NewFunction(m.luaLog(zapcore.ErrorLevel)))
}

// luaRoll implements grue.roll(sides [, modifier]) -> number.
func (m *Manager) luaRoll(L *lua.LState) int {
	sides := L.CheckInt(1)
	modifier := L.OptInt(2, 0)
	if m.Roll == nil {
		L.RaiseError("grue.roll: not wired")
	}
	n, err := m.Roll(sides, modifier)
	if err != nil {
		L.RaiseError("grue.roll: %s", err.Error())
	}
	L.Push(lua.LNumber(n))
	return 1
}

// luaCheck implements grue.check(name, ability, proficiency [, advantage]) -> number.
func (m *Manager) luaCheck(L *lua.LState) int {
	name := L.CheckString(1)
	ability := L.CheckString(2)
	proficiency := L.CheckString(3)
	adv := L.OptString(4, "")
	if m.Check == nil {
		L.RaiseError("grue.check: not wired")
	}
	n, err := m.Check(name, ability, proficiency, adv)
	if err != nil {
		L.RaiseError("grue.check: %s", err.Error())
	}
	L.Push(lua.LNumber(n))
	return 1
}

// luaSightCheck implements grue.sight_check(name, ability, proficiency [, advantage]) -> number.
func (m *Manager) luaSightCheck(L *lua.LState) int {
	name := L.CheckString(1)
	ability := L.CheckString(2)
	proficiency := L.CheckString(3)
	adv := L.OptString(4, "")
	if m.SightCheck == nil {
		L.RaiseError("grue.sight_check: not wired")
	}
	n, err := m.SightCheck(name, ability, proficiency, adv)
	if err != nil {
		L.RaiseError("grue.sight_check: %s", err.Error())
	}
	L.Push(lua.LNumber(n))
	return 1
}

// luaPerception implements grue.perception(name [, advantage]). The check is
// rolled for its log trail; nothing is returned.
func (m *Manager) luaPerception(L *lua.LState) int {
	name := L.CheckString(1)
	adv := L.OptString(2, "")
	if m.Perception == nil {
		L.RaiseError("grue.perception: not wired")
	}
	if err := m.Perception(name, adv); err != nil {
		L.RaiseError("grue.perception: %s", err.Error())
	}
	return 0
}

// luaLighting implements grue.lighting() -> string.
func (m *Manager) luaLighting(L *lua.LState) int {
	if m.Lighting == nil {
		L.RaiseError("grue.lighting: not wired")
	}
	L.Push(lua.LString(m.Lighting()))
	return 1
}

// luaSetLighting implements grue.set_lighting(level).
func (m *Manager) luaSetLighting(L *lua.LState) int {
	level := L.CheckString(1)
	if m.SetLighting == nil {
		L.RaiseError("grue.set_lighting: not wired")
	}
	if err := m.SetLighting(level); err != nil {
		L.RaiseError("grue.set_lighting: %s", err.Error())
	}
	return 0
}

// luaParty implements grue.party() -> array of seated character names.
func (m *Manager) luaParty(L *lua.LState) int {
	if m.Party == nil {
		L.RaiseError("grue.party: not wired")
	}
	tbl := L.NewTable()
	for _, name := range m.Party() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

// luaLog builds the grue.log.<level>(msg) implementations.
func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "macro"))
		}
		return 0
	}
}
