package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Manager owns one sandboxed LState holding the loaded macro functions.
//
// Lua VMs are single-threaded; the mutex serializes Call, Names, Load, and
// Close so a Manager may be shared between a console goroutine and a
// lifecycle goroutine. Each Call re-arms the instruction budget, so one
// runaway macro cannot starve the ones after it.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel context.CancelFunc
	limit  int
	names  []string
	logger *zap.Logger

	// Injected after construction. A nil callback makes the corresponding
	// grue.* function raise a Lua error when a macro calls it.
	Roll        func(sides, modifier int) (int, error)
	Check       func(name, ability, proficiency, advantage string) (int, error)
	SightCheck  func(name, ability, proficiency, advantage string) (int, error)
	Perception  func(name, advantage string) error
	Lighting    func() string
	SetLighting func(level string) error
	Party       func() []string
}

// NewManager creates a Manager with no macros loaded.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager; Call errors until Load succeeds.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting: NewManager requires a non-nil logger")
	}
	return &Manager{logger: logger}
}

// Load creates a sandboxed VM, registers the grue module, then executes
// every *.lua file in macroDir in lexicographic order. Global functions the
// scripts define become callable macros. A successful Load replaces any
// previously loaded VM.
//
// Precondition: macroDir must be a readable directory.
// Postcondition: Names lists the loaded macros; returns error on Lua load failure.
func (m *Manager) Load(macroDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	// Everything callable before the scripts run is sandbox furniture, not
	// a macro; Names reports only the difference.
	baseline := functionGlobals(L)

	entries, err := os.ReadDir(macroDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading macro dir %q: %w", macroDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(macroDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	var names []string
	for name := range functionGlobals(L) {
		if !baseline[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.limit = normalizeLimit(instLimit)
	m.names = names
	m.mu.Unlock()

	m.logger.Info("macros loaded",
		zap.String("dir", macroDir),
		zap.Int("count", len(names)),
	)
	return nil
}

// Call invokes the named macro with args passed as Lua strings (Lua coerces
// numeric strings where a macro does arithmetic) and returns the macro's
// first return value rendered as a string; a macro that returns nothing
// yields "". Each invocation gets a fresh instruction budget.
//
// Precondition: fn must be non-empty.
// Postcondition: Returns the rendered result, or an error when no macros
// are loaded, fn is not defined, or the macro raises a runtime error.
func (m *Manager) Call(fn string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return "", fmt.Errorf("scripting: no macros loaded")
	}

	f := m.state.GetGlobal(fn)
	if f == lua.LNil {
		return "", fmt.Errorf("scripting: macro %q not defined", fn)
	}

	ctx, cancel := newCountingContext(m.limit)
	defer cancel()
	m.state.SetContext(ctx)

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LString(a)
	}

	if err := m.state.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		m.logger.Warn("macro runtime error",
			zap.String("macro", fn),
			zap.Error(err),
		)
		return "", fmt.Errorf("scripting: macro %q: %w", fn, err)
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)
	if ret == lua.LNil {
		return "", nil
	}
	return ret.String(), nil
}

// Names returns the loaded macro names in lexicographic order. The slice is
// a copy; mutating it does not affect the Manager.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Close releases the VM. Call errors after Close until a new Load succeeds.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.state.Close()
	m.state = nil
	m.cancel = nil
	m.names = nil
}

// functionGlobals returns the names of all globals in L that hold functions.
func functionGlobals(L *lua.LState) map[string]bool {
	out := make(map[string]bool)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if k.Type() == lua.LTString && v.Type() == lua.LTFunction {
			out[string(k.(lua.LString))] = true
		}
	})
	return out
}
