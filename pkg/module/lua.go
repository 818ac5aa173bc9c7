package module

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Option configures a Lua loader.
type Option func(*Lua)

// WithTimeout bounds each evaluation and call. Default: DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Lua) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithGoModule makes a table of Go functions available to require(name).
func WithGoModule(name string, funcs map[string]lua.LGFunction) Option {
	return func(l *Lua) {
		l.goModules[name] = funcs
	}
}

// Lua evaluates module source in sandboxed gopher-lua states, one per module.
type Lua struct {
	goModules map[string]map[string]lua.LGFunction
	timeout   time.Duration
}

// NewLua creates a Lua loader.
func NewLua(opts ...Option) *Lua {
	l := &Lua{
		goModules: make(map[string]map[string]lua.LGFunction),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var safeLibs = []struct {
	fn   lua.LGFunction
	name string
}{
	{lua.OpenBase, lua.BaseLibName},
	{lua.OpenTable, lua.TabLibName},
	{lua.OpenString, lua.StringLibName},
	{lua.OpenMath, lua.MathLibName},
}

var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// Load evaluates source and returns its exports.
func (l *Lua) Load(ctx context.Context, name string, source []byte) (Exports, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	if err := l.prepare(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrExecution, name, err)
	}

	mod := L.NewTable()
	L.SetField(mod, "exports", L.NewTable())
	L.SetGlobal("module", mod)
	L.SetGlobal("exports", L.GetField(mod, "exports"))

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	L.SetContext(ctx)
	err := doString(L, source, name)
	L.RemoveContext()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrExecution, name, err)
	}

	return &luaExports{
		L:       L,
		value:   L.GetField(mod, "exports"),
		name:    name,
		timeout: l.timeout,
	}, nil
}

func (l *Lua) prepare(L *lua.LState) error {
	for _, lib := range safeLibs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return err
		}
	}
	for _, g := range removedGlobals {
		L.SetGlobal(g, lua.LNil)
	}
	L.SetGlobal("require", L.NewFunction(l.require))
	return nil
}

func (l *Lua) require(L *lua.LState) int {
	name := L.CheckString(1)
	switch name {
	case lua.TabLibName, lua.StringLibName, lua.MathLibName:
		L.Push(L.GetGlobal(name))
		return 1
	}
	funcs, ok := l.goModules[name]
	if !ok {
		L.RaiseError("module %q is not available", name)
		return 0
	}
	L.Push(L.SetFuncs(L.NewTable(), funcs))
	return 1
}

func doString(L *lua.LState, source []byte, name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn, err := L.Load(bytes.NewReader(source), name)
	if err != nil {
		return err
	}
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

type luaExports struct {
	L       *lua.LState
	value   lua.LValue
	name    string
	timeout time.Duration
	mu      sync.Mutex
	closed  bool
}

func (e *luaExports) Call(ctx context.Context, fn string, args ...any) ([]any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	target := e.value
	if fn != "" {
		tbl, ok := e.value.(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrNotFunction, e.name, fn)
		}
		target = tbl.RawGetString(fn)
	}
	f, ok := target.(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotFunction, e.name, fn)
	}
	return e.call(ctx, f, args)
}

// call runs f; the caller must hold e.mu.
func (e *luaExports) call(ctx context.Context, f *lua.LFunction, args []any) (out []any, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	top := e.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			e.L.SetTop(top)
			err = fmt.Errorf("%w: %s: panic: %v", ErrExecution, e.name, r)
		}
	}()

	e.L.Push(f)
	for _, a := range args {
		e.L.Push(toLua(e.L, a))
	}
	if err := e.L.PCall(len(args), lua.MultRet, nil); err != nil {
		e.L.SetTop(top)
		return nil, fmt.Errorf("%w: %s: %v", ErrExecution, e.name, err)
	}

	n := e.L.GetTop() - top
	out = make([]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, e.toGo(e.L.Get(top+i), map[*lua.LTable]bool{}))
	}
	e.L.SetTop(top)
	return out, nil
}

func (e *luaExports) Get(name string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.value.(*lua.LTable)
	if e.closed || !ok {
		return nil, false
	}
	v := tbl.RawGetString(name)
	if v == lua.LNil {
		return nil, false
	}
	return e.toGo(v, map[*lua.LTable]bool{}), true
}

func (e *luaExports) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	tbl, ok := e.value.(*lua.LTable)
	if e.closed || !ok {
		return nil
	}
	var keys []string
	tbl.ForEach(func(k, _ lua.LValue) {
		if s, ok := k.(lua.LString); ok {
			keys = append(keys, string(s))
		}
	})
	slices.Sort(keys)
	return keys
}

func (e *luaExports) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.L.Close()
	return nil
}

// toGo converts a Lua value; the caller must hold e.mu.
func (e *luaExports) toGo(v lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := v.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LFunction:
		return Function(func(ctx context.Context, args ...any) ([]any, error) {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.closed {
				return nil, ErrClosed
			}
			return e.call(ctx, v, args)
		})
	case *lua.LTable:
		// visited holds the tables on the current path only; shared
		// subtables convert at every appearance, cycles become nil.
		if visited[v] {
			return nil
		}
		visited[v] = true
		out := e.tableToGo(v, visited)
		delete(visited, v)
		return out
	default:
		return nil
	}
}

func (e *luaExports) tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.MaxN()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = e.toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = e.toGo(v, visited)
	})
	return m
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch v := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int32:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case float32:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []any:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(toLua(L, item))
		}
		return t
	case []string:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(lua.LString(item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(v))
		for _, k := range slices.Sorted(maps.Keys(v)) {
			t.RawSetString(k, toLua(L, v[k]))
		}
		return t
	case map[string]string:
		t := L.CreateTable(0, len(v))
		for k, item := range v {
			t.RawSetString(k, lua.LString(item))
		}
		return t
	case lua.LValue:
		return v
	default:
		return lua.LString(fmt.Sprint(v))
	}
}
