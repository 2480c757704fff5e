// Package hook runs a user Lua script in response to navigation events.
//
// The script may define any of these globals:
//
//	function on_active_change(previous_id, current_id) end
//	function on_scroll_complete(id) end
//
// Missing functions are skipped. Runtime errors are logged and never stop
// the viewer. Scripts get the base, table, string and math libraries and a
// navspy module:
//
//	navspy.log(message)   write message to the navspy log
//	navspy.activate(id)   navigate to the section with id
package hook

import (
	"fmt"
	"log/slog"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/navspy/internal/event"
)

// Names of the global functions a script may define.
const (
	FuncActiveChange   = "on_active_change"
	FuncScrollComplete = "on_scroll_complete"
)

// Runtime owns one Lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls
// from bus handlers and the UI.
type Runtime struct {
	mu       sync.Mutex
	L        *lua.LState
	path     string
	logger   *slog.Logger
	activate func(id string)
	queued   []string
	closed   bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger for script errors and navspy.log.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithActivate sets the function behind navspy.activate. Requests are
// queued while the script runs and delivered after it returns, so fn may
// trigger further hook calls.
func WithActivate(fn func(id string)) Option {
	return func(r *Runtime) {
		r.activate = fn
	}
}

// Load creates a runtime and executes the script at path.
func Load(path string, opts ...Option) (*Runtime, error) {
	if path == "" {
		return nil, ErrNoScript
	}
	r := newRuntime(path, opts)
	if err := r.do(func() error { return r.L.DoFile(path) }); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("load hook script %s: %w", path, err)
	}
	r.flushActivations()
	return r, nil
}

// LoadString creates a runtime from source held in memory.
func LoadString(name, src string, opts ...Option) (*Runtime, error) {
	r := newRuntime(name, opts)
	if err := r.do(func() error { return r.L.DoString(src) }); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("load hook script %s: %w", name, err)
	}
	r.flushActivations()
	return r, nil
}

func newRuntime(path string, opts []Option) *Runtime {
	r := &Runtime{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"log":      r.luaLog,
		"activate": r.luaActivate,
	})
	L.SetGlobal("navspy", mod)

	r.L = L
	return r
}

func (r *Runtime) luaLog(L *lua.LState) int {
	r.logger.Info("hook", "script", r.path, "message", L.CheckString(1))
	return 0
}

func (r *Runtime) luaActivate(L *lua.LState) int {
	r.queued = append(r.queued, L.CheckString(1))
	return 0
}

// Path returns the script location.
func (r *Runtime) Path() string { return r.path }

// Has reports whether the script defines the global function name.
func (r *Runtime) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	return r.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call invokes the global function name with string arguments. A missing
// function is not an error.
func (r *Runtime) Call(name string, args ...string) error {
	err := r.call(name, args)
	r.flushActivations()
	return err
}

func (r *Runtime) flushActivations() {
	r.mu.Lock()
	ids := r.queued
	r.queued = nil
	r.mu.Unlock()

	if r.activate == nil {
		return
	}
	for _, id := range ids {
		r.activate(id)
	}
}

func (r *Runtime) call(name string, args []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	fn := r.L.GetGlobal(name)
	switch fn.Type() {
	case lua.LTNil:
		return nil
	case lua.LTFunction:
	default:
		return fmt.Errorf("%q is not a function (got %s)", name, fn.Type())
	}

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = luaString(a)
	}
	return r.do(func() error {
		return r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, largs...)
	})
}

// luaString maps "" to nil so scripts can test `if previous_id then`.
func luaString(s string) lua.LValue {
	if s == "" {
		return lua.LNil
	}
	return lua.LString(s)
}

// do runs fn, converting Lua panics into errors.
func (r *Runtime) do(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// ActiveChanged calls on_active_change, logging failures.
func (r *Runtime) ActiveChanged(previous, current string) {
	if err := r.Call(FuncActiveChange, previous, current); err != nil {
		r.logger.Warn("hook failed", "script", r.path, "func", FuncActiveChange, "error", err)
	}
}

// ScrollCompleted calls on_scroll_complete, logging failures.
func (r *Runtime) ScrollCompleted(id string) {
	if err := r.Call(FuncScrollComplete, id); err != nil {
		r.logger.Warn("hook failed", "script", r.path, "func", FuncScrollComplete, "error", err)
	}
}

// Subscribe feeds the runtime from bus. The returned function removes the
// subscriptions.
func (r *Runtime) Subscribe(bus *event.Bus) (func(), error) {
	active, err := bus.SubscribeFunc(event.TopicActiveChanged, func(ev event.Event) error {
		if p, ok := ev.Payload.(event.ActiveChanged); ok {
			r.ActiveChanged(p.Previous, p.Current)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	complete, err := bus.SubscribeFunc(event.TopicScrollCompleted, func(ev event.Event) error {
		if p, ok := ev.Payload.(event.ScrollCompleted); ok {
			r.ScrollCompleted(p.ID)
		}
		return nil
	})
	if err != nil {
		_ = bus.Unsubscribe(active)
		return nil, err
	}
	return func() {
		_ = bus.Unsubscribe(active)
		_ = bus.Unsubscribe(complete)
	}, nil
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.L.Close()
	return nil
}
