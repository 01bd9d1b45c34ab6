// Package yaegihost adapts github.com/traefik/yaegi as a concrete
// host.Runtime, demonstrating the engine against a real, embeddable Go
// interpreter. The core engine packages never import this package; it
// exists purely as a reference wiring of the host contract described by
// the host package.
package yaegihost

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/go-autoload/autoload/host"
)

// Unit wraps one yaegi interpreter instance, giving each loaded logical
// name its own isolated evaluation environment.
type Unit struct {
	name        string
	interpreter *interp.Interpreter
	attrs       map[string]any
	result      reflect.Value
}

// Name implements host.Unit.
func (u *Unit) Name() string { return u.name }

// SetAttr implements host.Unit.
func (u *Unit) SetAttr(key string, value any) {
	if u.attrs == nil {
		u.attrs = make(map[string]any)
	}
	u.attrs[key] = value
}

// Attr returns a previously set attribute.
func (u *Unit) Attr(key string) (any, bool) {
	value, ok := u.attrs[key]
	return value, ok
}

// Result returns the reflect.Value yielded by the unit's last evaluation.
func (u *Unit) Result() reflect.Value { return u.result }

// cache is a minimal host.Cache tracking which logical names currently have
// a live, evaluated unit.
type cache struct {
	mu      sync.Mutex
	entries map[string]struct{}
}

func newCache() *cache {
	return &cache{entries: make(map[string]struct{})}
}

func (c *cache) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[name]
	delete(c.entries, name)
	return ok
}

func (c *cache) Contains(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[name]
	return ok
}

func (c *cache) mark(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = struct{}{}
}

// Runtime is a host.Runtime backed by one yaegi interpreter per unit.
type Runtime struct {
	mu      sync.Mutex
	finders []host.Finder
	units   map[string]*Unit
	cache   *cache
}

// New constructs an empty Runtime.
func New() *Runtime {
	return &Runtime{units: make(map[string]*Unit), cache: newCache()}
}

// InstallFinder implements host.Runtime.
func (r *Runtime) InstallFinder(finder host.Finder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finders = append([]host.Finder{finder}, r.finders...)
}

// RemoveFinder implements host.Runtime.
func (r *Runtime) RemoveFinder(finder host.Finder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.finders {
		if f == finder {
			r.finders = append(r.finders[:i], r.finders[i+1:]...)
			return
		}
	}
}

// Cache implements host.Runtime.
func (r *Runtime) Cache() host.Cache { return r.cache }

// NewUnit implements host.Runtime, creating a fresh yaegi interpreter
// preloaded with the standard library symbol table.
func (r *Runtime) NewUnit(name string) host.Unit {
	interpreter := interp.New(interp.Options{})
	_ = interpreter.Use(stdlib.Symbols)

	u := &Unit{name: name, interpreter: interpreter}
	r.mu.Lock()
	r.units[name] = u
	r.mu.Unlock()
	return u
}

// Reference implements host.Runtime: it returns the cached unit if one
// exists, or walks the installed finders to load one.
func (r *Runtime) Reference(name string) (host.Unit, error) {
	r.mu.Lock()
	u, ok := r.units[name]
	cached := r.cache.Contains(name)
	finders := append([]host.Finder(nil), r.finders...)
	r.mu.Unlock()

	if ok && cached {
		return u, nil
	}

	for _, finder := range finders {
		load, namespace, recognized := finder.Find(name)
		if !recognized {
			continue
		}
		if namespace != nil {
			ns := r.NewUnit(name)
			r.cache.mark(name)
			return ns, nil
		}

		unit := r.NewUnit(name)
		if err := load.Loader.Load(unit); err != nil {
			r.mu.Lock()
			delete(r.units, name)
			r.mu.Unlock()
			return nil, err
		}
		r.cache.mark(name)
		return unit, nil
	}
	return nil, host.ErrNotMine
}

// Exec is a loader.Executor that interprets source as Go code within its
// unit's own yaegi interpreter, recording the resulting value for
// inspection by tests or callers.
func Exec(source []byte, unit host.Unit) error {
	u, ok := unit.(*Unit)
	if !ok {
		return fmt.Errorf("yaegihost: unexpected unit type %T", unit)
	}
	value, err := u.interpreter.Eval(string(source))
	if err != nil {
		return err
	}
	u.result = value
	return nil
}
