// Package registry implements the autoload engine's in-memory catalog of
// logical names: their backing file locations, lifecycle flags, and the
// bidirectional dependency graph used to order invalidation.
//
// All operations are serialized by a single mutex. Per the concurrency
// model, callers are expected to hold the lock only for short, independent
// critical sections — no registry method calls back into another registry
// method while holding the lock, so a plain (non-reentrant) mutex is
// sufficient; see DESIGN.md for the reasoning behind this choice.
package registry

import (
	"sync"
	"time"
)

// Kind classifies a registry entry.
type Kind int

const (
	// KindModule is a leaf source file.
	KindModule Kind = iota
	// KindPackage is a directory with an initializer file.
	KindPackage
	// KindNamespace is a directory without an initializer file that
	// recursively contains at least one recognized source file.
	KindNamespace
)

// String renders a Kind for logging and error messages.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindPackage:
		return "package"
	case KindNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable, point-in-time copy of a registry entry, safe to
// retain after the registry lock has been released.
type Snapshot struct {
	Name       string
	Path       string
	Kind       Kind
	Loaded     bool
	ModTime    time.Time
	Deps       []string
	Dependents []string
}

// entry is the registry's internal, mutable representation of one logical
// name.
type entry struct {
	path       string
	kind       Kind
	loaded     bool
	mtime      time.Time
	deps       map[string]struct{}
	dependents map[string]struct{}
}

func newEntry(path string, kind Kind) *entry {
	return &entry{
		path:       path,
		kind:       kind,
		deps:       make(map[string]struct{}),
		dependents: make(map[string]struct{}),
	}
}

// Registry is the thread-safe catalog described by the engine's data model.
type Registry struct {
	lock sync.Mutex
	// entries maps logical name to its entry.
	entries map[string]*entry
	// pathIndex maps backing path to the logical name that owns it, so that
	// Insert can enforce injectivity of paths over non-namespace entries.
	pathIndex map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries:   make(map[string]*entry),
		pathIndex: make(map[string]string),
	}
}

// Insert registers name with the given path and kind. If name is already
// registered, the prior entry is replaced in place — its path and kind are
// updated but its edges are left intact, per the duplicate-insert contract.
// If a different non-namespace entry already owns path, it is evicted first
// so that paths remain injective over non-namespace entries.
func (r *Registry) Insert(name, path string, kind Kind) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if kind != KindNamespace && path != "" {
		if owner, ok := r.pathIndex[path]; ok && owner != name {
			r.removeLocked(owner)
		}
	}

	if e, ok := r.entries[name]; ok {
		if e.path != "" {
			delete(r.pathIndex, e.path)
		}
		e.path = path
		e.kind = kind
	} else {
		r.entries[name] = newEntry(path, kind)
	}

	if kind != KindNamespace && path != "" {
		r.pathIndex[path] = name
	}
}

// Remove deletes name and prunes every edge incident to it, in both
// directions, atomically. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.removeLocked(name)
}

func (r *Registry) removeLocked(name string) {
	e, ok := r.entries[name]
	if !ok {
		return
	}
	for dep := range e.deps {
		if other, ok := r.entries[dep]; ok {
			delete(other.dependents, name)
		}
	}
	for dependent := range e.dependents {
		if other, ok := r.entries[dependent]; ok {
			delete(other.deps, name)
		}
	}
	if e.path != "" {
		delete(r.pathIndex, e.path)
	}
	delete(r.entries, name)
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.entries[name]
	return ok
}

// Path returns the backing path for name.
func (r *Registry) Path(name string) (string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return "", ErrUnknownName(name)
	}
	return e.path, nil
}

// Kind returns the kind of name.
func (r *Registry) Kind(name string) (Kind, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return 0, ErrUnknownName(name)
	}
	return e.kind, nil
}

// Loaded reports whether name is currently loaded.
func (r *Registry) Loaded(name string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return false, ErrUnknownName(name)
	}
	return e.loaded, nil
}

// MarkLoaded marks name as loaded and records the source modification time
// observed for this load.
func (r *Registry) MarkLoaded(name string, mtime time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return ErrUnknownName(name)
	}
	e.loaded = true
	e.mtime = mtime
	return nil
}

// MarkUnloaded clears the loaded flag for name. It does not touch deps or
// dependents; callers that want edges cleared should call ClearDeps
// separately, matching the controller's documented invalidation order
// (drop the host's cache entry, then mark unloaded, then clear deps).
func (r *Registry) MarkUnloaded(name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return ErrUnknownName(name)
	}
	e.loaded = false
	e.mtime = time.Time{}
	return nil
}

// ClearDeps removes every outgoing dependency edge from name, pruning the
// mirrored dependents entry on each former dependency. The reverse edges
// (name's own dependents) are left intact, so the reverse graph remains
// correct until the next load reconstructs the forward edges.
func (r *Registry) ClearDeps(name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return ErrUnknownName(name)
	}
	for dep := range e.deps {
		if other, ok := r.entries[dep]; ok {
			delete(other.dependents, name)
		}
	}
	e.deps = make(map[string]struct{})
	return nil
}

// MTime returns the last successful load's recorded modification time, or
// the zero Time if name has never been loaded.
func (r *Registry) MTime(name string) (time.Time, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return time.Time{}, ErrUnknownName(name)
	}
	return e.mtime, nil
}

// AddEdge records that from depends on to, mirroring the edge into to's
// dependents set. Both names must already be registered.
func (r *Registry) AddEdge(from, to string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	fe, ok := r.entries[from]
	if !ok {
		return ErrUnknownName(from)
	}
	te, ok := r.entries[to]
	if !ok {
		return ErrUnknownName(to)
	}
	fe.deps[to] = struct{}{}
	te.dependents[from] = struct{}{}
	return nil
}

// Deps returns the set of names that name depends on.
func (r *Registry) Deps(name string) ([]string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, ErrUnknownName(name)
	}
	return keys(e.deps), nil
}

// Dependents returns the set of names that depend on name.
func (r *Registry) Dependents(name string) ([]string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, ErrUnknownName(name)
	}
	return keys(e.dependents), nil
}

// NameForPath returns the logical name registered under path, if any. Only
// non-namespace entries are indexed by path, matching the injectivity
// invariant.
func (r *Registry) NameForPath(path string) (string, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	name, ok := r.pathIndex[path]
	return name, ok
}

// Names returns every registered logical name, in no particular order.
func (r *Registry) Names() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	result := make([]string, 0, len(r.entries))
	for name := range r.entries {
		result = append(result, name)
	}
	return result
}

// Snapshot returns a copy of name's entry, or an UnknownName error.
func (r *Registry) Snapshot(name string) (Snapshot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return Snapshot{}, ErrUnknownName(name)
	}
	return Snapshot{
		Name:       name,
		Path:       e.path,
		Kind:       e.kind,
		Loaded:     e.loaded,
		ModTime:    e.mtime,
		Deps:       keys(e.deps),
		Dependents: keys(e.dependents),
	}, nil
}

func keys(m map[string]struct{}) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	return result
}
