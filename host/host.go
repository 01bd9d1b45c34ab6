// Package host defines the contract that an embedding runtime must satisfy
// for the autoload engine to intercept its name resolution and materialize
// units on demand. The engine depends only on these interfaces; it never
// assumes a particular execution environment. See autoload/yaegihost for a
// concrete, runnable implementation built on the yaegi interpreter.
package host

import "errors"

// ErrNotMine is the sentinel a Finder returns when asked to resolve a name
// it has no entry for. The embedding runtime's resolver chain should
// continue to the next finder in this case.
var ErrNotMine = errors.New("host: name not recognized by this finder")

// LoadDescriptor tells the embedding runtime how to materialize a unit for
// a logical name: which loader to invoke, and (for package-kind entries)
// which directory additional submodules should be searched under.
type LoadDescriptor struct {
	// Name is the fully qualified logical name being resolved.
	Name string
	// Path is the absolute filesystem path backing the unit.
	Path string
	// Loader performs the actual read/execute/record-edges/update-registry
	// sequence described by the engine's loader contract.
	Loader Loader
	// SubmoduleSearchLocations is populated only when the descriptor
	// corresponds to a package-kind entry (a directory with an initializer
	// file); it names the directory that should be searched for the
	// package's submodules.
	SubmoduleSearchLocations []string
}

// NamespaceDescriptor tells the embedding runtime that a name corresponds to
// a pure namespace container: a directory with no initializer file, whose
// descendants should still be searchable. No loader is associated with it.
type NamespaceDescriptor struct {
	// Name is the fully qualified logical name being resolved.
	Name string
	// SearchLocations lists directories that should be unioned into the
	// runtime's search path for this namespace.
	SearchLocations []string
}

// Finder is the interface the engine implements and installs into the
// embedding runtime's resolver chain (at the front, per the setup
// contract). Find returns exactly one of (LoadDescriptor, NamespaceDescriptor)
// non-nil, or both nil with ok=false to mean "not mine".
type Finder interface {
	Find(name string) (load *LoadDescriptor, namespace *NamespaceDescriptor, ok bool)
}

// Unit is the runtime artifact materialized from one source file (or
// directory initializer). The embedding runtime creates it; the engine only
// populates it.
type Unit interface {
	// Name returns the fully qualified logical name this unit was created
	// for.
	Name() string
	// SetAttr assigns an attribute on the unit, as if the loaded source had
	// defined a top-level identifier with that name.
	SetAttr(key string, value any)
}

// Loader is invoked by the embedding runtime with a freshly created, empty
// unit object bearing the target name. Implementations read the unit's
// backing source, execute it into the unit's environment, and record
// dependency edges before returning.
type Loader interface {
	Load(unit Unit) error
}

// Cache is the embedding runtime's lookup table keyed by logical name, in
// which it caches materialized units. The engine only needs to remove
// entries (on invalidation) and check presence.
type Cache interface {
	// Remove drops the cached unit for name, if any, returning whether one
	// was present.
	Remove(name string) bool
	// Contains reports whether the runtime currently has a materialized
	// unit cached under name.
	Contains(name string) bool
}

// Runtime is the full embedding-runtime contract: a resolver chain to
// install into, a unit cache to invalidate against, and a factory for the
// empty unit objects the loader populates.
type Runtime interface {
	// InstallFinder inserts finder at the front of the resolver chain.
	InstallFinder(finder Finder)
	// RemoveFinder removes finder from the resolver chain.
	RemoveFinder(finder Finder)
	// Cache returns the runtime's unit cache.
	Cache() Cache
	// NewUnit creates a fresh, empty unit bearing the given name. The
	// engine never creates units itself; this keeps it out of the runtime's
	// object-identity contract.
	NewUnit(name string) Unit
	// Reference triggers a runtime-level lookup of name exactly as normal
	// user code referencing that name would, re-entering the resolver
	// chain. It is used by EagerLoad and by tests driving scenario-style
	// assertions.
	Reference(name string) (Unit, error)
}
