// Package resolution implements the host.Finder the engine installs at the
// front of the embedding runtime's resolver chain.
package resolution

import (
	"path/filepath"
	"strings"

	"github.com/go-autoload/autoload/host"
	"github.com/go-autoload/autoload/inflector"
	"github.com/go-autoload/autoload/loader"
	"github.com/go-autoload/autoload/registry"
)

// Hook is the engine's host.Finder implementation.
type Hook struct {
	reg       *registry.Registry
	loader    *loader.Loader
	inflector *inflector.Inflector
}

// New constructs a Hook.
func New(reg *registry.Registry, ld *loader.Loader, infl *inflector.Inflector) *Hook {
	return &Hook{reg: reg, loader: ld, inflector: infl}
}

// Find implements host.Finder.
func (h *Hook) Find(name string) (*host.LoadDescriptor, *host.NamespaceDescriptor, bool) {
	if h.reg.Contains(name) {
		kind, err := h.reg.Kind(name)
		if err != nil {
			return nil, nil, false
		}
		path, err := h.reg.Path(name)
		if err != nil {
			return nil, nil, false
		}

		if kind == registry.KindNamespace {
			return nil, &host.NamespaceDescriptor{
				Name:            name,
				SearchLocations: []string{path},
			}, true
		}

		descriptor := &host.LoadDescriptor{
			Name:   name,
			Path:   path,
			Loader: h.loader.Bind(name),
		}
		if kind == registry.KindPackage {
			descriptor.SubmoduleSearchLocations = []string{filepath.Dir(path)}
		}
		return descriptor, nil, true
	}

	if locations := h.synthesizeNamespace(name); len(locations) > 0 {
		return nil, &host.NamespaceDescriptor{Name: name, SearchLocations: locations}, true
	}

	return nil, nil, false
}

// synthesizeNamespace handles the fallback case where name itself is not
// registered but some registered name begins with name+".". This covers
// prefixes of deeply registered names that were inserted directly into the
// registry without the scanner's own prefix-registration guarantee (e.g. by
// a caller bypassing Scan). It infers a search location by walking up the
// directory tree of a matching descendant's path until it finds a directory
// whose inflected basename matches name's final segment.
func (h *Hook) synthesizeNamespace(name string) []string {
	prefix := name + "."
	lastSegment := name
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		lastSegment = name[idx+1:]
	}

	seen := make(map[string]struct{})
	var locations []string
	for _, candidate := range h.reg.Names() {
		if !strings.HasPrefix(candidate, prefix) {
			continue
		}
		path, err := h.reg.Path(candidate)
		if err != nil || path == "" {
			continue
		}
		if dir, ok := h.ancestorMatching(path, lastSegment); ok {
			if _, dup := seen[dir]; !dup {
				seen[dir] = struct{}{}
				locations = append(locations, dir)
			}
		}
	}
	return locations
}

func (h *Hook) ancestorMatching(path, segment string) (string, bool) {
	dir := filepath.Dir(path)
	for {
		if h.inflector.Segment(filepath.Base(dir)) == segment {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
