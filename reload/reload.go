// Package reload implements the engine's invalidation controller: it maps
// changed paths to logical names and invalidates the affected name plus
// every transitive dependent, in an order that removes consumers before
// their producers.
package reload

import (
	"os"

	"github.com/go-autoload/autoload/host"
	"github.com/go-autoload/autoload/internal/identifier"
	"github.com/go-autoload/autoload/internal/logging"
	"github.com/go-autoload/autoload/registry"
	"github.com/go-autoload/autoload/watching"
)

// Rescanner is invoked when a newly created file or directory is observed,
// since the controller itself has no naming-convention knowledge; it
// delegates back to the scanner to register the new entry (and its
// siblings, in case a whole directory just appeared).
type Rescanner func() error

// Controller drives invalidation in response to filesystem events and
// explicit reload requests.
type Controller struct {
	reg      *registry.Registry
	runtime  host.Runtime
	rescan   Rescanner
	logger   *logging.Logger
	onReload func(name string)
}

// New constructs a Controller.
func New(reg *registry.Registry, runtime host.Runtime, rescan Rescanner, logger *logging.Logger) *Controller {
	return &Controller{reg: reg, runtime: runtime, rescan: rescan, logger: logger}
}

// SetReloadCallback installs a callback invoked after each name is
// invalidated, matching the engine's reload_callback configuration option.
func (c *Controller) SetReloadCallback(callback func(name string)) {
	c.onReload = callback
}

// Invalidate invalidates name and every transitive dependent, in
// post-order: every dependent is invalidated before the name it depends on,
// so that consumers never observe a producer disappear out from under them
// mid-invalidation.
func (c *Controller) Invalidate(name string) error {
	cycle, err := identifier.NewReloadCycle()
	if err != nil {
		cycle = "unidentified"
	}
	logger := c.logger.Sublogger(cycle)

	order := postOrderDependents(name, c.reg)
	for _, m := range order {
		if !c.reg.Contains(m) {
			continue
		}
		if c.runtime != nil {
			c.runtime.Cache().Remove(m)
		}
		if err := c.reg.MarkUnloaded(m); err != nil && !registry.IsUnknownName(err) {
			logger.Warn(err)
		}
		if err := c.reg.ClearDeps(m); err != nil && !registry.IsUnknownName(err) {
			logger.Warn(err)
		}
		logger.Debugf("invalidated %s", m)
		if c.onReload != nil {
			c.onReload(m)
		}
	}
	return nil
}

// ReloadChanged scans every currently loaded entry and invalidates any
// whose on-disk modification time exceeds its recorded load-time mtime.
func (c *Controller) ReloadChanged() error {
	for _, name := range c.reg.Names() {
		loaded, err := c.reg.Loaded(name)
		if err != nil || !loaded {
			continue
		}
		path, err := c.reg.Path(name)
		if err != nil || path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stored, err := c.reg.MTime(name)
		if err != nil {
			continue
		}
		if info.ModTime().After(stored) {
			if err := c.Invalidate(name); err != nil {
				c.logger.Warn(err)
			}
		}
	}
	return nil
}

// Dispatch implements watching.Dispatcher, translating normalized
// filesystem events into invalidation and unregistration.
func (c *Controller) Dispatch(event watching.Event) {
	switch event.Kind {
	case watching.Modified:
		if name, ok := c.reg.NameForPath(event.Path); ok {
			if err := c.Invalidate(name); err != nil {
				c.logger.Warn(err)
			}
		}
	case watching.Deleted:
		if name, ok := c.reg.NameForPath(event.Path); ok {
			if err := c.Invalidate(name); err != nil {
				c.logger.Warn(err)
			}
			if c.runtime != nil {
				c.runtime.Cache().Remove(name)
			}
			c.reg.Remove(name)
		}
	case watching.Created:
		if c.rescan != nil {
			if err := c.rescan(); err != nil {
				c.logger.Warn(err)
			}
		}
	}
}

// postOrderDependents performs a visited-set-guarded DFS from start over
// the dependents graph, pushing each node after its children so that every
// dependent appears before the name it depends on. Cycles in the
// dependents graph are tolerated by the visited-set guard and do not affect
// correctness.
func postOrderDependents(start string, reg *registry.Registry) []string {
	visited := make(map[string]struct{})
	var order []string
	var visit func(string)
	visit = func(name string) {
		if _, ok := visited[name]; ok {
			return
		}
		visited[name] = struct{}{}
		dependents, err := reg.Dependents(name)
		if err == nil {
			for _, dependent := range dependents {
				visit(dependent)
			}
		}
		order = append(order, name)
	}
	visit(start)
	return order
}
