// Package autoload provides convention-driven, on-demand loading and hot
// reloading of code units for a host runtime that locates executable units
// by dotted logical name. See the root-level documentation files for the
// full specification; this file implements the engine facade (component 9)
// that wires the registry, scanner, resolution hook, loader, watcher
// adapter, and reload controller together.
package autoload

import (
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/go-autoload/autoload/host"
	"github.com/go-autoload/autoload/importparser"
	"github.com/go-autoload/autoload/inflector"
	"github.com/go-autoload/autoload/internal/identifier"
	"github.com/go-autoload/autoload/internal/logging"
	"github.com/go-autoload/autoload/loader"
	"github.com/go-autoload/autoload/registry"
	"github.com/go-autoload/autoload/reload"
	"github.com/go-autoload/autoload/resolution"
	"github.com/go-autoload/autoload/scanner"
	"github.com/go-autoload/autoload/watching"
)

// ConfigurationError indicates that Setup was called in a state the engine
// cannot start from, such as with no roots configured.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "autoload: configuration error: " + e.Reason
}

// EngineStats summarizes the current registry for logging and CLI use.
type EngineStats struct {
	Registered int
	Loaded     int
	Namespaces int
	Packages   int
	Modules    int
}

// Engine is the autoload engine facade. The zero value is not usable; call
// New to construct one.
type Engine struct {
	id     string
	logger *logging.Logger

	roots  []scanner.Root
	config scanner.Config
	infl   *inflector.Inflector

	reg        *registry.Registry
	scan       *scanner.Scanner
	ld         *loader.Loader
	hook       *resolution.Hook
	controller *reload.Controller
	watcher    *watching.Watcher

	runtime  host.Runtime
	executor loader.Executor
	parser   importparser.Parser

	isSetup          bool
	reloadingEnabled bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithParser overrides the default text-based import parser.
func WithParser(parser importparser.Parser) Option {
	return func(e *Engine) { e.parser = parser }
}

// WithScanConfig overrides the default scanning convention.
func WithScanConfig(config scanner.Config) Option {
	return func(e *Engine) { e.config = config }
}

// WithInflector overrides the default segment-naming convention. The
// engine's own default preserves disk basenames verbatim (inflector's
// IdentityRule); callers wanting the capitalize-concatenate convention
// described as the inflector package's "default rule" should pass
// inflector.New() (or any inflector.NewWithRule(inflector.DefaultRule))
// here explicitly.
func WithInflector(infl *inflector.Inflector) Option {
	return func(e *Engine) { e.infl = infl }
}

// New constructs an Engine bound to the given host runtime and execution
// function. Multiple engines may coexist; each gets its own registry and
// instance identifier, so their name spaces never interact.
func New(runtime host.Runtime, executor loader.Executor, options ...Option) *Engine {
	id, err := identifier.NewEngine()
	if err != nil {
		id = "engn_unidentified"
	}

	e := &Engine{
		id:       id,
		logger:   logging.RootLogger.Sublogger("autoload").Sublogger(id),
		infl:     inflector.NewWithRule(inflector.IdentityRule),
		reg:      registry.New(),
		runtime:  runtime,
		executor: executor,
		parser:   importparser.NewTextParser(),
		config:   scanner.DefaultConfig(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// ID returns the engine's instance identifier.
func (e *Engine) ID() string { return e.id }

// Registry exposes the engine's registry for read-only inspection (e.g. by
// the CLI's graph subcommand).
func (e *Engine) Registry() *registry.Registry { return e.reg }

// AddRoot registers an additional root directory to scan, with an optional
// override for the derived top-level logical segment. Must be called before
// Setup.
func (e *Engine) AddRoot(path string, topLevel ...string) {
	root := scanner.Root{Path: path}
	if len(topLevel) > 0 {
		root.TopLevel = topLevel[0]
	}
	e.roots = append(e.roots, root)
}

// Ignore adds ignore patterns (substrings or doublestar globs) to the
// scanning convention. Must be called before Setup.
func (e *Engine) Ignore(patterns ...string) {
	e.config.Ignore = append(e.config.Ignore, patterns...)
}

// Inflect installs literal basename-to-segment overrides. Must be called
// before Setup.
func (e *Engine) Inflect(overrides map[string]string) {
	e.infl.OverrideAll(overrides)
}

// Setup scans all configured roots and installs the resolution hook into
// the host runtime's resolver chain. It is idempotent: calling it again
// rescans (converging to the same state, per the scanner's idempotence
// guarantee) without reinstalling the hook twice.
func (e *Engine) Setup() error {
	if len(e.roots) == 0 {
		return &ConfigurationError{Reason: "no roots configured"}
	}

	if e.scan == nil {
		e.scan = scanner.New(e.reg, e.infl, e.config)
	}
	if err := e.scan.Scan(e.roots); err != nil {
		return errors.Wrap(err, "unable to scan roots")
	}

	if e.ld == nil {
		e.ld = loader.New(e.reg, e.parser, e.executor)
	}
	if e.hook == nil {
		e.hook = resolution.New(e.reg, e.ld, e.infl)
	}

	if !e.isSetup {
		e.runtime.InstallFinder(e.hook)
		e.isSetup = true
	}

	e.logger.Infof("setup complete: %d names registered across %d roots", len(e.reg.Names()), len(e.roots))
	return nil
}

// EagerLoad triggers a host-level reference for every registered,
// non-namespace name that is not currently loaded. Errors are collected
// per-entry and returned together; a failure on one entry does not prevent
// the others from being attempted.
func (e *Engine) EagerLoad() map[string]error {
	failures := make(map[string]error)
	for _, name := range e.reg.Names() {
		kind, err := e.reg.Kind(name)
		if err != nil || kind == registry.KindNamespace {
			continue
		}
		loaded, err := e.reg.Loaded(name)
		if err != nil || loaded {
			continue
		}
		if _, err := e.runtime.Reference(name); err != nil {
			failures[name] = err
			e.logger.Warnf("eager load failed for %s: %v", name, err)
		}
	}
	return failures
}

// EnableReloading starts the watcher adapter wired to the reload
// controller. onReload, if non-nil, is invoked after each successful
// reload.
func (e *Engine) EnableReloading(onReload func(name string)) error {
	if e.reloadingEnabled {
		return nil
	}
	if !e.isSetup {
		return &ConfigurationError{Reason: "Setup must be called before EnableReloading"}
	}

	e.controller = reload.New(e.reg, e.runtime, func() error {
		return e.scan.Scan(e.roots)
	}, e.logger)
	if onReload != nil {
		e.controller.SetReloadCallback(onReload)
	}

	paths := make([]string, len(e.roots))
	for i, root := range e.roots {
		paths[i] = root.Path
	}

	watcher, err := watching.New(paths, e.scan.Recognized, e.controller, e.logger)
	if err != nil {
		return errors.Wrap(err, "unable to start watcher")
	}
	e.watcher = watcher
	e.reloadingEnabled = true
	return nil
}

// Reload invalidates every loaded entry whose on-disk source has changed
// since it was last loaded.
func (e *Engine) Reload() error {
	if e.controller == nil {
		e.controller = reload.New(e.reg, e.runtime, func() error {
			return e.scan.Scan(e.roots)
		}, e.logger)
	}
	return e.controller.ReloadChanged()
}

// ReloadName explicitly invalidates name and its transitive dependents.
func (e *Engine) ReloadName(name string) error {
	if e.controller == nil {
		e.controller = reload.New(e.reg, e.runtime, func() error {
			return e.scan.Scan(e.roots)
		}, e.logger)
	}
	return e.controller.Invalidate(name)
}

// Graph returns the transitive dependency closure of name, in no
// particular order.
func (e *Engine) Graph(name string) ([]string, error) {
	if !e.reg.Contains(name) {
		return nil, registry.ErrUnknownName(name)
	}
	visited := make(map[string]struct{})
	var walk func(string)
	walk = func(n string) {
		deps, err := e.reg.Deps(n)
		if err != nil {
			return
		}
		for _, dep := range deps {
			if _, ok := visited[dep]; ok {
				continue
			}
			visited[dep] = struct{}{}
			walk(dep)
		}
	}
	walk(name)
	result := make([]string, 0, len(visited))
	for name := range visited {
		result = append(result, name)
	}
	return result, nil
}

// Stats summarizes the current registry.
func (e *Engine) Stats() EngineStats {
	var stats EngineStats
	for _, name := range e.reg.Names() {
		stats.Registered++
		kind, err := e.reg.Kind(name)
		if err != nil {
			continue
		}
		switch kind {
		case registry.KindNamespace:
			stats.Namespaces++
		case registry.KindPackage:
			stats.Packages++
		case registry.KindModule:
			stats.Modules++
		}
		if loaded, err := e.reg.Loaded(name); err == nil && loaded {
			stats.Loaded++
		}
	}
	return stats
}

// Teardown stops the watcher (if running) and removes the resolution hook
// from the host runtime's resolver chain. Teardown is synchronous: it joins
// the watcher's background worker before returning. In-flight loads
// complete normally.
func (e *Engine) Teardown() error {
	if e.watcher != nil {
		if err := e.watcher.Stop(); err != nil {
			e.logger.Warn(err)
		}
		e.watcher = nil
		e.reloadingEnabled = false
	}
	if e.isSetup {
		e.runtime.RemoveFinder(e.hook)
		e.isSetup = false
	}
	return nil
}

// RootBasenames reports the basename of each configured root, in
// configuration order, for display in CLI output such as the scan
// subcommand's summary header.
func (e *Engine) RootBasenames() []string {
	names := make([]string, len(e.roots))
	for i, root := range e.roots {
		names[i] = filepath.Base(root.Path)
	}
	return names
}
