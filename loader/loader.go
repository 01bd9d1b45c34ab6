// Package loader implements the read/parse/record-edges/execute/update
// sequence that materializes a registered logical name into a host unit.
package loader

import (
	"os"
	"time"

	"github.com/go-autoload/autoload/host"
	"github.com/go-autoload/autoload/importparser"
	"github.com/go-autoload/autoload/registry"
)

// Executor executes a source blob within a freshly created unit's
// environment. It is supplied by the embedding runtime (see
// autoload/yaegihost for a concrete implementation); the loader itself has
// no opinion on how source is executed, per the engine's scope boundary.
type Executor func(source []byte, unit host.Unit) error

// Loader reads, parses, and executes registered names, recording dependency
// edges in the registry before execution so that a crash mid-execution
// still leaves enough information to invalidate and retry.
type Loader struct {
	reg      *registry.Registry
	parser   importparser.Parser
	execute  Executor
	readFile func(string) ([]byte, error)
	stat     func(string) (os.FileInfo, error)
}

// New constructs a Loader.
func New(reg *registry.Registry, parser importparser.Parser, execute Executor) *Loader {
	return &Loader{
		reg:      reg,
		parser:   parser,
		execute:  execute,
		readFile: os.ReadFile,
		stat:     os.Stat,
	}
}

// Bind returns a host.Loader bound to a single logical name, suitable for
// embedding in the host.LoadDescriptor the resolution hook returns for that
// name.
func (l *Loader) Bind(name string) host.Loader {
	return boundLoader{loader: l, name: name}
}

type boundLoader struct {
	loader *Loader
	name   string
}

// Load implements host.Loader. It is invoked by the embedding runtime with
// a freshly created, empty unit bearing the loader's bound name.
func (b boundLoader) Load(unit host.Unit) error {
	return b.loader.load(b.name, unit)
}

func (l *Loader) load(name string, unit host.Unit) error {
	path, err := l.reg.Path(name)
	if err != nil {
		return err
	}

	source, err := l.readFile(path)
	if err != nil {
		return err
	}

	extracted := l.parser.Parse(source, path)
	deps := importparser.CalculateDeps(name, extracted, l.reg)
	for _, dep := range deps {
		// Edges are recorded before execution: a unit whose first load
		// throws must still be invalidatable and must not orphan its
		// recorded deps.
		if err := l.reg.AddEdge(name, dep); err != nil {
			// The dependency target vanished between parsing and edge
			// recording (e.g. concurrent deletion); skip it rather than
			// failing the whole load over a dependency-tracking nicety.
			continue
		}
	}

	if err := l.execute(source, unit); err != nil {
		return err
	}

	info, err := l.stat(path)
	var mtime time.Time
	if err == nil {
		mtime = info.ModTime()
	}
	return l.reg.MarkLoaded(name, mtime)
}
