// Package scanner walks one or more root directories and populates a
// registry according to the engine's file-naming convention: a directory
// holding an initializer file becomes a package, a directory without one
// but containing recognized descendants becomes a namespace, and any other
// recognized source file becomes a module.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/go-autoload/autoload/inflector"
	"github.com/go-autoload/autoload/registry"
)

// Root describes one scan root.
type Root struct {
	// Path is the absolute directory to scan.
	Path string
	// TopLevel overrides the logical segment derived from Path's basename,
	// if non-empty.
	TopLevel string
}

// Config controls how the scanner classifies filesystem entries.
type Config struct {
	// SourceExtensions lists recognized source file extensions, including
	// the leading dot (e.g. ".py"). A file is a candidate module only if
	// its extension is in this list.
	SourceExtensions []string
	// InitializerBasename is the file basename (without extension) that
	// marks a directory as a package (e.g. "__init__").
	InitializerBasename string
	// Ignore lists additional ignore patterns, matched against basenames.
	// A pattern containing any of "*?[{" is matched with doublestar glob
	// semantics; any other pattern is matched as a plain substring.
	Ignore []string
}

// DefaultConfig returns the engine's default scanning convention.
func DefaultConfig() Config {
	return Config{
		SourceExtensions:    []string{".py"},
		InitializerBasename: "__init__",
		Ignore:              nil,
	}
}

// Scanner populates a registry from disk using Config's naming convention.
type Scanner struct {
	config    Config
	reg       *registry.Registry
	inflector *inflector.Inflector
}

// New constructs a Scanner.
func New(reg *registry.Registry, infl *inflector.Inflector, config Config) *Scanner {
	return &Scanner{config: config, reg: reg, inflector: infl}
}

// Scan walks every root, registering entries in the scanner's registry. It
// is idempotent: repeated scans converge to the same registry state, modulo
// deletions, which are the reload controller's responsibility.
func (s *Scanner) Scan(roots []Root) error {
	for _, root := range roots {
		if err := s.scanRoot(root); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanRoot(root Root) error {
	info, err := os.Stat(root.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to stat root %q", root.Path)
	}
	if !info.IsDir() {
		return errors.Errorf("root %q is not a directory", root.Path)
	}

	segment := root.TopLevel
	if segment == "" {
		segment = s.inflector.Segment(filepath.Base(root.Path))
	}

	initializerPath, hasInitializer, err := s.findInitializer(root.Path)
	if err != nil {
		return nil // ScanFailure: permission or I/O error; skip this root.
	}

	if hasInitializer {
		s.reg.Insert(segment, initializerPath, registry.KindPackage)
	} else {
		s.reg.Insert(segment, root.Path, registry.KindNamespace)
	}

	return s.visitChildren(root.Path, segment)
}

// visitChildren classifies and registers every surviving child of dirPath,
// which is itself already registered under name, then recurses into
// surviving subdirectories.
func (s *Scanner) visitChildren(dirPath, name string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil // ScanFailure: swallowed, directory skipped.
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, child := range entries {
		basename := child.Name()
		if s.isInitializer(basename) {
			continue // already accounted for as this directory's own path.
		}
		if s.ignored(basename) {
			continue
		}

		childPath := filepath.Join(dirPath, basename)

		if child.IsDir() {
			if err := s.visitDirectory(childPath, name); err != nil {
				return err
			}
			continue
		}

		if ext, ok := s.recognizedExtension(basename); ok {
			moduleName := name + "." + s.inflector.Segment(strings.TrimSuffix(basename, ext))
			s.reg.Insert(moduleName, childPath, registry.KindModule)
		}
	}
	return nil
}

// visitDirectory classifies a subdirectory: package if it has an
// initializer, namespace if it recursively contains a recognized source
// file, or skipped entirely otherwise.
func (s *Scanner) visitDirectory(dirPath, parentName string) error {
	segment := s.inflector.Segment(filepath.Base(dirPath))
	childName := parentName + "." + segment

	initializerPath, hasInitializer, err := s.findInitializer(dirPath)
	if err != nil {
		return nil
	}

	if hasInitializer {
		s.reg.Insert(childName, initializerPath, registry.KindPackage)
		return s.visitChildren(dirPath, childName)
	}

	contains, err := s.containsRecognizedSource(dirPath)
	if err != nil || !contains {
		return nil // no recognized descendants; skip entirely.
	}

	s.reg.Insert(childName, dirPath, registry.KindNamespace)
	return s.visitChildren(dirPath, childName)
}

// findInitializer reports whether dirPath directly contains an initializer
// file, and its path if so.
func (s *Scanner) findInitializer(dirPath string) (string, bool, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return "", false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s.isInitializer(entry.Name()) {
			return filepath.Join(dirPath, entry.Name()), true, nil
		}
	}
	return "", false, nil
}

// containsRecognizedSource reports whether dirPath recursively contains at
// least one recognized source file or initializer file. Initializer files
// are always recognized, even if they would otherwise match an ignore
// pattern (matching visitChildren's treatment of the initializer in the
// directory currently being visited); every other entry is skipped if
// ignored.
func (s *Scanner) containsRecognizedSource(dirPath string) (bool, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return false, nil
	}
	for _, entry := range entries {
		basename := entry.Name()
		if entry.IsDir() {
			if s.ignored(basename) {
				continue
			}
			if ok, err := s.containsRecognizedSource(filepath.Join(dirPath, basename)); err == nil && ok {
				return true, nil
			}
			continue
		}
		if s.isInitializer(basename) {
			return true, nil
		}
		if s.ignored(basename) {
			continue
		}
		if _, ok := s.recognizedExtension(basename); ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *Scanner) isInitializer(basename string) bool {
	for _, ext := range s.config.SourceExtensions {
		if basename == s.config.InitializerBasename+ext {
			return true
		}
	}
	return false
}

func (s *Scanner) recognizedExtension(basename string) (string, bool) {
	for _, ext := range s.config.SourceExtensions {
		if strings.HasSuffix(basename, ext) && basename != ext {
			return ext, true
		}
	}
	return "", false
}

// ignored reports whether basename should be skipped entirely: it starts
// with "." or "__", equals "setup.py", or matches a configured ignore
// pattern.
func (s *Scanner) ignored(basename string) bool {
	if strings.HasPrefix(basename, ".") || strings.HasPrefix(basename, "__") {
		return true
	}
	if basename == "setup.py" {
		return true
	}
	for _, pattern := range s.config.Ignore {
		if isGlob(pattern) {
			if ok, _ := doublestar.Match(pattern, basename); ok {
				return true
			}
			continue
		}
		if strings.Contains(basename, pattern) {
			return true
		}
	}
	return false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Recognized reports whether path names a file the scanner would register
// as a module or treat as a package initializer, for use as a watcher
// filter predicate.
func (s *Scanner) Recognized(path string) bool {
	basename := filepath.Base(path)
	if s.ignored(basename) && !s.isInitializer(basename) {
		return false
	}
	if s.isInitializer(basename) {
		return true
	}
	_, ok := s.recognizedExtension(basename)
	return ok
}
