package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/go-autoload/autoload/inflector"
	"github.com/go-autoload/autoload/registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("unable to create directories: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
}

// TestLazyLoadScenario implements scenario S1 from the specification: after
// setup, the registry contains exactly {app, app.models, app.models.user},
// all unloaded.
func TestLazyLoadScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "app", "models", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "app", "models", "user.py"), "class User: pass")

	reg := registry.New()
	infl := inflector.NewWithRule(inflector.IdentityRule)
	s := New(reg, infl, DefaultConfig())

	if err := s.Scan([]Root{{Path: filepath.Join(root, "app"), TopLevel: "app"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := reg.Names()
	sort.Strings(names)
	expected := []string{"app", "app.models", "app.models.user"}
	if len(names) != len(expected) {
		t.Fatalf("unexpected registry contents: %v", names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("unexpected registry contents: %v", names)
		}
	}

	for _, name := range names {
		loaded, err := reg.Loaded(name)
		if err != nil || loaded {
			t.Fatalf("expected %s to be unloaded, got loaded=%v err=%v", name, loaded, err)
		}
	}

	kind, _ := reg.Kind("app.models.user")
	if kind != registry.KindModule {
		t.Fatalf("expected app.models.user to be a module, got %v", kind)
	}
}

// TestNamespaceContainerScenario implements scenario S4: a directory with no
// initializer becomes a namespace entry, as long as it recursively contains
// a recognized source file.
func TestNamespaceContainerScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "sub", "leaf.py"), "")

	reg := registry.New()
	infl := inflector.NewWithRule(inflector.IdentityRule)
	s := New(reg, infl, DefaultConfig())

	if err := s.Scan([]Root{{Path: filepath.Join(root, "pkg"), TopLevel: "pkg"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kind, err := reg.Kind("pkg")
	if err != nil || kind != registry.KindNamespace {
		t.Fatalf("expected pkg to be a namespace, got %v, %v", kind, err)
	}
	kind, err = reg.Kind("pkg.sub")
	if err != nil || kind != registry.KindNamespace {
		t.Fatalf("expected pkg.sub to be a namespace, got %v, %v", kind, err)
	}
	kind, err = reg.Kind("pkg.sub.leaf")
	if err != nil || kind != registry.KindModule {
		t.Fatalf("expected pkg.sub.leaf to be a module, got %v, %v", kind, err)
	}
}

func TestScannerSkipsEmptyNamespaceDirectories(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "app", "empty"), 0o755); err != nil {
		t.Fatalf("unable to create directory: %v", err)
	}
	writeFile(t, filepath.Join(root, "app", "__init__.py"), "")

	reg := registry.New()
	infl := inflector.NewWithRule(inflector.IdentityRule)
	s := New(reg, infl, DefaultConfig())

	if err := s.Scan([]Root{{Path: filepath.Join(root, "app"), TopLevel: "app"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Contains("app.empty") {
		t.Fatal("expected empty directory to be skipped entirely")
	}
}

func TestScannerIgnoresDunderAndDotEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "app", "__pycache__", "user.cpython.py"), "")
	writeFile(t, filepath.Join(root, "app", ".hidden.py"), "")

	reg := registry.New()
	infl := inflector.NewWithRule(inflector.IdentityRule)
	s := New(reg, infl, DefaultConfig())

	if err := s.Scan([]Root{{Path: filepath.Join(root, "app"), TopLevel: "app"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Contains("app.__pycache__") || reg.Contains("app..hidden") {
		t.Fatal("expected ignored entries not to be registered")
	}
}

func TestScannerIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "app", "models", "__init__.py"), "")
	writeFile(t, filepath.Join(root, "app", "models", "user.py"), "")

	reg := registry.New()
	infl := inflector.NewWithRule(inflector.IdentityRule)
	s := New(reg, infl, DefaultConfig())

	if err := s.Scan([]Root{{Path: root, TopLevel: "app"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := reg.Names()
	sort.Strings(before)

	if err := s.Scan([]Root{{Path: root, TopLevel: "app"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := reg.Names()
	sort.Strings(after)

	if len(before) != len(after) {
		t.Fatalf("scan is not idempotent: %v vs %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("scan is not idempotent: %v vs %v", before, after)
		}
	}
}
