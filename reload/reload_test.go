package reload

import (
	"os"
	"testing"
	"time"

	"github.com/go-autoload/autoload/host"
	"github.com/go-autoload/autoload/internal/logging"
	"github.com/go-autoload/autoload/registry"
	"github.com/go-autoload/autoload/watching"
)

type fakeCache struct {
	entries map[string]bool
}

func newFakeCache() *fakeCache { return &fakeCache{entries: make(map[string]bool)} }

func (c *fakeCache) Remove(name string) bool {
	present := c.entries[name]
	delete(c.entries, name)
	return present
}

func (c *fakeCache) Contains(name string) bool { return c.entries[name] }

type fakeRuntime struct {
	cache *fakeCache
}

func (r *fakeRuntime) InstallFinder(host.Finder)           {}
func (r *fakeRuntime) RemoveFinder(host.Finder)            {}
func (r *fakeRuntime) Cache() host.Cache                   { return r.cache }
func (r *fakeRuntime) NewUnit(name string) host.Unit       { return nil }
func (r *fakeRuntime) Reference(string) (host.Unit, error) { return nil, nil }

func setupChain(t *testing.T) (*registry.Registry, *fakeRuntime) {
	t.Helper()
	reg := registry.New()
	reg.Insert("a", "/a.py", registry.KindModule)
	reg.Insert("b", "/b.py", registry.KindModule)
	reg.Insert("c", "/c.py", registry.KindModule)
	// a depends on b depends on c.
	if err := reg.AddEdge("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddEdge("b", "c"); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for _, name := range []string{"a", "b", "c"} {
		if err := reg.MarkLoaded(name, now); err != nil {
			t.Fatal(err)
		}
	}
	rt := &fakeRuntime{cache: newFakeCache()}
	rt.cache.entries["a"] = true
	rt.cache.entries["b"] = true
	rt.cache.entries["c"] = true
	return reg, rt
}

// TestTransitiveInvalidationScenario implements scenario S3 / universal
// invariant 5: invalidating c clears loaded for a, b, and c.
func TestTransitiveInvalidationScenario(t *testing.T) {
	reg, rt := setupChain(t)
	controller := New(reg, rt, nil, logging.RootLogger)

	if err := controller.Invalidate("c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"a", "b", "c"} {
		loaded, err := reg.Loaded(name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded {
			t.Fatalf("expected %s to be unloaded after invalidating c", name)
		}
		if rt.cache.Contains(name) {
			t.Fatalf("expected %s to be evicted from the host cache", name)
		}
	}
}

func TestInvalidateClearsDepsButPreservesDependents(t *testing.T) {
	reg, rt := setupChain(t)
	controller := New(reg, rt, nil, logging.RootLogger)

	if err := controller.Invalidate("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deps, _ := reg.Deps("b")
	if len(deps) != 0 {
		t.Fatalf("expected b's deps to be cleared, got %v", deps)
	}
	dependents, _ := reg.Dependents("c")
	if len(dependents) != 1 || dependents[0] != "b" {
		t.Fatalf("expected c's dependents to still include b, got %v", dependents)
	}
}

func TestDispatchDeletedUnregistersEntry(t *testing.T) {
	reg, rt := setupChain(t)
	controller := New(reg, rt, nil, logging.RootLogger)

	controller.Dispatch(watching.Event{Kind: watching.Deleted, Path: "/c.py"})

	if reg.Contains("c") {
		t.Fatal("expected c to be unregistered after deletion")
	}
	if loaded, err := reg.Loaded("b"); err != nil || loaded {
		t.Fatalf("expected b to be invalidated (still registered, but unloaded), got loaded=%v err=%v", loaded, err)
	}
}

func TestDispatchCreatedTriggersRescan(t *testing.T) {
	reg := registry.New()
	rt := &fakeRuntime{cache: newFakeCache()}
	called := false
	controller := New(reg, rt, func() error { called = true; return nil }, logging.RootLogger)

	controller.Dispatch(watching.Event{Kind: watching.Created, Path: "/new.py"})

	if !called {
		t.Fatal("expected rescan to be invoked on a created event")
	}
}

func TestReloadChangedInvalidatesStaleEntries(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/user.py"
	writeFileForTest(t, path, "class User: pass")

	reg := registry.New()
	reg.Insert("app.models.user", path, registry.KindModule)
	if err := reg.MarkLoaded("app.models.user", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	rt := &fakeRuntime{cache: newFakeCache()}
	rt.cache.entries["app.models.user"] = true
	controller := New(reg, rt, nil, logging.RootLogger)

	if err := controller.ReloadChanged(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, _ := reg.Loaded("app.models.user")
	if loaded {
		t.Fatal("expected stale entry to be invalidated")
	}
}

func writeFileForTest(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
