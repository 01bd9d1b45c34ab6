package importparser

import (
	"reflect"
	"sort"
	"testing"

	"github.com/go-autoload/autoload/registry"
)

func TestTextParserExtractsImportForm(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte(`import app.models.user`), "service.txt")
	if !reflect.DeepEqual(extracted, []string{"app.models.user"}) {
		t.Fatalf("unexpected extraction: %v", extracted)
	}
}

func TestTextParserExtractsQuotedImportForm(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte(`import "app.models.user"`), "service.txt")
	if !reflect.DeepEqual(extracted, []string{"app.models.user"}) {
		t.Fatalf("unexpected extraction: %v", extracted)
	}
}

func TestTextParserExtractsFromForm(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte(`from app.models import User`), "service.txt")
	if !reflect.DeepEqual(extracted, []string{"app.models"}) {
		t.Fatalf("unexpected extraction: %v", extracted)
	}
}

func TestTextParserIgnoresRelativeFromForm(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte(`from .sibling import Thing`), "service.txt")
	if len(extracted) != 0 {
		t.Fatalf("expected relative reference to be ignored, got %v", extracted)
	}
}

func TestTextParserSwallowsGarbage(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte("this is not valid source at all {{{"), "broken.txt")
	if len(extracted) != 0 {
		t.Fatalf("expected no extraction from garbage input, got %v", extracted)
	}
}

func TestTextParserDeduplicates(t *testing.T) {
	p := NewTextParser()
	extracted := p.Parse([]byte("import app.models.user\nimport app.models.user\n"), "service.txt")
	if len(extracted) != 1 {
		t.Fatalf("expected deduplication, got %v", extracted)
	}
}

func TestCalculateDepsSelectsLongestRegisteredPrefix(t *testing.T) {
	reg := registry.New()
	reg.Insert("app", "/app/__init__.py", registry.KindPackage)
	reg.Insert("app.models", "/app/models/__init__.py", registry.KindPackage)
	reg.Insert("app.models.user", "/app/models/user.py", registry.KindModule)
	reg.Insert("app.services", "/app/services/__init__.py", registry.KindPackage)
	reg.Insert("app.services.user_service", "/app/services/user_service.py", registry.KindModule)

	deps := CalculateDeps("app.services.user_service", []string{"app.models.user"}, reg)
	sort.Strings(deps)

	expected := []string{"app.models.user", "app.services"}
	sort.Strings(expected)
	if !reflect.DeepEqual(deps, expected) {
		t.Fatalf("unexpected deps: %v, want %v", deps, expected)
	}
}

func TestCalculateDepsFallsBackToRegisteredPrefix(t *testing.T) {
	reg := registry.New()
	reg.Insert("app", "/app/__init__.py", registry.KindPackage)
	reg.Insert("app.models", "/app/models/__init__.py", registry.KindPackage)
	reg.Insert("app.models.user", "/app/models/user.py", registry.KindModule)

	// app.models.user.User is not registered (it's an attribute, not a
	// logical name); the longest registered prefix is app.models.user. The
	// registered parent namespace app.models is always added as well.
	deps := CalculateDeps("app.models.user", []string{"app.models.user.User"}, reg)
	if !reflect.DeepEqual(deps, []string{"app.models.user", "app.models"}) {
		t.Fatalf("unexpected deps: %v", deps)
	}
}

func TestCalculateDepsDropsUnregisteredReferences(t *testing.T) {
	reg := registry.New()
	reg.Insert("app.models.user", "/app/models/user.py", registry.KindModule)

	deps := CalculateDeps("app.models.user", []string{"totally.unknown.thing"}, reg)
	if len(deps) != 0 {
		t.Fatalf("expected no deps for unregistered reference, got %v", deps)
	}
}
