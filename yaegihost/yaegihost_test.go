package yaegihost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-autoload/autoload"
	"github.com/go-autoload/autoload/scanner"
)

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// goScanConfig treats a directory's doc.go file (the conventional home for
// Go package documentation) as the initializer marking it a package.
func goScanConfig() scanner.Config {
	return scanner.Config{
		SourceExtensions:    []string{".go"},
		InitializerBasename: "doc",
	}
}

func TestEngineEvaluatesGoUnitsThroughYaegi(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"doc.go": "// Package app is the application root.\npackage app\n",
		"models/doc.go": "// Package models holds domain types.\npackage models\n",
		"models/user.go": `package models

var UserName = "Alice"
`,
		"services/doc.go": "// Package services holds application services.\npackage services\n",
		"services/auth.go": `package services

// autoload:import app.models.user

var AuthSubject = "Alice"
`,
	})

	runtime := New()
	e := autoload.New(runtime, Exec,
		autoload.WithScanConfig(goScanConfig()),
		autoload.WithParser(NewGoParser()),
	)
	e.AddRoot(root, "app")

	if err := e.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	unit, err := runtime.Reference("app.services.auth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit == nil {
		t.Fatal("expected a non-nil unit")
	}

	graph, err := e.Graph("app.services.auth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, name := range graph {
		if name == "app.models.user" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected app.services.auth's dependency graph to include app.models.user, got %v", graph)
	}
}

func TestGoParserExtractsImportDirectivesOnly(t *testing.T) {
	p := NewGoParser()
	source := []byte(`package services

import "fmt"

// autoload:import app.models.user
// a regular comment that looks similar but autoload:import must be exact
// autoload:import app.models.account

var _ = fmt.Sprintf
`)
	names := p.Parse(source, "auth.go")
	if len(names) != 2 || names[0] != "app.models.user" || names[1] != "app.models.account" {
		t.Fatalf("unexpected extracted names: %v", names)
	}
}

func TestGoParserSwallowsSyntaxErrors(t *testing.T) {
	p := NewGoParser()
	names := p.Parse([]byte("this is not valid go {{{"), "broken.go")
	if names != nil {
		t.Fatalf("expected nil result for unparseable source, got %v", names)
	}
}
