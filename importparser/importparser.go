// Package importparser statically extracts the logical names a source file
// references, without executing it, and selects which of those references
// become dependency edges in the registry.
package importparser

import (
	"regexp"
	"strings"

	"github.com/go-autoload/autoload/registry"
)

// Parser extracts the set of absolute logical names referenced by a source
// blob. Implementations must never return an error for malformed input —
// per the engine's error handling policy, parse failures are swallowed and
// yield the empty set; the subsequent execution step will surface the same
// problem as a load failure if it is a real syntax error.
type Parser interface {
	Parse(source []byte, filename string) []string
}

var (
	importLine = regexp.MustCompile(`(?m)^\s*import\s+([^\n]+)$`)
	fromLine   = regexp.MustCompile(`(?m)^\s*from\s+(\.*[A-Za-z0-9_.]*)\s+import\s+[^\n]+$`)
	quotedName = regexp.MustCompile(`"([A-Za-z_][A-Za-z0-9_.]*)"`)
	bareName   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
)

// TextParser is the baseline, dependency-free, line-oriented parser
// described by the engine's specification. It recognizes two reference
// forms, generically:
//
//	import app.models.user
//	import "app.models.user"
//	from app.models import User
//
// A "from" form whose module path begins with "." is a relative reference
// and is ignored, since it resolves within the embedding runtime's own
// relative-import mechanism and is always reachable through the parent
// namespace edge that calculate_deps adds unconditionally.
type TextParser struct{}

// NewTextParser constructs a TextParser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse implements Parser.
func (p *TextParser) Parse(source []byte, _ string) []string {
	seen := make(map[string]struct{})
	var result []string
	add := func(name string) {
		name = strings.TrimSuffix(name, ".")
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}

	for _, match := range importLine.FindAllStringSubmatch(string(source), -1) {
		rest := strings.TrimSpace(match[1])
		for _, candidate := range strings.Split(rest, ",") {
			candidate = strings.TrimSpace(candidate)
			if m := quotedName.FindStringSubmatch(candidate); m != nil {
				add(m[1])
				continue
			}
			candidate = firstToken(candidate)
			if bareName.MatchString(candidate) {
				add(candidate)
			}
		}
	}

	for _, match := range fromLine.FindAllStringSubmatch(string(source), -1) {
		module := strings.TrimSpace(match[1])
		if module == "" || strings.HasPrefix(module, ".") {
			continue // relative reference; ignored per the engine's contract.
		}
		add(module)
	}

	return result
}

// firstToken returns the leading identifier-shaped token of s, stopping at
// the first whitespace, "as" aliasing keyword, or semicolon.
func firstToken(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexAny(s, " \t;"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

// CalculateDeps implements the engine's edge-selection algorithm: for each
// extracted name, it selects the longest prefix of that name which is
// actually registered, and it always adds an edge to the immediate parent
// namespace of the loading name, if that parent is registered. The result
// is deduplicated.
func CalculateDeps(name string, extracted []string, reg *registry.Registry) []string {
	seen := make(map[string]struct{})
	var result []string
	add := func(target string) {
		if target == "" {
			return
		}
		if _, ok := seen[target]; ok {
			return
		}
		seen[target] = struct{}{}
		result = append(result, target)
	}

	for _, candidate := range extracted {
		if prefix, ok := longestRegisteredPrefix(candidate, reg); ok {
			add(prefix)
		}
	}

	if parent, ok := parentOf(name); ok && reg.Contains(parent) {
		add(parent)
	}

	return result
}

// longestRegisteredPrefix walks name's dotted segments from most to least
// specific, returning the first one found registered.
func longestRegisteredPrefix(name string, reg *registry.Registry) (string, bool) {
	segments := strings.Split(name, ".")
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if reg.Contains(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// parentOf returns the immediate parent namespace of a dotted logical name.
func parentOf(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	return name[:idx], true
}
