package yaegihost

import (
	"go/parser"
	"go/token"
	"regexp"
	"strings"
)

// importDirective recognizes a "//autoload:import <name>" comment directive,
// in the spirit of the standard library's own "//go:generate" pragmas. Real
// Go import statements name slash-separated package paths resolved by a
// real toolchain, which yaegi's interpreter also insists on resolving for
// real; a logical autoload name is a dotted convention-driven identifier
// with no corresponding on-disk Go package, so it cannot be spelled as a
// real import without breaking evaluation. The directive sidesteps that by
// living in a comment, invisible to yaegi's own import resolution.
var importDirective = regexp.MustCompile(`^autoload:import\s+(\S+)$`)

// GoParser extracts autoload import directives from real Go source using
// go/parser, so that syntax errors are swallowed the same way the engine's
// baseline text parser swallows them: a parse failure yields the empty set
// and lets the subsequent execution step surface the same problem as a load
// failure.
type GoParser struct{}

// NewGoParser constructs a GoParser.
func NewGoParser() *GoParser {
	return &GoParser{}
}

// Parse implements importparser.Parser.
func (p *GoParser) Parse(source []byte, filename string) []string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, source, parser.ParseComments)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var result []string
	for _, group := range file.Comments {
		for _, comment := range group.List {
			text := stripCommentMarkers(comment.Text)
			match := importDirective.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			name := match[1]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}
	return result
}

func stripCommentMarkers(text string) string {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	return strings.TrimSpace(text)
}
