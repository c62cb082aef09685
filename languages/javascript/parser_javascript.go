package javascript

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// JavaScriptImport represents a static import in a JavaScript/JSX file.
type JavaScriptImport interface {
	Path() string
}

// NodeBuiltinImport represents a Node.js built-in module import (fs, path, http, node:fs)
type NodeBuiltinImport struct {
	path string
}

func (n NodeBuiltinImport) Path() string {
	return n.path
}

// ExternalImport represents an external npm package import
type ExternalImport struct {
	path string
}

func (e ExternalImport) Path() string {
	return e.path
}

// InternalImport represents an internal project file import (./, ../)
type InternalImport struct {
	path string
}

func (i InternalImport) Path() string {
	return i.path
}

// nodeBuiltins contains known Node.js built-in module names
var nodeBuiltins = map[string]bool{
	"assert":         true,
	"buffer":         true,
	"child_process":  true,
	"cluster":        true,
	"crypto":         true,
	"dgram":          true,
	"dns":            true,
	"events":         true,
	"fs":             true,
	"http":           true,
	"https":          true,
	"net":            true,
	"os":             true,
	"path":           true,
	"querystring":    true,
	"readline":       true,
	"stream":         true,
	"string_decoder": true,
	"timers":         true,
	"tls":            true,
	"tty":            true,
	"url":            true,
	"util":           true,
	"v8":             true,
	"vm":             true,
	"zlib":           true,
	"worker_threads": true,
	"perf_hooks":     true,
	"async_hooks":    true,
	"fs/promises":    true,
	"path/posix":     true,
	"path/win32":     true,
}

const (
	importQuery = `
(import_statement
  source: (string) @import.source)
`
	exportQuery = `
(export_statement
  source: (string) @export.source)
`
	requireQuery = `
(call_expression
  function: (identifier) @require.fn
  arguments: (arguments (string) @require.source)
  (#eq? @require.fn "require"))
`
)

func classifyJavaScriptImport(importPath string) JavaScriptImport {
	if strings.HasPrefix(importPath, "node:") || nodeBuiltins[importPath] {
		return NodeBuiltinImport{path: importPath}
	}

	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		return InternalImport{path: importPath}
	}

	return ExternalImport{path: importPath}
}

// ParseJavaScriptImports parses JavaScript source code and extracts its static imports:
// ESM imports, re-exports and require calls with a string literal.
func ParseJavaScriptImports(sourceCode []byte) ([]JavaScriptImport, error) {
	tree, err := parse(sourceCode)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return extractImportsFromTree(tree.RootNode(), sourceCode), nil
}

func parse(sourceCode []byte) (*sitter.Tree, error) {
	// tree-sitter-javascript handles JSX as well.
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JavaScript code: %w", err)
	}
	return tree, nil
}

func extractImportsFromTree(rootNode *sitter.Node, sourceCode []byte) []JavaScriptImport {
	lang := javascript.GetLanguage()
	var imports []JavaScriptImport

	for _, pattern := range []string{importQuery, exportQuery, requireQuery} {
		results, err := executeQuery(rootNode, sourceCode, lang, pattern)
		if err == nil {
			imports = append(imports, results...)
		}
	}

	// If queries fail, fall back to manual tree traversal
	if len(imports) == 0 {
		imports = extractImportsManually(rootNode, sourceCode)
	}

	return imports
}

func executeQuery(rootNode *sitter.Node, sourceCode []byte, lang *sitter.Language, pattern string) ([]JavaScriptImport, error) {
	query, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	cursor.Exec(query, rootNode)

	var imports []JavaScriptImport

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}

		match = cursor.FilterPredicates(match, sourceCode)

		for _, capture := range match.Captures {
			captureName := query.CaptureNameForId(capture.Index)
			if !strings.HasSuffix(captureName, ".source") {
				continue
			}

			importPath := cleanImportPath(capture.Node.Content(sourceCode))
			if importPath != "" {
				imports = append(imports, classifyJavaScriptImport(importPath))
			}
		}
	}

	return imports, nil
}

func extractImportsManually(node *sitter.Node, sourceCode []byte) []JavaScriptImport {
	var imports []JavaScriptImport

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}

		nodeType := n.Type()
		if nodeType == "import_statement" || nodeType == "export_statement" {
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child != nil && child.Type() == "string" {
					importPath := cleanImportPath(child.Content(sourceCode))
					if importPath != "" {
						imports = append(imports, classifyJavaScriptImport(importPath))
					}
					break
				}
			}
		}

		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(node)
	return imports
}

// cleanImportPath removes quotes from import path strings
func cleanImportPath(raw string) string {
	cleaned := strings.Trim(raw, "'\"`")
	return strings.TrimSpace(cleaned)
}
