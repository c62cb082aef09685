package javascript

import (
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// DefaultContextPattern matches every file of a context.
const DefaultContextPattern = `^\./.*$`

// ContextImport is a directory-style import: a require.context call, or a
// require call whose argument is an expression rather than a string literal.
type ContextImport struct {
	// Directory is the directory request relative to the issuing file, e.g. "./locales".
	Directory string
	Recursive bool
	// Pattern is matched against "./<path inside Directory>".
	Pattern string
	// Request is the source text of the request argument.
	Request string
	// Dynamic is set when nothing about the request could be evaluated statically.
	Dynamic bool
}

const (
	requireContextQuery = `
(call_expression
  function: (member_expression
    object: (identifier) @context.object
    property: (property_identifier) @context.property)
  arguments: (arguments) @context.args
  (#eq? @context.object "require")
  (#eq? @context.property "context"))
`
	expressionRequireQuery = `
(call_expression
  function: (identifier) @require.fn
  arguments: (arguments) @require.args
  (#eq? @require.fn "require"))
`
)

// ParseJavaScriptContextImports extracts the context imports of a JavaScript
// source file in source order.
func ParseJavaScriptContextImports(sourceCode []byte) ([]ContextImport, error) {
	tree, err := parse(sourceCode)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	type located struct {
		start uint32
		ci    ContextImport
	}

	root := tree.RootNode()
	var found []located

	for _, args := range captureNodes(root, sourceCode, requireContextQuery, "context.args") {
		if ci, ok := requireContextImport(args, sourceCode); ok {
			found = append(found, located{start: args.StartByte(), ci: ci})
		}
	}
	for _, args := range captureNodes(root, sourceCode, expressionRequireQuery, "require.args") {
		if ci, ok := expressionContextImport(args, sourceCode); ok {
			found = append(found, located{start: args.StartByte(), ci: ci})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	imports := make([]ContextImport, 0, len(found))
	for _, l := range found {
		imports = append(imports, l.ci)
	}
	return imports, nil
}

// captureNodes returns every node captured under name, in match order.
func captureNodes(root *sitter.Node, sourceCode []byte, pattern, name string) []*sitter.Node {
	query, err := sitter.NewQuery([]byte(pattern), javascript.GetLanguage())
	if err != nil {
		return nil
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var nodes []*sitter.Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, sourceCode)
		for _, capture := range match.Captures {
			if query.CaptureNameForId(capture.Index) == name {
				nodes = append(nodes, capture.Node)
			}
		}
	}
	return nodes
}

// require.context(directory, useSubdirectories = true, regExp = /^\.\/.*$/)
func requireContextImport(args *sitter.Node, sourceCode []byte) (ContextImport, bool) {
	if args.NamedChildCount() == 0 {
		return ContextImport{}, false
	}
	dirNode := args.NamedChild(0)
	if dirNode.Type() != "string" {
		return ContextImport{}, false
	}

	ci := ContextImport{
		Directory: cleanImportPath(dirNode.Content(sourceCode)),
		Recursive: true,
		Pattern:   DefaultContextPattern,
	}
	ci.Request = ci.Directory

	if args.NamedChildCount() > 1 && args.NamedChild(1).Type() == "false" {
		ci.Recursive = false
	}
	if args.NamedChildCount() > 2 {
		if pattern, ok := regexLiteral(args.NamedChild(2), sourceCode); ok {
			ci.Pattern = pattern
		}
	}

	return ci, true
}

// require('./locales/' + lang + '.json'), require(`./locales/${lang}.json`), require(name)
func expressionContextImport(args *sitter.Node, sourceCode []byte) (ContextImport, bool) {
	if args.NamedChildCount() == 0 {
		return ContextImport{}, false
	}
	arg := args.NamedChild(0)
	request := arg.Content(sourceCode)

	var prefix, suffix string
	switch arg.Type() {
	case "string":
		// plain require('x') is a static import
		return ContextImport{}, false
	case "binary_expression":
		if left := leftmostOperand(arg, sourceCode); left.Type() == "string" {
			prefix = cleanImportPath(left.Content(sourceCode))
		}
		if right := rightmostOperand(arg, sourceCode); right.Type() == "string" {
			suffix = cleanImportPath(right.Content(sourceCode))
		}
	case "template_string":
		raw := strings.Trim(request, "`")
		start := strings.Index(raw, "${")
		if start < 0 {
			return ContextImport{}, false
		}
		prefix = raw[:start]
		if end := strings.LastIndex(raw, "}"); end >= 0 {
			suffix = raw[end+1:]
		}
	}

	if prefix == "" {
		return ContextImport{
			Directory: ".",
			Recursive: true,
			Pattern:   DefaultContextPattern,
			Request:   request,
			Dynamic:   true,
		}, true
	}

	if !strings.HasPrefix(prefix, "./") && !strings.HasPrefix(prefix, "../") {
		// package contexts are out of reach
		return ContextImport{}, false
	}

	slash := strings.LastIndex(prefix, "/")
	directory := prefix[:slash]
	filePrefix := prefix[slash+1:]

	return ContextImport{
		Directory: directory,
		Recursive: true,
		Pattern:   `^\./` + regexp.QuoteMeta(filePrefix) + `.*` + regexp.QuoteMeta(suffix) + `$`,
		Request:   request,
	}, true
}

func leftmostOperand(n *sitter.Node, sourceCode []byte) *sitter.Node {
	for isConcatenation(n, sourceCode) {
		n = n.ChildByFieldName("left")
	}
	return n
}

func rightmostOperand(n *sitter.Node, sourceCode []byte) *sitter.Node {
	if isConcatenation(n, sourceCode) {
		return n.ChildByFieldName("right")
	}
	return n
}

func isConcatenation(n *sitter.Node, sourceCode []byte) bool {
	if n == nil || n.Type() != "binary_expression" {
		return false
	}
	op := n.ChildByFieldName("operator")
	return op != nil && op.Content(sourceCode) == "+"
}

func regexLiteral(n *sitter.Node, sourceCode []byte) (string, bool) {
	if n == nil || n.Type() != "regex" {
		return "", false
	}
	pattern := n.ChildByFieldName("pattern")
	if pattern == nil {
		return "", false
	}
	source := pattern.Content(sourceCode)
	if flags := n.ChildByFieldName("flags"); flags != nil && strings.Contains(flags.Content(sourceCode), "i") {
		source = "(?i)" + source
	}
	return source, true
}
