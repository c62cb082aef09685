package javascript

import (
	"path"
)

// JavaScript extension resolution order
var resolveExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".json"}

// ResolveJavaScriptImportPath resolves a relative import to the candidate file
// paths that exist, in resolution order. Paths are slash-separated.
func ResolveJavaScriptImportPath(sourceFile, importPath string, exists func(string) bool) []string {
	return ResolveFromDir(path.Dir(sourceFile), importPath, exists)
}

// ResolveFromDir resolves importPath against dir with the same rules as
// ResolveJavaScriptImportPath.
func ResolveFromDir(dir, importPath string, exists func(string) bool) []string {
	basePath := path.Join(dir, importPath)

	var resolvedPaths []string

	// An exact file wins over probing.
	if exists(basePath) {
		resolvedPaths = append(resolvedPaths, basePath)
	}

	for _, ext := range resolveExtensions {
		if candidate := basePath + ext; exists(candidate) {
			resolvedPaths = append(resolvedPaths, candidate)
		}
	}

	// Try index file resolution (./utils -> ./utils/index.js)
	for _, ext := range resolveExtensions {
		if indexPath := path.Join(basePath, "index"+ext); exists(indexPath) {
			resolvedPaths = append(resolvedPaths, indexPath)
		}
	}

	return resolvedPaths
}

// IsJavaScriptFile reports whether the host parses filePath for imports.
func IsJavaScriptFile(filePath string) bool {
	switch path.Ext(filePath) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}
