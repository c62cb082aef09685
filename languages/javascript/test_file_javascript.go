package javascript

import (
	"path"
	"strings"
)

// IsTestFile reports whether the given JavaScript path is a test file.
func IsTestFile(filePath string) bool {
	fileName := path.Base(filePath)
	ext := path.Ext(fileName)
	if !IsJavaScriptFile(fileName) {
		return false
	}

	if strings.HasSuffix(fileName, ".test"+ext) || strings.HasSuffix(fileName, ".spec"+ext) {
		return true
	}

	return strings.Contains("/"+filePath, "/__tests__/")
}
