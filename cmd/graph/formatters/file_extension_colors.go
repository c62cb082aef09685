package formatters

import (
	"path"
	"slices"
)

var extensionPalette = []string{
	"lightblue", "lightyellow", "mistyrose", "lavender",
	"peachpuff", "powderblue", "thistle", "khaki",
}

// ExtensionColors assigns a fill color to every extension found in paths.
// Extensions are colored in sorted order, so the same set of modules always
// renders the same way.
func ExtensionColors(paths []string) map[string]string {
	var exts []string
	for _, p := range paths {
		if ext := path.Ext(p); ext != "" && !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)

	colors := make(map[string]string, len(exts))
	for i, ext := range exts {
		colors[ext] = extensionPalette[i%len(extensionPalette)]
	}
	return colors
}
