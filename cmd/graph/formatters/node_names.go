package formatters

import "strings"

// ShortNames maps each slash-separated module path to its shortest trailing
// segment run that no other path shares.
func ShortNames(paths []string) map[string]string {
	names := make(map[string]string, len(paths))
	for _, p := range paths {
		segments := strings.Split(strings.Trim(p, "/"), "/")
		for depth := 1; depth <= len(segments); depth++ {
			candidate := strings.Join(segments[len(segments)-depth:], "/")
			if depth == len(segments) || !sharedSuffix(paths, p, candidate) {
				names[p] = candidate
				break
			}
		}
	}
	return names
}

func sharedSuffix(paths []string, self, suffix string) bool {
	for _, other := range paths {
		if other != self && (other == suffix || strings.HasSuffix(other, "/"+suffix)) {
			return true
		}
	}
	return false
}
