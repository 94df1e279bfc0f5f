package docs

import (
	"path/filepath"
	"strings"
)

// Wildcard is the marker character in name patterns.
const Wildcard = "*"

// Match reports whether a document name matches a pattern. A leading marker
// means suffix match, a trailing marker prefix match, markers on both ends
// substring match, and no marker an exact match. A bare marker matches every
// name; interior markers match the literal parts in order. Matching is
// case-insensitive and ignores the markdown extension, so "configuration"
// matches "configuration.md".
func Match(pattern, name string) bool {
	name = strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	pattern = strings.ToLower(strings.TrimSuffix(pattern, ".md"))

	if pattern == Wildcard {
		return true
	}
	if !strings.Contains(pattern, Wildcard) {
		return name == pattern
	}

	parts := strings.Split(pattern, Wildcard)

	if head := parts[0]; head != "" {
		if !strings.HasPrefix(name, head) {
			return false
		}
		name = name[len(head):]
	}
	if tail := parts[len(parts)-1]; tail != "" {
		if !strings.HasSuffix(name, tail) {
			return false
		}
		name = name[:len(name)-len(tail)]
	}

	// Interior parts must appear in order in what remains.
	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(name, part)
		if idx < 0 {
			return false
		}
		name = name[idx+len(part):]
	}
	return true
}
