// Package docs retrieves framework documentation from a local corpus of
// markdown files, organized into category folders. It supports wildcard name
// matching, full-text search, and extraction of fenced JSON examples.
package docs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sfcwizard/pkg/logging"
)

// ErrNotFound signals that a named document does not exist. It is distinct
// from a document that exists but is empty.
var ErrNotFound = errors.New("document not found")

// Category identifies a documentation folder.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryAdapter Category = "adapter"
	CategoryTarget  Category = "target"
	// CategoryAll spans every category in queries.
	CategoryAll Category = "all"
)

// ParseCategory validates a category name from user input.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(s)) {
	case CategoryCore:
		return CategoryCore, nil
	case CategoryAdapter:
		return CategoryAdapter, nil
	case CategoryTarget:
		return CategoryTarget, nil
	case CategoryAll, "":
		return CategoryAll, nil
	default:
		return "", fmt.Errorf("unknown documentation category %q (expected core, adapter, target or all)", s)
	}
}

// dir maps the singular category name to its folder in the corpus.
func (c Category) dir() string {
	switch c {
	case CategoryAdapter:
		return "adapters"
	case CategoryTarget:
		return "targets"
	default:
		return string(c)
	}
}

// categories returns the concrete categories a query category expands to.
func (c Category) categories() []Category {
	if c == CategoryAll {
		return []Category{CategoryCore, CategoryAdapter, CategoryTarget}
	}
	return []Category{c}
}

// Doc is one retrieved document. Content is populated only when requested.
type Doc struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Path     string   `json:"path"`
	Content  string   `json:"content,omitempty"`
}

// Index provides read access to the documentation corpus rooted at a
// directory containing the category folders. The corpus is only mutated by
// the repository updater, so the index holds no state beyond the root path.
type Index struct {
	root string
}

// NewIndex creates an index over the corpus at root.
func NewIndex(root string) *Index {
	return &Index{root: root}
}

// Root returns the corpus root directory.
func (i *Index) Root() string {
	return i.root
}

// List returns the sorted document names in a category, without extensions.
// An empty or missing category folder yields an empty list; a corpus that is
// not checked out at all is an error, so callers can tell "no matches" from
// "could not read corpus".
func (i *Index) List(category Category) ([]string, error) {
	dir := filepath.Join(i.root, category.dir())

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if _, rootErr := os.Stat(i.root); rootErr != nil {
			return nil, fmt.Errorf("documentation corpus not available at %s: %w", i.root, rootErr)
		}
		logging.Debug("docs", "category folder %s does not exist", dir)
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read category folder %s: %w", dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// Get reads a single document by name. The name may be given with or without
// the markdown extension. Returns ErrNotFound when no such document exists.
func (i *Index) Get(category Category, name string) (string, error) {
	filename := strings.TrimSuffix(name, ".md") + ".md"
	path := filepath.Join(i.root, category.dir(), filename)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, category, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return string(data), nil
}

// Query returns the documents whose names match the pattern. With category
// "all" every category is searched. No matches is an empty result, not an
// error.
func (i *Index) Query(category Category, pattern string, includeContent bool) ([]Doc, error) {
	results := []Doc{}

	for _, cat := range category.categories() {
		names, err := i.List(cat)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			if !Match(pattern, name) {
				continue
			}

			doc := Doc{
				Name:     name,
				Category: cat,
				Path:     filepath.Join(cat.dir(), name+".md"),
			}
			if includeContent {
				content, err := i.Get(cat, name)
				if err != nil {
					return nil, err
				}
				doc.Content = content
			}
			results = append(results, doc)
		}
	}

	return results, nil
}

// ContentMatch holds the excerpts where a search term was found in one
// document.
type ContentMatch struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Excerpts []string `json:"matches"`
}

// contextLines is the number of lines included on each side of a content hit.
const contextLines = 3

// SearchContent scans document text for a search term and returns matching
// documents with line excerpts around each hit.
func (i *Index) SearchContent(term string, category Category, caseSensitive bool) ([]ContentMatch, error) {
	needle := term
	if !caseSensitive {
		needle = strings.ToLower(needle)
	}

	results := []ContentMatch{}

	for _, cat := range category.categories() {
		names, err := i.List(cat)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			content, err := i.Get(cat, name)
			if err != nil {
				return nil, err
			}

			excerpts := findExcerpts(content, needle, caseSensitive)
			if len(excerpts) == 0 {
				continue
			}
			results = append(results, ContentMatch{
				Name:     name,
				Category: cat,
				Excerpts: excerpts,
			})
		}
	}

	return results, nil
}

// findExcerpts returns one excerpt per hit line, each carrying contextLines
// of surrounding text. Overlapping hits produce separate excerpts.
func findExcerpts(content, needle string, caseSensitive bool) []string {
	lines := strings.Split(content, "\n")

	var excerpts []string
	for idx, line := range lines {
		haystack := line
		if !caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if !strings.Contains(haystack, needle) {
			continue
		}

		start := idx - contextLines
		if start < 0 {
			start = 0
		}
		end := idx + contextLines + 1
		if end > len(lines) {
			end = len(lines)
		}

		var sb strings.Builder
		for n := start; n < end; n++ {
			marker := "  "
			if n == idx {
				marker = "> "
			}
			fmt.Fprintf(&sb, "%s%d: %s\n", marker, n+1, lines[n])
		}
		excerpts = append(excerpts, strings.TrimRight(sb.String(), "\n"))
	}
	return excerpts
}
