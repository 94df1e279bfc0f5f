package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		filename string
		expected bool
	}{
		{name: "prefix matches full word", pattern: "config*", filename: "configuration.md", expected: true},
		{name: "prefix matches hyphenated", pattern: "config*", filename: "config-examples.md", expected: true},
		{name: "prefix rejects interior", pattern: "config*", filename: "myconfig.md", expected: false},
		{name: "contains matches full word", pattern: "*config*", filename: "configuration.md", expected: true},
		{name: "contains matches hyphenated", pattern: "*config*", filename: "config-examples.md", expected: true},
		{name: "contains matches interior", pattern: "*config*", filename: "myconfig.md", expected: true},
		{name: "exact matches itself", pattern: "configuration", filename: "configuration.md", expected: true},
		{name: "exact rejects prefix", pattern: "configuration", filename: "config-examples.md", expected: false},
		{name: "exact rejects interior", pattern: "configuration", filename: "myconfig.md", expected: false},
		{name: "suffix match", pattern: "*examples", filename: "config-examples.md", expected: true},
		{name: "suffix rejects prefix position", pattern: "*examples", filename: "examples-config.md", expected: false},
		{name: "bare marker matches everything", pattern: "*", filename: "anything.md", expected: true},
		{name: "case-insensitive", pattern: "OPCUA", filename: "opcua.md", expected: true},
		{name: "pattern with extension", pattern: "configuration.md", filename: "configuration.md", expected: true},
		{name: "interior marker matches parts in order", pattern: "config*examples", filename: "config-more-examples.md", expected: true},
		{name: "interior marker rejects reordered parts", pattern: "examples*config", filename: "config-more-examples.md", expected: false},
		{name: "multiple interior markers", pattern: "*aws*s3*", filename: "my-aws-to-s3-notes.md", expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Match(tc.pattern, tc.filename))
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{input: "core", expected: CategoryCore},
		{input: "Adapter", expected: CategoryAdapter},
		{input: "TARGET", expected: CategoryTarget},
		{input: "all", expected: CategoryAll},
		{input: "", expected: CategoryAll},
		{input: "bogus", wantErr: true},
	}

	for _, tc := range tests {
		t.Run("input "+tc.input, func(t *testing.T) {
			cat, err := ParseCategory(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cat)
		})
	}
}

// newTestCorpus builds a corpus with the three category folders populated.
func newTestCorpus(t *testing.T) *Index {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"core/configuration.md": "# Configuration\n\nTop level layout.\n\n```json\n{\"AWSVersion\": \"2022-04-02\"}\n```\n",
		"core/schedules.md":     "# Schedules\n\nA schedule binds an interval to sources and targets.\n",
		"adapters/opcua.md":     "# OPC UA Adapter\n\nExample:\n\n```json\n{\"ProtocolAdapter\": \"OPCUA\"}\n```\n",
		"adapters/modbus.md":    "# Modbus Adapter\n\nPolling over TCP port 502.\n",
		"targets/aws-s3.md":     "# AWS S3 Target\n\n```json\n{\"TargetType\": \"AWS-S3\"}\n```\n",
		"targets/debug.md":      "",
	}
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return NewIndex(root)
}

func TestList(t *testing.T) {
	idx := newTestCorpus(t)

	names, err := idx.List(CategoryCore)
	require.NoError(t, err)
	assert.Equal(t, []string{"configuration", "schedules"}, names)

	names, err = idx.List(CategoryAdapter)
	require.NoError(t, err)
	assert.Equal(t, []string{"modbus", "opcua"}, names)
}

func TestListMissingFolderIsEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "core"), 0o755))
	idx := NewIndex(root)

	names, err := idx.List(CategoryAdapter)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestListMissingCorpusIsError(t *testing.T) {
	idx := NewIndex(filepath.Join(t.TempDir(), "nowhere"))

	_, err := idx.List(CategoryAdapter)
	assert.ErrorContains(t, err, "documentation corpus not available")
}

func TestGet(t *testing.T) {
	idx := newTestCorpus(t)

	content, err := idx.Get(CategoryCore, "configuration")
	require.NoError(t, err)
	assert.Contains(t, content, "# Configuration")

	// Extension in the name is accepted.
	withExt, err := idx.Get(CategoryCore, "configuration.md")
	require.NoError(t, err)
	assert.Equal(t, content, withExt)
}

func TestGetNotFoundVersusEmpty(t *testing.T) {
	idx := newTestCorpus(t)

	_, err := idx.Get(CategoryCore, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// An empty document is found, with empty content.
	content, err := idx.Get(CategoryTarget, "debug")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestQuery(t *testing.T) {
	idx := newTestCorpus(t)

	t.Run("prefix pattern in one category", func(t *testing.T) {
		docs, err := idx.Query(CategoryCore, "config*", false)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "configuration", docs[0].Name)
		assert.Empty(t, docs[0].Content)
	})

	t.Run("all categories with content", func(t *testing.T) {
		docs, err := idx.Query(CategoryAll, "*", true)
		require.NoError(t, err)
		assert.Len(t, docs, 6)
		for _, doc := range docs {
			if doc.Name == "debug" {
				continue
			}
			assert.NotEmpty(t, doc.Content, "doc %s should carry content", doc.Name)
		}
	})

	t.Run("no matches is empty not error", func(t *testing.T) {
		docs, err := idx.Query(CategoryAll, "zzz*", false)
		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NotNil(t, docs)
	})
}

func TestSearchContent(t *testing.T) {
	idx := newTestCorpus(t)

	t.Run("case-insensitive by default", func(t *testing.T) {
		matches, err := idx.SearchContent("polling", CategoryAll, false)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "modbus", matches[0].Name)
		require.Len(t, matches[0].Excerpts, 1)
		assert.Contains(t, matches[0].Excerpts[0], "> 3: Polling over TCP port 502.")
	})

	t.Run("case-sensitive misses", func(t *testing.T) {
		matches, err := idx.SearchContent("polling", CategoryAll, true)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("excerpt carries surrounding lines", func(t *testing.T) {
		matches, err := idx.SearchContent("interval", CategoryCore, false)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		excerpt := matches[0].Excerpts[0]
		assert.Contains(t, excerpt, "# Schedules")
	})
}

func TestExtractBlocksSkipsMalformed(t *testing.T) {
	content := "Intro.\n\n```json\n{\"valid\": true}\n```\n\nBroken:\n\n```json\n{not json at all\n```\n"

	example := ExtractBlocks("sample", content)

	assert.Equal(t, "sample", example.Source)
	require.Len(t, example.Objects, 1)
	assert.JSONEq(t, `{"valid": true}`, string(example.Objects[0]))
}

func TestExtractBlocksUnlabeledFence(t *testing.T) {
	content := "```\n[1, 2, 3]\n```\n"

	example := ExtractBlocks("sample", content)

	require.Len(t, example.Objects, 1)
	assert.JSONEq(t, "[1,2,3]", string(example.Objects[0]))
}

func TestExtractJSONExamples(t *testing.T) {
	idx := newTestCorpus(t)

	examples, err := idx.ExtractJSONExamples(CategoryAll, "*")
	require.NoError(t, err)

	sources := make([]string, 0, len(examples))
	for _, ex := range examples {
		sources = append(sources, ex.Source)
		assert.NotEmpty(t, ex.Objects)
	}
	// Documents without parseable blocks are omitted entirely.
	assert.ElementsMatch(t, []string{"configuration", "opcua", "aws-s3"}, sources)
}

func TestConfigExamples(t *testing.T) {
	idx := newTestCorpus(t)

	examples, err := idx.ConfigExamples("s3")
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "aws-s3", examples[0].Source)
	assert.True(t, strings.Contains(string(examples[0].Objects[0]), "AWS-S3"))
}
