package docs

import (
	"encoding/json"
	"regexp"
	"strings"

	"sfcwizard/pkg/logging"
)

// fencedBlock captures the body of a fenced code block. Blocks without a
// language label are included since many corpus examples omit it; non-JSON
// bodies are filtered out by the parse step.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)```")

// Example holds the JSON objects extracted from one document.
type Example struct {
	Source  string            `json:"source_name"`
	Objects []json.RawMessage `json:"json_objects"`
}

// ExtractBlocks parses every fenced JSON block in a document body. Blocks
// that fail to parse are skipped so that one malformed example never aborts
// the extraction.
func ExtractBlocks(source, content string) Example {
	example := Example{Source: source, Objects: []json.RawMessage{}}

	for _, match := range fencedBlock.FindAllStringSubmatch(content, -1) {
		body := strings.TrimSpace(match[1])
		if body == "" {
			continue
		}

		var parsed interface{}
		if err := json.Unmarshal([]byte(body), &parsed); err != nil {
			logging.Debug("docs", "skipping unparseable fenced block in %s: %v", source, err)
			continue
		}
		example.Objects = append(example.Objects, json.RawMessage(body))
	}

	return example
}

// ExtractJSONExamples extracts fenced JSON blocks from every document whose
// name matches the pattern. Documents that contribute no parseable block are
// omitted from the result.
func (i *Index) ExtractJSONExamples(category Category, pattern string) ([]Example, error) {
	docs, err := i.Query(category, pattern, true)
	if err != nil {
		return nil, err
	}

	examples := []Example{}
	for _, doc := range docs {
		example := ExtractBlocks(doc.Name, doc.Content)
		if len(example.Objects) == 0 {
			continue
		}
		examples = append(examples, example)
	}
	return examples, nil
}

// ConfigExamples returns configuration examples for a protocol or target
// name, searching the adapter and target documentation. The name is matched
// as a substring so "s3" finds the AWS-S3 target documentation.
func (i *Index) ConfigExamples(name string) ([]Example, error) {
	pattern := Wildcard + strings.TrimSpace(name) + Wildcard

	adapterExamples, err := i.ExtractJSONExamples(CategoryAdapter, pattern)
	if err != nil {
		return nil, err
	}
	targetExamples, err := i.ExtractJSONExamples(CategoryTarget, pattern)
	if err != nil {
		return nil, err
	}

	return append(adapterExamples, targetExamples...), nil
}
