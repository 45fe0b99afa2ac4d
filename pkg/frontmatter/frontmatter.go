package frontmatter

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---(?:\r?\n(.*))?$`)

// Parse splits a Markdown document into its YAML front matter and body.
// A document without front matter yields an empty map and the content unchanged.
func Parse(content string) (map[string]any, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return map[string]any{}, content, nil
	}

	data := map[string]any{}
	if err := yaml.Unmarshal([]byte(matches[1]), &data); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, matches[2], nil
}

// LoadYAML parses a sidecar metadata file into a map. An empty file yields an
// empty map.
func LoadYAML(content []byte) (map[string]any, error) {
	data := map[string]any{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
