package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// CardRule selects a set of Markdown files and describes where their cards go.
type CardRule struct {
	// Glob is matched against files, relative to RootDir when set.
	Glob string `mapstructure:"glob" yaml:"glob"`
	// Title and ExternalURL seed the info of every matched card.
	Title       string `mapstructure:"title" yaml:"title,omitempty"`
	ExternalURL string `mapstructure:"externalUrl" yaml:"externalUrl,omitempty"`
	// Container places every matched card under this literal container path,
	// ignoring the file's own directory.
	Container string `mapstructure:"container" yaml:"container,omitempty"`
	// RootContainer is prepended to the file's directory path.
	RootContainer string `mapstructure:"rootContainer" yaml:"rootContainer,omitempty"`
	// RootDir is a directory glob; the rule is applied once per matched directory.
	RootDir string `mapstructure:"rootDir" yaml:"rootDir,omitempty"`
}

// Info returns the card info keys a rule may set.
func (r CardRule) Info() map[string]any {
	info := map[string]any{}
	if r.Title != "" {
		info[InfoTitle] = r.Title
	}
	if r.ExternalURL != "" {
		info[InfoExternalURL] = r.ExternalURL
	}
	return info
}

// DecodeCardRules converts loosely typed configuration (as produced by viper or
// yaml.v3) into card rules. Each entry is either a glob string or a map.
func DecodeCardRules(raw any) ([]CardRule, error) {
	if raw == nil {
		return []CardRule{}, nil
	}
	if s, ok := raw.(string); ok {
		raw = []any{s}
	}

	entries := reflect.ValueOf(raw)
	if entries.Kind() != reflect.Slice {
		return nil, fmt.Errorf("card rules must be a list, got %T", raw)
	}

	rules := make([]CardRule, 0, entries.Len())
	for i := 0; i < entries.Len(); i++ {
		var rule CardRule
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:  globShorthandHook,
			ErrorUnused: true,
			Result:      &rule,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(entries.Index(i).Interface()); err != nil {
			return nil, fmt.Errorf("failed to decode card rule %d: %w", i, err)
		}
		if strings.TrimSpace(rule.Glob) == "" {
			return nil, fmt.Errorf("card rule %d missing 'glob' field", i)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// globShorthandHook lets a bare string stand for {glob: string}.
func globShorthandHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(CardRule{}) {
		return map[string]any{"glob": data}, nil
	}
	return data, nil
}
