// Package categorization holds the keyword classifier and the prefix pattern miner.
package categorization

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

var validate = validator.New()

// CategoryRule lists the keywords that map a description to one category.
type CategoryRule struct {
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// RuleTable is the ordered classification table. Order of Categories and of
// each Keywords list decides ties.
type RuleTable struct {
	GenericKeywords []string       `yaml:"generic_keywords" validate:"dive,required"`
	Categories      []CategoryRule `yaml:"categories" validate:"required,min=1,dive"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() (*RuleTable, error) {
	return LoadRules(bytes.NewReader(defaultRules))
}

// LoadRulesFile reads a rule table from a YAML file.
func LoadRulesFile(path string) (*RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file '%s': %w", path, err)
	}
	defer f.Close()

	table, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file '%s': %w", path, err)
	}
	return table, nil
}

// LoadRules decodes and validates a rule table. Unknown fields are rejected.
func LoadRules(r io.Reader) (*RuleTable, error) {
	table := &RuleTable{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(table); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty rule table")
		}
		return nil, fmt.Errorf("failed to decode rule table: %w", err)
	}

	if err := validate.Struct(table); err != nil {
		return nil, err
	}
	return table, nil
}
