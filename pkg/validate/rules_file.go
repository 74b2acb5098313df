// ABOUTME: Declarative YAML rule files
// ABOUTME: Maps rule documents onto the typed rule set

package validate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleDoc is the on-disk shape of a rule file:
//
//	rules:
//	  - field: part_number
//	    type: required
//	    severity: error
//	  - field: quantity
//	    type: value_range
//	    min: 1
type ruleDoc struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Field    string   `yaml:"field"`
	Type     string   `yaml:"type"`
	Pattern  string   `yaml:"pattern"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	Allowed  []string `yaml:"allowed"`
	Severity string   `yaml:"severity"`
	Message  string   `yaml:"message"`
}

// ParseRules decodes a YAML rule document. Severity defaults to error when
// omitted. Parameter consistency beyond names is checked later by Validate,
// so a loaded rule set gets the same scrutiny as one built in code.
func ParseRules(data []byte) ([]Rule, error) {
	var doc ruleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("validate: parsing rule file: %w", err)
	}

	rules := make([]Rule, 0, len(doc.Rules))
	for i, spec := range doc.Rules {
		rt, err := ParseRuleType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("validate: rule %d: %w", i, err)
		}
		severity := SeverityError
		if spec.Severity != "" {
			severity, err = ParseSeverity(spec.Severity)
			if err != nil {
				return nil, fmt.Errorf("validate: rule %d: %w", i, err)
			}
		}
		rules = append(rules, Rule{
			Field:    spec.Field,
			Type:     rt,
			Pattern:  spec.Pattern,
			Min:      spec.Min,
			Max:      spec.Max,
			Allowed:  spec.Allowed,
			Severity: severity,
			Message:  spec.Message,
		})
	}
	return rules, nil
}

// LoadRules reads and parses a YAML rule file from disk
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validate: reading rule file: %w", err)
	}
	return ParseRules(data)
}
