// ABOUTME: Tests for YAML rule file parsing
// ABOUTME: Verifies type/severity mapping and malformed document rejection

package validate

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRules = `
rules:
  - field: part_number
    type: required
  - field: part_number
    type: format_pattern
    pattern: "[A-Z]+-[0-9]+"
    severity: error
  - field: quantity
    type: value_range
    min: 1
    max: 10000
    severity: warning
  - field: material
    type: allowed_values
    allowed: [steel, aluminum]
    message: "material {value} is not approved"
`

func TestParseRules(t *testing.T) {
	rules, err := ParseRules([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Failed to parse rules: %v", err)
	}
	if len(rules) != 4 {
		t.Fatalf("Expected 4 rules, got %d", len(rules))
	}

	if rules[0].Type != RuleRequired || rules[0].Severity != SeverityError {
		t.Errorf("Expected required/error default, got %+v", rules[0])
	}
	if rules[1].Pattern != "[A-Z]+-[0-9]+" {
		t.Errorf("Unexpected pattern %q", rules[1].Pattern)
	}
	if rules[2].Severity != SeverityWarning || *rules[2].Min != 1 || *rules[2].Max != 10000 {
		t.Errorf("Unexpected range rule %+v", rules[2])
	}
	if len(rules[3].Allowed) != 2 || rules[3].Message == "" {
		t.Errorf("Unexpected allowed rule %+v", rules[3])
	}

	// A parsed rule set passes the same compile pass as one built in code
	if _, err := Validate(nil, rules, nil); err != nil {
		t.Errorf("Expected parsed rules to compile: %v", err)
	}
}

func TestParseRulesRejectsUnknownType(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - field: x\n    type: telepathy\n"))
	if err == nil {
		t.Fatal("Expected error for unknown rule type")
	}
}

func TestParseRulesRejectsUnknownSeverity(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - field: x\n    type: required\n    severity: fatal\n"))
	if err == nil {
		t.Fatal("Expected error for unknown severity")
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleRules), 0o644); err != nil {
		t.Fatalf("Failed to write rule file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}
	if len(rules) != 4 {
		t.Errorf("Expected 4 rules, got %d", len(rules))
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
