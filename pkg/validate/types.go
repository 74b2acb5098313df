// ABOUTME: Validation rule model and report types
// ABOUTME: Closed rule-type enum with per-type parameters

package validate

import "fmt"

// RuleType is the closed set of supported rule kinds. Evaluation switches
// exhaustively over it; there is no open-ended rule dispatch.
type RuleType int

const (
	// RuleRequired flags absent, null, or empty-string values
	RuleRequired RuleType = iota
	// RuleFormatPattern flags present values that do not fully match Pattern
	RuleFormatPattern
	// RuleValueRange flags numeric values outside [Min, Max]; a non-numeric
	// value is itself a finding
	RuleValueRange
	// RuleAllowedValues flags values outside the Allowed set
	RuleAllowedValues
	// RuleDuplicateCheck flags every row whose field value repeats within
	// the batch, the first occurrence included
	RuleDuplicateCheck
	// RuleDatabaseExistenceCheck partitions rows into new and existing
	// against the snapshot without raising findings
	RuleDatabaseExistenceCheck
)

// String returns the rule type name
func (t RuleType) String() string {
	switch t {
	case RuleRequired:
		return "required"
	case RuleFormatPattern:
		return "format_pattern"
	case RuleValueRange:
		return "value_range"
	case RuleAllowedValues:
		return "allowed_values"
	case RuleDuplicateCheck:
		return "duplicate_check"
	case RuleDatabaseExistenceCheck:
		return "database_existence_check"
	}
	return fmt.Sprintf("rule(%d)", int(t))
}

// ParseRuleType maps a rule type name onto a RuleType
func ParseRuleType(s string) (RuleType, error) {
	switch s {
	case "required":
		return RuleRequired, nil
	case "format_pattern":
		return RuleFormatPattern, nil
	case "value_range":
		return RuleValueRange, nil
	case "allowed_values":
		return RuleAllowedValues, nil
	case "duplicate_check":
		return RuleDuplicateCheck, nil
	case "database_existence_check":
		return RuleDatabaseExistenceCheck, nil
	}
	return 0, fmt.Errorf("validate: unknown rule type %q", s)
}

// Severity of a finding. Only Error-severity findings block validity.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the severity name
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ParseSeverity maps a severity name onto a Severity
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	}
	return 0, fmt.Errorf("validate: unknown severity %q", s)
}

// Rule is one validation rule. Only the parameters matching Type are
// consulted; the rest stay zero.
type Rule struct {
	Field    string   `json:"field"`
	Type     RuleType `json:"type"`
	Pattern  string   `json:"pattern,omitempty"` // RuleFormatPattern, full match
	Min      *float64 `json:"min,omitempty"`     // RuleValueRange
	Max      *float64 `json:"max,omitempty"`     // RuleValueRange
	Allowed  []string `json:"allowed,omitempty"` // RuleAllowedValues
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"` // optional template; {value} is replaced
}

// Issue codes emitted by the validator
const (
	CodeRequiredMissing = "required_missing"
	CodeFormatMismatch  = "format_mismatch"
	CodeOutOfRange      = "value_out_of_range"
	CodeNotNumeric      = "value_not_numeric"
	CodeNotAllowed      = "value_not_allowed"
	CodeDuplicateValue  = "duplicate_value"
)

// Issue is one data-quality finding on one row and field
type Issue struct {
	RowIndex   int      `json:"row_index"`
	Field      string   `json:"field"`
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Report is the outcome of one validation pass. Issues are ordered by row
// index, then by rule position, so identical inputs produce identical
// reports.
type Report struct {
	IsValid      bool    `json:"is_valid"` // no Error-severity issues
	Issues       []Issue `json:"issues"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`

	// Row partition by snapshot presence, populated only when a
	// RuleDatabaseExistenceCheck rule ran
	NewItems      []int `json:"new_items,omitempty"`
	ExistingItems []int `json:"existing_items,omitempty"`
}

// Row is the field-access contract validated items must satisfy. FlatItems
// and AssemblyNodes both implement it.
type Row interface {
	FieldValue(name string) (string, bool)
}
