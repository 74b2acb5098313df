// ABOUTME: Rule evaluation engine producing deterministic validation reports
// ABOUTME: Compiles rule parameters up front and rejects contradictory rules

package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/plmkit/bomflow/pkg/compare"
)

// Validate applies the rules to every row, in the order supplied, and
// accumulates findings into a Report. Rules with contradictory parameters
// fail with *InvalidRuleError before any row is examined. The snapshot is
// consulted only by RuleDatabaseExistenceCheck rules and may be nil when no
// such rule is present.
//
// Validation is a pure function of its inputs: no side effects, and issue
// order is row index first, rule position second.
func Validate(rows []Row, rules []Rule, snapshot compare.Snapshot) (*Report, error) {
	compiled, err := compileRules(rules, snapshot)
	if err != nil {
		return nil, err
	}

	// Batch pass for duplicate rules: collect row indices per field value
	for _, cr := range compiled {
		if cr.Type != RuleDuplicateCheck {
			continue
		}
		cr.duplicates = make(map[string][]int)
		for i, row := range rows {
			if v, ok := row.FieldValue(cr.Field); ok && v != "" {
				cr.duplicates[v] = append(cr.duplicates[v], i)
			}
		}
	}

	report := &Report{IsValid: true}
	for i, row := range rows {
		for _, cr := range compiled {
			if cr.Type == RuleDatabaseExistenceCheck {
				cr.partitionRow(i, row, snapshot, report)
				continue
			}
			if issue, found := cr.apply(i, row); found {
				report.Issues = append(report.Issues, issue)
				switch issue.Severity {
				case SeverityError:
					report.ErrorCount++
					report.IsValid = false
				case SeverityWarning:
					report.WarningCount++
				}
			}
		}
	}
	return report, nil
}

// compiledRule is a Rule with its parameters resolved for evaluation
type compiledRule struct {
	Rule
	re               *regexp.Regexp
	allowed          map[string]struct{}
	duplicates       map[string][]int
	isFirstExistence bool
}

func compileRules(rules []Rule, snapshot compare.Snapshot) ([]*compiledRule, error) {
	compiled := make([]*compiledRule, 0, len(rules))
	sawExistence := false
	for i, r := range rules {
		if r.Field == "" {
			return nil, &InvalidRuleError{RuleIndex: i, Reason: "field name is empty"}
		}
		cr := &compiledRule{Rule: r}
		switch r.Type {
		case RuleRequired, RuleDuplicateCheck:
		case RuleFormatPattern:
			if r.Pattern == "" {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: "format rule has no pattern"}
			}
			re, err := regexp.Compile("^(?:" + r.Pattern + ")$")
			if err != nil {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: fmt.Sprintf("bad pattern: %v", err)}
			}
			cr.re = re
		case RuleValueRange:
			if r.Min == nil && r.Max == nil {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: "range rule has no bounds"}
			}
			if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: "range minimum exceeds maximum"}
			}
		case RuleAllowedValues:
			if len(r.Allowed) == 0 {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: "allowed-values rule has empty set"}
			}
			cr.allowed = make(map[string]struct{}, len(r.Allowed))
			for _, v := range r.Allowed {
				cr.allowed[v] = struct{}{}
			}
		case RuleDatabaseExistenceCheck:
			if snapshot == nil {
				return nil, &InvalidRuleError{RuleIndex: i, Reason: "existence check requires a snapshot"}
			}
			cr.isFirstExistence = !sawExistence
			sawExistence = true
		default:
			return nil, &InvalidRuleError{RuleIndex: i, Reason: fmt.Sprintf("unknown rule type %d", int(r.Type))}
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// partitionRow records snapshot presence for an existence rule. Presence is
// informational, never a finding. Only the first existence rule fills the
// partition.
func (cr *compiledRule) partitionRow(idx int, row Row, snapshot compare.Snapshot, report *Report) {
	if !cr.isFirstExistence {
		return
	}
	if v, ok := row.FieldValue(cr.Field); ok {
		if _, exists := snapshot[v]; exists {
			report.ExistingItems = append(report.ExistingItems, idx)
			return
		}
	}
	report.NewItems = append(report.NewItems, idx)
}

// apply evaluates one rule against one row
func (cr *compiledRule) apply(idx int, row Row) (Issue, bool) {
	value, present := row.FieldValue(cr.Field)

	switch cr.Type {
	case RuleRequired:
		if !present || value == "" {
			return cr.issue(idx, value, CodeRequiredMissing,
				fmt.Sprintf("field %q is required", cr.Field), ""), true
		}
	case RuleFormatPattern:
		if present && !cr.re.MatchString(value) {
			return cr.issue(idx, value, CodeFormatMismatch,
				fmt.Sprintf("value %q does not match pattern %q", value, cr.Pattern), ""), true
		}
	case RuleValueRange:
		if !present {
			return Issue{}, false
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return cr.issue(idx, value, CodeNotNumeric,
				fmt.Sprintf("value %q is not numeric", value), ""), true
		}
		if cr.Min != nil && n < *cr.Min {
			return cr.issue(idx, value, CodeOutOfRange,
				fmt.Sprintf("value %v is below minimum %v", n, *cr.Min), ""), true
		}
		if cr.Max != nil && n > *cr.Max {
			return cr.issue(idx, value, CodeOutOfRange,
				fmt.Sprintf("value %v is above maximum %v", n, *cr.Max), ""), true
		}
	case RuleAllowedValues:
		if present {
			if _, ok := cr.allowed[value]; !ok {
				return cr.issue(idx, value, CodeNotAllowed,
					fmt.Sprintf("value %q is not an allowed value", value), ""), true
			}
		}
	case RuleDuplicateCheck:
		if !present || value == "" {
			return Issue{}, false
		}
		if rows := cr.duplicates[value]; len(rows) > 1 {
			return cr.issue(idx, value, CodeDuplicateValue,
				fmt.Sprintf("value %q appears %d times in the batch", value, len(rows)),
				duplicateSuggestion(rows, idx)), true
		}
	}
	return Issue{}, false
}

// issue builds the finding, applying the rule's custom message template
func (cr *compiledRule) issue(idx int, value, code, message, suggestion string) Issue {
	if cr.Message != "" {
		message = strings.ReplaceAll(cr.Message, "{value}", value)
	}
	return Issue{
		RowIndex:   idx,
		Field:      cr.Field,
		Code:       code,
		Message:    message,
		Severity:   cr.Severity,
		Suggestion: suggestion,
	}
}

// duplicateSuggestion points the finding at the other rows sharing the value
func duplicateSuggestion(rows []int, self int) string {
	others := make([]string, 0, len(rows)-1)
	for _, r := range rows {
		if r != self {
			others = append(others, strconv.Itoa(r))
		}
	}
	return "same value at row " + strings.Join(others, ", ")
}
