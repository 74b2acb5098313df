// Package validate applies ordered rule lists to item batches and produces
// deterministic validation reports
package validate

import "fmt"

// InvalidRuleError reports a rule with self-contradictory parameters,
// rejected at call time before any row is examined
type InvalidRuleError struct {
	RuleIndex int
	Reason    string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("validate: invalid rule %d: %s", e.RuleIndex, e.Reason)
}
