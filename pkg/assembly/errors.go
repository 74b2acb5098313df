// Package assembly normalizes raw extractor trees into validated assembly trees
package assembly

import (
	"fmt"
	"strings"
)

// Reasons attached to a MalformedHierarchyError
const (
	ReasonNonPositiveQuantity = "local quantity must be positive"
	ReasonCycle               = "node is its own ancestor"
	ReasonDepthExceeded       = "maximum hierarchy depth exceeded"
)

// MalformedHierarchyError reports a structurally invalid input tree: a
// non-positive quantity, a cycle, or a depth past the configured cap. The
// whole extraction should be rejected; partial processing is never safe.
type MalformedHierarchyError struct {
	Reason string
	Path   []string // part numbers from the root to the offending node
}

func (e *MalformedHierarchyError) Error() string {
	return fmt.Sprintf("assembly: malformed hierarchy at %q: %s",
		strings.Join(e.Path, " > "), e.Reason)
}
