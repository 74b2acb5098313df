// Package flatten walks assembly trees and emits flat item lists with
// multiplicative quantity rollup
package flatten

import (
	"errors"
	"fmt"
)

// ErrNoParentLineage indicates a reconstruction attempt on a list that was
// not flattened with the ParentReference strategy
var ErrNoParentLineage = errors.New("flatten: list carries no parent lineage")

// InvalidConfigError reports a self-contradictory FlatteningConfig, rejected
// before any node is processed
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("flatten: invalid config: %s", e.Reason)
}
