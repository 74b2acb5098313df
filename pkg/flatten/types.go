// ABOUTME: Flattening configuration and flat item data model
// ABOUTME: Hierarchy modes, lineage strategies, and the emitted row shape

package flatten

import (
	"fmt"
	"strconv"

	"github.com/plmkit/bomflow/pkg/assembly"
)

// HierarchyMode selects the output shape of a flattening run
type HierarchyMode int

const (
	// Hierarchical passes the tree through untouched
	Hierarchical HierarchyMode = iota
	// Flattened emits one row per node with strategy-specific lineage
	Flattened
	// Inducted is Flattened with the strategy forced to ParentReference,
	// keeping the flat list reconstructable into the original tree
	Inducted
)

// String returns the mode name
func (m HierarchyMode) String() string {
	switch m {
	case Hierarchical:
		return "hierarchical"
	case Flattened:
		return "flattened"
	case Inducted:
		return "inducted"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a mode name onto a HierarchyMode
func ParseMode(s string) (HierarchyMode, error) {
	switch s {
	case "hierarchical":
		return Hierarchical, nil
	case "flattened":
		return Flattened, nil
	case "inducted":
		return Inducted, nil
	}
	return 0, fmt.Errorf("flatten: unknown hierarchy mode %q", s)
}

// Strategy selects the lineage metadata carried on each emitted row
type Strategy int

const (
	// Path joins ancestor part numbers from root to self
	Path Strategy = iota
	// IndentedLabel prefixes the part number with one indent unit per level
	IndentedLabel
	// LevelPrefix joins 1-based sibling ordinals per depth, e.g. "1.2.3"
	LevelPrefix
	// ParentReference records the immediate parent's synthetic ID; the only
	// strategy that preserves exact reconstructability of the tree
	ParentReference
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case Path:
		return "path"
	case IndentedLabel:
		return "indented_label"
	case LevelPrefix:
		return "level_prefix"
	case ParentReference:
		return "parent_reference"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name onto a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "path":
		return Path, nil
	case "indented_label":
		return IndentedLabel, nil
	case "level_prefix":
		return LevelPrefix, nil
	case "parent_reference":
		return ParentReference, nil
	}
	return 0, fmt.Errorf("flatten: unknown strategy %q", s)
}

// Separator and indent defaults applied by Config when left empty
const (
	DefaultPathSeparator        = " > "
	DefaultLevelPrefixSeparator = "."
	DefaultIndentUnit           = "    "
)

// Config controls how an assembly tree is flattened
type Config struct {
	Mode                 HierarchyMode
	Strategy             Strategy
	PathSeparator        string // Path strategy, defaults to " > "
	LevelPrefixSeparator string // LevelPrefix strategy, defaults to "."
	IndentUnit           string // IndentedLabel strategy, defaults to four spaces
	MaxDepth             int    // truncate traversal below this level; 0 means unbounded
	IncludeQuantities    bool
	IncludeMaterials     bool
	IncludeProperties    bool
}

// DefaultConfig returns a Flattened/Path config propagating every field
func DefaultConfig() Config {
	return Config{
		Mode:              Flattened,
		Strategy:          Path,
		IncludeQuantities: true,
		IncludeMaterials:  true,
		IncludeProperties: true,
	}
}

// Validate rejects self-contradictory configuration before any node is
// processed
func (c Config) Validate() error {
	switch c.Mode {
	case Hierarchical, Flattened, Inducted:
	default:
		return &InvalidConfigError{Reason: fmt.Sprintf("unknown hierarchy mode %d", int(c.Mode))}
	}
	switch c.Strategy {
	case Path, IndentedLabel, LevelPrefix, ParentReference:
	default:
		return &InvalidConfigError{Reason: fmt.Sprintf("unknown strategy %d", int(c.Strategy))}
	}
	if c.MaxDepth < 0 {
		return &InvalidConfigError{Reason: "max depth must not be negative"}
	}
	return nil
}

// withDefaults fills empty separators
func (c Config) withDefaults() Config {
	if c.PathSeparator == "" {
		c.PathSeparator = DefaultPathSeparator
	}
	if c.LevelPrefixSeparator == "" {
		c.LevelPrefixSeparator = DefaultLevelPrefixSeparator
	}
	if c.IndentUnit == "" {
		c.IndentUnit = DefaultIndentUnit
	}
	return c
}

// FlatItem is one emitted row. Exactly one lineage field is populated,
// matching the strategy the list was flattened with.
type FlatItem struct {
	SyntheticID      int64           `json:"synthetic_id"`
	PartNumber       string          `json:"part_number"`
	Description      string          `json:"description,omitempty"`
	Material         string          `json:"material,omitempty"`
	LocalQuantity    int             `json:"local_quantity,omitempty"`
	RolledUpQuantity int             `json:"rolled_up_quantity"`
	Level            int             `json:"level"`
	CustomFields     assembly.Fields `json:"custom_fields,omitempty"`

	Path               string `json:"path,omitempty"`
	IndentedLabel      string `json:"indented_label,omitempty"`
	LevelPrefixedLabel string `json:"level_prefixed_label,omitempty"`
	ParentSyntheticID  int64  `json:"parent_synthetic_id,omitempty"` // 0 for roots
}

// FieldValue exposes item fields by logical name for rule evaluation and
// cross-referencing. "quantity" resolves to the rolled-up quantity, which is
// what a flat row means to downstream consumers.
func (it *FlatItem) FieldValue(name string) (string, bool) {
	switch name {
	case assembly.FieldPartNumber:
		return it.PartNumber, true
	case assembly.FieldDescription:
		return it.Description, true
	case assembly.FieldMaterial:
		return it.Material, true
	case assembly.FieldQuantity, "rolled_up_quantity":
		return strconv.Itoa(it.RolledUpQuantity), true
	case "local_quantity":
		return strconv.Itoa(it.LocalQuantity), true
	}
	return it.CustomFields.Get(name)
}

// FlatList is an ordered list of emitted rows
type FlatList []*FlatItem

// Output is the result of a flattening run: the untouched tree in
// Hierarchical mode, a flat list otherwise
type Output struct {
	Mode  HierarchyMode          `json:"mode"`
	Tree  *assembly.AssemblyTree `json:"tree,omitempty"`
	Items FlatList               `json:"items,omitempty"`
}
