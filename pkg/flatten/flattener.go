// ABOUTME: Depth-first flattener with multiplicative quantity rollup
// ABOUTME: Emits one row per tree occurrence with strategy-specific lineage

package flatten

import (
	"strconv"
	"strings"

	"github.com/plmkit/bomflow/pkg/assembly"
)

// Flatten walks the tree pre-order and emits one FlatItem per node, with
// rolled_up_quantity equal to the product of local quantities along the
// root-to-self path. In Hierarchical mode the tree is returned untouched.
//
// Occurrences of the same part number at different tree locations are never
// merged here; MergeByPartNumber is the explicit post-processing step for
// callers that want summed quantities.
func Flatten(tree *assembly.AssemblyTree, cfg Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == Hierarchical {
		return &Output{Mode: Hierarchical, Tree: tree}, nil
	}

	cfg = cfg.withDefaults()
	strategy := cfg.Strategy
	if cfg.Mode == Inducted {
		strategy = ParentReference
	}

	f := &flattener{cfg: cfg, strategy: strategy}
	for i, root := range tree.Roots {
		// Roots are siblings at depth 0 and get ordinals of their own
		f.walk(root, i+1, 1, nil, nil)
	}
	return &Output{Mode: cfg.Mode, Items: f.items}, nil
}

type flattener struct {
	cfg      Config
	strategy Strategy
	items    FlatList
}

// walk emits the node and recurses. parentQty is the effective quantity of
// the parent path (1 at the root), ordinal the node's 1-based position among
// its siblings.
func (f *flattener) walk(n *assembly.AssemblyNode, ordinal, parentQty int, pathParts, ordinals []string) {
	if f.cfg.MaxDepth > 0 && n.Level > f.cfg.MaxDepth {
		return
	}
	qty := parentQty * n.LocalQuantity
	pathParts = append(pathParts, n.PartNumber)
	ordinals = append(ordinals, strconv.Itoa(ordinal))

	item := &FlatItem{
		SyntheticID:      n.SyntheticID,
		PartNumber:       n.PartNumber,
		Description:      n.Description,
		RolledUpQuantity: qty,
		Level:            n.Level,
	}
	if f.cfg.IncludeQuantities {
		item.LocalQuantity = n.LocalQuantity
	}
	if f.cfg.IncludeMaterials {
		item.Material = n.Material
	}
	if f.cfg.IncludeProperties {
		item.CustomFields = n.CustomFields
	}

	switch f.strategy {
	case Path:
		item.Path = strings.Join(pathParts, f.cfg.PathSeparator)
	case IndentedLabel:
		item.IndentedLabel = strings.Repeat(f.cfg.IndentUnit, n.Level) + n.PartNumber
	case LevelPrefix:
		item.LevelPrefixedLabel = strings.Join(ordinals, f.cfg.LevelPrefixSeparator)
	case ParentReference:
		item.ParentSyntheticID = n.ParentID
	}
	f.items = append(f.items, item)

	for i, child := range n.Children {
		f.walk(child, i+1, qty, pathParts, ordinals)
	}
}

// Reconstruct rebuilds the parent/child structure from ParentReference
// lineage, grouping items under their recorded parents. It fails with
// ErrNoParentLineage when an item references a parent that is not in the
// list, which is what a list flattened with any other strategy looks like.
// Rolled-up quantities are derived data and are not restored.
func (fl FlatList) Reconstruct() (*assembly.AssemblyTree, error) {
	nodes := make(map[int64]*assembly.AssemblyNode, len(fl))
	for _, it := range fl {
		nodes[it.SyntheticID] = &assembly.AssemblyNode{
			SyntheticID:   it.SyntheticID,
			PartNumber:    it.PartNumber,
			Description:   it.Description,
			Material:      it.Material,
			LocalQuantity: it.LocalQuantity,
			CustomFields:  it.CustomFields,
		}
	}

	var roots []*assembly.AssemblyNode
	for _, it := range fl {
		node := nodes[it.SyntheticID]
		if it.ParentSyntheticID == 0 {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[it.ParentSyntheticID]
		if !ok {
			return nil, ErrNoParentLineage
		}
		parent.Children = append(parent.Children, node)
	}
	return assembly.NewTree(roots), nil
}
